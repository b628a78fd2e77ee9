package header

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_PrototypeHasUnitNorm(t *testing.T) {
	d := New([]int{1, 0, 1, 1, 0, 0, 1, 0}, 8, 2.0)
	require.Equal(t, 8, d.Len)
	require.Equal(t, 64, len(d.Prototype))

	var ss float64
	for _, v := range d.Prototype {
		ss += v * v
	}
	require.InDelta(t, 1, math.Sqrt(ss), 1e-9)
}

func TestReversed_IsTimeReverseOfPrototype(t *testing.T) {
	d := New([]int{1, 0, 1, 0}, 4, 2.0)
	rev := d.Reversed()
	n := len(d.Prototype)
	for i := range d.Prototype {
		require.InDelta(t, d.Prototype[i], rev[n-1-i], 1e-12)
	}
}

func TestHammingDistance_ExactMatchIsZero(t *testing.T) {
	d := New([]int{1, 0, 1, 1}, 4, 2.0)
	require.Equal(t, 0, d.HammingDistance([]int{1, 0, 1, 1}))
}

func TestHammingDistance_CountsMismatchesAndShortfall(t *testing.T) {
	d := New([]int{1, 0, 1, 1}, 4, 2.0)
	require.Equal(t, 2, d.HammingDistance([]int{0, 0, 0, 1}))
	// candidate shorter than the header counts the missing tail as errors
	require.Equal(t, 2, d.HammingDistance([]int{1, 0}))
}
