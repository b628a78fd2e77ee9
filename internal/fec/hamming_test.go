package fec

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestHamming84_NoErrorRoundTrip(t *testing.T) {
	for d := 0; d < 16; d++ {
		cw := HammingCodewords[d]
		res := DecodeHamming84(cw, [8]float64{}, false)
		require.False(t, res.Uncorrectable)
		require.Equal(t, 0, res.Corrected)
		require.EqualValues(t, d, res.Data)
	}
}

func TestHamming84_SingleBitCorrects(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := rapid.IntRange(0, 15).Draw(rt, "data")
		flipBit := rapid.IntRange(0, 7).Draw(rt, "flipBit")

		cw := HammingCodewords[d]
		cw[flipBit] ^= 1

		res := DecodeHamming84(cw, [8]float64{}, false)
		require.False(t, res.Uncorrectable)
		require.EqualValues(t, d, res.Data)
	})
}

func TestHamming84_TwoBitErrorsUncorrectableWithoutSoft(t *testing.T) {
	// Two errors land outside the single-error syndrome table; the
	// hard decoder must report Uncorrectable rather than silently
	// miscorrecting.
	cw := HammingCodewords[5]
	cw[0] ^= 1
	cw[4] ^= 1
	res := DecodeHamming84(cw, [8]float64{}, false)
	require.True(t, res.Uncorrectable)
}
