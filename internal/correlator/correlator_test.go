package correlator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rs1729go/sondedecode/internal/dsp"
	"github.com/rs1729go/sondedecode/internal/header"
)

func TestScan_FindsEmbeddedHeader(t *testing.T) {
	bits := []int{1, 0, 1, 1, 0, 0, 1, 0, 1, 1, 0, 1, 0, 0, 1, 1}
	sps := 4
	hdr := header.New(bits, sps, 2.0)

	ring := dsp.NewRealRing(1 << 13)
	k := 512
	prefix := k / 2
	var idx uint32
	for i := 0; i < prefix; i++ {
		ring.Set(idx, 0)
		idx++
	}
	// Write the header's own pulse-shaped prototype into the ring so the
	// matched filter has a clean, known-position copy to find, offset
	// away from both window edges so the boundary check doesn't reject it.
	for _, v := range hdr.Prototype {
		ring.Set(idx, v)
		idx++
	}
	headerEnd := idx - 1
	for i := 0; i < k-prefix; i++ {
		ring.Set(idx, 0)
		idx++
	}
	tail := idx - 1

	c := New(hdr, k, false)
	hit, err := c.Scan(ring, tail, 1e-9, -1, 0)
	require.NoError(t, err)
	require.InDelta(t, float64(headerEnd), float64(hit.Position), 2)
	require.NotZero(t, hit.Score)
}

func TestScan_RejectsBelowThreshold(t *testing.T) {
	bits := []int{1, 0, 1, 1, 0, 0, 1, 0}
	sps := 4
	hdr := header.New(bits, sps, 2.0)

	ring := dsp.NewRealRing(1 << 13)
	k := 256
	tail := uint32(k + hdr.Len*sps - 1)

	c := New(hdr, k, false)
	_, err := c.Scan(ring, tail, 0.9, -1, 0)
	require.Error(t, err)
}

func TestCarrierTracker_LockedHysteresis(t *testing.T) {
	tr := NewCarrierTracker(48000)
	require.True(t, tr.Locked(500))
	require.False(t, tr.Locked(1500))
}

func TestCarrierTracker_CorrectNoOpBelowActionThreshold(t *testing.T) {
	tr := NewCarrierTracker(48000)
	ring := dsp.NewComplexRing(16)
	ring.Set(0, dsp.Complex{I: 1, Q: 0})
	applied := tr.Correct(ring, 0, 1, 50)
	require.Equal(t, 0.0, applied)
	require.Equal(t, dsp.Complex{I: 1, Q: 0}, ring.Get(0))
}

func TestCarrierTracker_EstimateFormula(t *testing.T) {
	tr := NewCarrierTracker(48000)
	got := tr.Estimate(0.01)
	want := 48000 * 0.01 / (2 * dsp.FMGain)
	require.InDelta(t, want, got, 1e-9)
}
