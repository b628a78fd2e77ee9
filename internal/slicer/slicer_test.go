package slicer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSymbol_DirectFSK_PositiveAndNegative(t *testing.T) {
	s := New(Config{SamplesPerBit: 4, SymLen: 1})
	pos := s.Symbol([]float64{1, 1, 1, 1})
	require.Equal(t, 1, pos.Hard)
	require.InDelta(t, 4, pos.Soft, 1e-9)

	neg := s.Symbol([]float64{-1, -1, -1, -1})
	require.Equal(t, 0, neg.Hard)
	require.InDelta(t, -4, neg.Soft, 1e-9)
}

func TestSymbol_Manchester_ComparesHalves(t *testing.T) {
	s := New(Config{SamplesPerBit: 2, SymLen: 2})
	// first half positive, second half negative -> hard 1
	got := s.Symbol([]float64{1, 1, -1, -1})
	require.Equal(t, 1, got.Hard)
	require.InDelta(t, 4, got.Soft, 1e-9)
}

func TestSymbol_CentralRestrictsIntegration(t *testing.T) {
	// central=0 disables restriction; central=1 only looks at middle 3 samples
	samples := []float64{100, 1, 1, 1, -100}
	full := New(Config{SamplesPerBit: 5, SymLen: 1, Central: 0})
	restricted := New(Config{SamplesPerBit: 5, SymLen: 1, Central: 1})

	gotFull := full.Symbol(samples)
	gotRestricted := restricted.Symbol(samples)

	require.InDelta(t, 3, gotFull.Soft, 1e-9)
	require.InDelta(t, 3, gotRestricted.Soft, 1e-9)
}

func TestSymbol_SpikeFilterSuppressesOutlier(t *testing.T) {
	s := New(Config{SamplesPerBit: 3, SymLen: 1, SpikeFilter: true})
	// middle sample is a spike far from its neighbors' average
	got := s.Symbol([]float64{1, 10, 1})
	require.Equal(t, 1, got.Hard)
	require.Less(t, got.Soft, 12.0)
}

func TestSoft2_UsesOnlyFirstSubSymbol(t *testing.T) {
	s := New(Config{SamplesPerBit: 2, SymLen: 2})
	got := s.Soft2([]float64{1, 1, -5, -5})
	require.Equal(t, 1, got.Hard)
	require.InDelta(t, 2, got.Soft, 1e-9)
}
