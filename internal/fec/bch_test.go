package fec

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// zeroCodeword returns the all-zero 46-bit word, which is a codeword
// of any linear code, so flipped bits against it are the error pattern.
func zeroCodeword() []byte {
	return make([]byte, 46)
}

func TestBCH_NoErrorRoundTrip(t *testing.T) {
	b := NewBCH2()
	cw := zeroCodeword()
	res := b.Decode(cw)
	require.False(t, res.Uncorrectable)
	require.Equal(t, 0, res.Corrected)
	require.Equal(t, cw, res.Data)
}

func TestBCH_SingleBitFlipCorrects(t *testing.T) {
	b := NewBCH2()
	rapid.Check(t, func(rt *rapid.T) {
		pos := rapid.IntRange(0, 45).Draw(rt, "pos")
		cw := zeroCodeword()
		cw[pos] ^= 1

		res := b.Decode(cw)
		require.False(t, res.Uncorrectable)
		require.Equal(t, zeroCodeword(), res.Data)
	})
}

func TestBCH_TwoBitFlipsCorrect(t *testing.T) {
	b := NewBCH2()
	rapid.Check(t, func(rt *rapid.T) {
		p1 := rapid.IntRange(0, 45).Draw(rt, "p1")
		p2 := rapid.IntRange(0, 45).Draw(rt, "p2")
		if p1 == p2 {
			rt.Skip("need two distinct positions")
		}
		cw := zeroCodeword()
		cw[p1] ^= 1
		cw[p2] ^= 1

		res := b.Decode(cw)
		require.False(t, res.Uncorrectable)
		require.Equal(t, zeroCodeword(), res.Data)
	})
}
