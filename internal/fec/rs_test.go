package fec

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func rs41RS() *RSDescriptor {
	gf := NewGF(8, 0x11D)
	return NewRS(gf, 255, 24, 1, 1)
}

func TestRS_NoErrorRoundTrip(t *testing.T) {
	rs := rs41RS()
	msg := make([]byte, rs.K)
	for i := range msg {
		msg[i] = byte(i * 7)
	}
	parity := rs.Encode(msg)
	cw := append(append([]byte(nil), msg...), parity...)

	syn := rs.Syndromes(cw)
	for _, s := range syn {
		require.Equal(t, 0, s)
	}

	res := rs.Decode(cw, nil)
	require.False(t, res.Uncorrectable)
	require.Equal(t, 0, res.Errors)
	require.Equal(t, cw, res.Data)
}

func TestRS_CorrectsUpToT_Errors(t *testing.T) {
	rs := rs41RS()
	rapid.Check(t, func(rt *rapid.T) {
		msg := make([]byte, rs.K)
		for i := range msg {
			msg[i] = byte(rapid.IntRange(0, 255).Draw(rt, "sym"))
		}
		parity := rs.Encode(msg)
		cw := append(append([]byte(nil), msg...), parity...)

		corrupted := append([]byte(nil), cw...)
		nErrs := rapid.IntRange(1, rs.T).Draw(rt, "nErrs")
		used := map[int]bool{}
		for len(used) < nErrs {
			pos := rapid.IntRange(0, rs.N-1).Draw(rt, "pos")
			if used[pos] {
				continue
			}
			used[pos] = true
			delta := byte(rapid.IntRange(1, 255).Draw(rt, "delta"))
			corrupted[pos] ^= delta
		}

		res := rs.Decode(corrupted, nil)
		require.False(t, res.Uncorrectable)
		require.Equal(t, cw, res.Data)
	})
}
