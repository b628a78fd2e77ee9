package fec

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestViterbi_NoNoiseRoundTrip(t *testing.T) {
	v := NewViterbiLMS6()
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 40).Draw(rt, "nBits")
		msg := make([]byte, n)
		for i := range msg {
			msg[i] = byte(rapid.IntRange(0, 1).Draw(rt, "bit"))
		}

		encoded := v.Encode(msg)
		require.Len(t, encoded, 2*n)

		decoded, metric := v.Decode(encoded)
		require.Equal(t, msg, decoded)
		require.Equal(t, 0, metric)
	})
}

func TestViterbi_SingleBitFlipStillDecodes(t *testing.T) {
	v := NewViterbiLMS6()
	msg := []byte{1, 0, 1, 1, 0, 0, 1, 0, 1, 1, 0, 1, 0, 0, 1, 1}
	encoded := v.Encode(msg)

	flipped := append([]byte(nil), encoded...)
	flipped[3] ^= 1

	decoded, _ := v.Decode(flipped)
	require.Equal(t, msg, decoded)
}

func TestViterbi_SoftDecodeMatchesHardOnCleanSignal(t *testing.T) {
	v := NewViterbiLMS6()
	msg := []byte{0, 1, 1, 0, 1, 0, 0, 1, 1, 1, 0, 0}
	encoded := v.Encode(msg)

	sym := make([]float64, len(encoded))
	for i, b := range encoded {
		if b == 1 {
			sym[i] = 1.0
		} else {
			sym[i] = -1.0
		}
	}

	decoded, _ := v.DecodeSoft(sym)
	require.Equal(t, msg, decoded)
}
