package framer

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/rs1729go/sondedecode/internal/slicer"
)

func TestDeManchester(t *testing.T) {
	in := []byte{0, 1, 1, 0, 0, 1, 1, 0}
	got := DeManchester(in)
	require.Equal(t, []byte{0, 1, 0, 1}, got)
}

func TestDeInterleave_RoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		l := rapid.IntRange(2, 6).Draw(rt, "l")
		blocks := rapid.IntRange(1, 3).Draw(rt, "blocks")
		n := l * l * blocks
		bits := make([]byte, n)
		for i := range bits {
			bits[i] = byte(rapid.IntRange(0, 1).Draw(rt, "bit"))
		}

		// Interleave by writing column-major (the encoder's direction),
		// then DeInterleave should recover the original row-major order.
		interleaved := make([]byte, n)
		for blk := 0; blk < blocks; blk++ {
			base := blk * l * l
			for row := 0; row < l; row++ {
				for col := 0; col < l; col++ {
					interleaved[base+col*l+row] = bits[base+row*l+col]
				}
			}
		}

		got := DeInterleave(interleaved, l)
		require.Equal(t, bits, got)
	})
}

func TestPackBytes_BigEndian(t *testing.T) {
	bits := []byte{1, 0, 1, 0, 1, 0, 1, 0}
	got := PackBytes(bits, BigEndian)
	require.Equal(t, []byte{0xAA}, got)
}

func TestPackBytes_LittleEndian(t *testing.T) {
	bits := []byte{1, 0, 1, 0, 1, 0, 1, 0}
	got := PackBytes(bits, LittleEndian)
	require.Equal(t, []byte{0x55}, got)
}

func TestDewhiten_IsInvolution(t *testing.T) {
	mask := []byte{0xAA, 0x55, 0x0F}
	frame := []byte{0x12, 0x34, 0x56, 0x78, 0x9A}
	whitened := Dewhiten(frame, mask)
	require.NotEqual(t, frame, whitened)
	require.Equal(t, frame, Dewhiten(whitened, mask))
}

func TestCollector_PushReturnsTrueAtFrameLen(t *testing.T) {
	cfg := Config{BitFrameLen: 4}
	c := NewCollector(cfg)
	for i := 0; i < 3; i++ {
		require.False(t, c.Push(slicer.SoftBit{Hard: 1, Soft: 1}))
	}
	require.True(t, c.Push(slicer.SoftBit{Hard: 0, Soft: -1}))
	require.Equal(t, []byte{1, 1, 1, 0}, c.Bits())
}

func TestConfig_FrameLength_FixedWhenNoLenByte(t *testing.T) {
	cfg := Config{BitFrameLen: 16, LenByteOffset: -1}
	require.Equal(t, 2, cfg.FrameLength(nil))
}

func TestConfig_FrameLength_FromLenByte(t *testing.T) {
	cfg := Config{LenByteOffset: 1}
	frame := []byte{0x00, 0x20, 0x00}
	require.Equal(t, 0x20, cfg.FrameLength(frame))
}
