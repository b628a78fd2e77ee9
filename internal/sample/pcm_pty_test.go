package sample

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"

	"github.com/rs1729go/sondedecode/internal/errs"
)

// TestPCMSourceOverPTY exercises NextSample against a pseudo-terminal
// rather than a plain in-memory buffer, so the blocking-read and EOF
// propagation path is verified against something that behaves like the
// streaming serial/USB device a field radio would actually present,
// matching how the reference project drives its serial-port tests.
func TestPCMSourceOverPTY(t *testing.T) {
	ptmx, tty, err := pty.Open()
	require.NoError(t, err)
	defer ptmx.Close()
	defer tty.Close()

	src := NewPCMSource(ptmx, 48000, FormatI16LE, 1, 0, false)

	const n = 8
	go func() {
		buf := make([]byte, 2*n)
		for i := 0; i < n; i++ {
			binary.LittleEndian.PutUint16(buf[2*i:], uint16(int16(i*100-350)))
		}
		_, _ = tty.Write(buf)
		time.Sleep(10 * time.Millisecond)
		tty.Close()
	}()

	var got []float64
	for i := 0; i < n; i++ {
		v, err := src.NextSample()
		require.NoError(t, err)
		got = append(got, v.Real)
	}
	require.Len(t, got, n)
	require.InDelta(t, -350.0/32768, got[0], 1e-9)

	_, err = src.NextSample()
	require.True(t, errs.Is(err, errs.KindIoEnd))
}
