package waveio

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildWAV(sampleRate uint32, channels, bits uint16, data []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	fmtChunkSize := 16
	dataChunkSize := len(data)
	riffSize := 4 + (8 + fmtChunkSize) + (8 + dataChunkSize)
	binary.Write(&buf, binary.LittleEndian, uint32(riffSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(fmtChunkSize))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, channels)
	binary.Write(&buf, binary.LittleEndian, sampleRate)
	byteRate := sampleRate * uint32(channels) * uint32(bits) / 8
	binary.Write(&buf, binary.LittleEndian, byteRate)
	blockAlign := channels * bits / 8
	binary.Write(&buf, binary.LittleEndian, blockAlign)
	binary.Write(&buf, binary.LittleEndian, bits)

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataChunkSize))
	buf.Write(data)

	return buf.Bytes()
}

func TestReadHeader_ParsesCanonicalPCMWav(t *testing.T) {
	raw := buildWAV(48000, 1, 16, []byte{1, 2, 3, 4})
	f, err := ReadHeader(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, 1, f.Channels)
	require.Equal(t, 48000, f.SampleRate)
	require.Equal(t, 16, f.BitsPerSample)
	require.Equal(t, int64(4), f.DataSize)
}

func TestReadHeader_NormalizesKnownSampleRateQuirk(t *testing.T) {
	raw := buildWAV(900001, 1, 16, []byte{0, 0})
	f, err := ReadHeader(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, 900000, f.SampleRate)
}

func TestReadHeader_RejectsNonRIFF(t *testing.T) {
	_, err := ReadHeader(bytes.NewReader([]byte("NOTARIFFxxxxWAVE")))
	require.Error(t, err)
}

func TestReadHeader_SkipsUnknownChunksBeforeData(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(0))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint32(44100))
	binary.Write(&buf, binary.LittleEndian, uint32(88200))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("LIST")
	binary.Write(&buf, binary.LittleEndian, uint32(4))
	buf.Write([]byte{0xDE, 0xAD, 0xBE, 0xEF})

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(2))
	buf.Write([]byte{7, 8})

	f, err := ReadHeader(&buf)
	require.NoError(t, err)
	require.Equal(t, 44100, f.SampleRate)
	require.Equal(t, int64(2), f.DataSize)
}
