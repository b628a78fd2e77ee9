package sonde

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rs1729go/sondedecode/internal/fec"
)

func buildRS41SubPacketStream(packets ...rs41SubPacket) []byte {
	var out []byte
	for _, p := range packets {
		out = append(out, p.typeID, byte(len(p.data)))
		out = append(out, p.data...)
		var trailer [2]byte
		binary.LittleEndian.PutUint16(trailer[:], p.crcStored)
		out = append(out, trailer[:]...)
	}
	return out
}

func TestSplitRS41SubPackets_ParsesHeaderLenAndTrailer(t *testing.T) {
	frame := buildRS41SubPacketStream(
		rs41SubPacket{typeID: 0x79, data: []byte{1, 2, 3}, crcStored: 0xBEEF},
		rs41SubPacket{typeID: 0x7A, data: []byte{4, 5}, crcStored: 0x1234},
	)

	got := splitRS41SubPackets(frame)
	require.Len(t, got, 2)
	require.Equal(t, byte(0x79), got[0].typeID)
	require.Equal(t, []byte{1, 2, 3}, got[0].data)
	require.Equal(t, uint16(0xBEEF), got[0].crcStored)
	require.Equal(t, byte(0x7A), got[1].typeID)
	require.Equal(t, []byte{4, 5}, got[1].data)
	require.Equal(t, uint16(0x1234), got[1].crcStored)
}

func TestSplitRS41SubPackets_StopsAtZeroTypeID(t *testing.T) {
	frame := buildRS41SubPacketStream(rs41SubPacket{typeID: 0x79, data: []byte{1}, crcStored: 1})
	frame = append(frame, make([]byte, 16)...) // trailing zero padding

	got := splitRS41SubPackets(frame)
	require.Len(t, got, 1)
}

func TestRS41Interpreter_DecodeFrame_ParsesFrameNumberSondeIDAndCalibration(t *testing.T) {
	r := NewRS41Interpreter()

	d := make([]byte, 40)
	binary.LittleEndian.PutUint16(d[0:2], 1234)
	copy(d[2:10], "R1234567")
	d[23] = 5 // calfr slot index
	slot := [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	copy(d[24:40], slot[:])

	rec := Record{Extra: map[string]float64{}}
	r.decodeFrame(d, &rec)

	require.Equal(t, 1234, rec.FrameNumber)
	require.Equal(t, "R1234567", rec.ID)
	require.True(t, r.calib.Present[5])
	require.Equal(t, slot[:], r.calib.Bytes[5*16:5*16+16])
}

func TestRS41Interpreter_DecodeGPS1_SetsUTCFromWeekAndTOW(t *testing.T) {
	r := NewRS41Interpreter()

	d := make([]byte, 6)
	binary.LittleEndian.PutUint16(d[0:2], 2300)
	binary.LittleEndian.PutUint32(d[2:6], 123456)

	rec := Record{Extra: map[string]float64{}}
	r.decodeGPS1(d, &rec)

	want := r.decodeGPSTime(d[0:2], 123456)
	require.Equal(t, want, rec.UTC)
	require.WithinDuration(t, want, rec.UTC, time.Millisecond)
}

func TestRS41Interpreter_DecodeGPS_ParsesECEFAndNumSV(t *testing.T) {
	r := NewRS41Interpreter()

	d := make([]byte, 19)
	// A point on the equator at the prime meridian, 10km up.
	binary.LittleEndian.PutUint32(d[0:4], uint32(int32((6378137.0+10000.0)*100)))
	binary.LittleEndian.PutUint32(d[4:8], 0)
	binary.LittleEndian.PutUint32(d[8:12], 0)
	binary.LittleEndian.PutUint16(d[12:14], uint16(int16(500))) // vx = 5 m/s
	binary.LittleEndian.PutUint16(d[14:16], 0)
	binary.LittleEndian.PutUint16(d[16:18], uint16(int16(0))) // vz = 0
	d[18] = 9                                                 // numSV

	rec := Record{Extra: map[string]float64{}}
	r.decodeGPS(d, &rec)

	require.True(t, rec.HasGPS)
	require.Equal(t, 9, rec.NumSV)
	require.InDelta(t, 0.0, rec.LatDeg, 1e-3)
	require.InDelta(t, 0.0, rec.LonDeg, 1e-3)
	require.InDelta(t, 10000.0, rec.AltM, 1.0)
	require.InDelta(t, 5.0, rec.VHorizMps, 1e-6)
}

func TestRS41Interpreter_Interpret_ShortFrameErrors(t *testing.T) {
	r := NewRS41Interpreter()
	_, err := r.Interpret(make([]byte, 10), nil)
	require.Error(t, err)
}

func TestRS41Interpreter_Interpret_AllZeroFrameDecodesButReportsNoKnownSubPackets(t *testing.T) {
	// The all-zero vector is a codeword of any linear code regardless of
	// the RS interleave's symbol ordering, so both halves of an all-zero
	// 320-byte frame decode trivially (0 errors) without needing a real
	// encoder; zero type IDs then terminate the sub-packet scan
	// immediately, per splitRS41SubPackets.
	r := NewRS41Interpreter()
	rec, err := r.Interpret(make([]byte, 320), nil)
	require.NoError(t, err)
	require.False(t, rec.ECCUncorrect)
	require.Equal(t, 0, rec.ECCErrors)
	require.False(t, rec.CRCOk)
}

func TestRS41Interpreter_Interpret_CorrectsScatteredSingleByteErrors(t *testing.T) {
	// Corrupting a handful of individual frame bytes that map into the
	// parity codeword span (frame[8:32], cw1 positions 0-23) introduces
	// exactly that many symbol errors relative to the all-zero codeword;
	// this stays within the RS(255,231) t=12 correction bound and must
	// decode cleanly on the first (non-escalated) attempt.
	r := NewRS41Interpreter()
	frame := make([]byte, 320)
	for i := 8; i < 14; i++ { // 6 corrupted bytes, well under t=12
		frame[i] = byte(i)
	}

	rec, err := r.Interpret(frame, nil)
	require.NoError(t, err)
	require.False(t, rec.ECCUncorrect)
	require.Greater(t, rec.ECCErrors, 0)
}

func TestCalibStore_Float32AtReadsLittleEndianAcrossSlotBoundary(t *testing.T) {
	var c CalibStore
	// Place a float32 straddling the boundary between slot 37 (offset
	// 592-607) and slot 38 (608-623), at absolute offset 606.
	const offset = 606
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(1013.25))
	copy(c.Bytes[offset:offset+4], buf[:])

	require.InDelta(t, 1013.25, c.float32At(offset), 1e-3)
}

func TestCalibStore_Complete(t *testing.T) {
	var c CalibStore
	require.False(t, c.Complete())
	for i := 0; i < 51; i++ {
		c.store(i, [16]byte{})
	}
	require.True(t, c.Complete())
}

func TestRS41SubPacketCRC_RoundTrip(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5}
	crc := fec.CRC16CCITT(payload)
	frame := buildRS41SubPacketStream(rs41SubPacket{typeID: 0x79, data: payload, crcStored: crc})

	got := splitRS41SubPackets(frame)
	require.Len(t, got, 1)
	require.Equal(t, crc, got[0].crcStored)
	require.Equal(t, crc, fec.CRC16CCITT(got[0].data))
}
