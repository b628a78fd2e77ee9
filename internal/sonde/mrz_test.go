package sonde

import (
	"encoding/binary"
	"testing"

	"github.com/rs1729go/sondedecode/internal/fec"

	"github.com/stretchr/testify/require"
)

func buildMRZFrame(frameNum uint16, latRaw, lonRaw, altRaw int32) []byte {
	frame := make([]byte, 130)
	binary.BigEndian.PutUint16(frame[0:2], frameNum)
	binary.BigEndian.PutUint32(frame[2:6], uint32(latRaw))
	binary.BigEndian.PutUint32(frame[6:10], uint32(lonRaw))
	binary.BigEndian.PutUint32(frame[10:14], uint32(altRaw))
	// bytes 30..31 nonzero selects the lat/lon variant over ECEF.
	binary.BigEndian.PutUint16(frame[30:32], 1)
	crc := fec.CRC16ReflectedMRZ(frame[:128])
	binary.BigEndian.PutUint16(frame[128:130], crc)
	return frame
}

func TestMRZInterpret_LatLonVariant(t *testing.T) {
	m := NewMRZInterpreter()
	frame := buildMRZFrame(7, 51_500_000, -100_000, 12000)

	rec, err := m.Interpret(frame, nil)
	require.NoError(t, err)
	require.True(t, rec.CRCOk)
	require.Equal(t, 7, rec.FrameNumber)
	require.InDelta(t, 51.5, rec.LatDeg, 1e-6)
	require.InDelta(t, -0.1, rec.LonDeg, 1e-6)
	require.InDelta(t, 12.0, rec.AltM, 1e-6)
	require.True(t, rec.HasGPS)
}

func TestMRZInterpret_CRCMismatch(t *testing.T) {
	m := NewMRZInterpreter()
	frame := buildMRZFrame(1, 0, 0, 0)
	frame[129] ^= 0xFF

	rec, err := m.Interpret(frame, nil)
	require.Error(t, err)
	require.False(t, rec.CRCOk)
}

func TestMRZInterpret_ImplausibleAltitudeSuppressesGPS(t *testing.T) {
	m := NewMRZInterpreter()
	frame := buildMRZFrame(2, 51_500_000, -100_000, 90000*1000)

	rec, err := m.Interpret(frame, nil)
	require.NoError(t, err)
	require.True(t, rec.CRCOk)
	require.False(t, rec.HasGPS)
	require.Equal(t, 0.0, rec.AltM)
}

func TestMRZInterpret_ShortFrameErrors(t *testing.T) {
	m := NewMRZInterpreter()
	_, err := m.Interpret(make([]byte, 10), nil)
	require.Error(t, err)
}
