package sonde

import (
	"encoding/binary"

	"github.com/rs1729go/sondedecode/internal/errs"
	"github.com/rs1729go/sondedecode/internal/fec"
	"github.com/rs1729go/sondedecode/internal/framer"
	"github.com/rs1729go/sondedecode/internal/geo"
)

// MRZInterpreter implements spec.md §4.6's MP3-H1 (MRZ) row: 130-byte
// frames at 1200 Manchester, CRC-16 only, variant selection (ECEF vs
// lat/lon) by inspecting bytes 30..31.
type MRZInterpreter struct{}

func NewMRZInterpreter() *MRZInterpreter { return &MRZInterpreter{} }

func init() { Register(NewMRZInterpreter()) }

func (m *MRZInterpreter) Family() string { return "MRZ" }

func (m *MRZInterpreter) FrameConfig() framer.Config {
	return framer.Config{
		BitFrameLen:   130 * 8,
		Manchester:    true,
		Endian:        framer.BigEndian,
		LenByteOffset: -1,
	}
}

func (m *MRZInterpreter) Interpret(frame []byte, frameScore []float64) (Record, error) {
	if len(frame) < 32 {
		return Record{}, errs.New(errs.KindFecUncorrectable, "mrz: short frame")
	}

	rec := Record{Family: "MRZ", Extra: map[string]float64{}}

	stored := binary.BigEndian.Uint16(frame[len(frame)-2:])
	computed := fec.CRC16ReflectedMRZ(frame[:len(frame)-2])
	if stored != computed {
		return rec, errs.New(errs.KindCrcFail, "mrz: crc mismatch")
	}
	rec.CRCOk = true
	rec.FrameNumber = int(binary.BigEndian.Uint16(frame[0:2]))

	// Variant selection by inspecting bytes 30..31, per spec.md §4.6.
	isECEF := binary.BigEndian.Uint16(frame[30:32]) == 0

	if isECEF {
		x := float64(int32(binary.BigEndian.Uint32(frame[2:6]))) / 100.0
		y := float64(int32(binary.BigEndian.Uint32(frame[6:10]))) / 100.0
		z := float64(int32(binary.BigEndian.Uint32(frame[10:14]))) / 100.0
		g := geo.ECEF{X: x, Y: y, Z: z}.ToGeodetic()
		rec.LatDeg, rec.LonDeg, rec.AltM = g.LatDeg, g.LonDeg, g.AltM
	} else {
		latRaw := int32(binary.BigEndian.Uint32(frame[2:6]))
		lonRaw := int32(binary.BigEndian.Uint32(frame[6:10]))
		altRaw := int32(binary.BigEndian.Uint32(frame[10:14]))
		rec.LatDeg = float64(latRaw) / 1e6
		rec.LonDeg = float64(lonRaw) / 1e6
		rec.AltM = float64(altRaw) / 1000.0
	}
	rec.HasGPS = true

	if !plausibleAlt(rec.AltM) {
		rec.AltM = 0
		rec.HasGPS = false
	}
	return rec, nil
}
