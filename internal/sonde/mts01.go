package sonde

import (
	"strconv"
	"strings"

	"github.com/rs1729go/sondedecode/internal/errs"
	"github.com/rs1729go/sondedecode/internal/fec"
	"github.com/rs1729go/sondedecode/internal/framer"
)

// MTS01Interpreter implements spec.md §4.6's MTS01 row: 130-byte
// frames at 1200 FSK, CRC-16, ASCII CSV-like payload.
type MTS01Interpreter struct{}

func NewMTS01Interpreter() *MTS01Interpreter { return &MTS01Interpreter{} }

func init() { Register(NewMTS01Interpreter()) }

func (m *MTS01Interpreter) Family() string { return "MTS01" }

func (m *MTS01Interpreter) FrameConfig() framer.Config {
	return framer.Config{
		BitFrameLen:   130 * 8,
		Endian:        framer.BigEndian,
		LenByteOffset: -1,
	}
}

func (m *MTS01Interpreter) Interpret(frame []byte, frameScore []float64) (Record, error) {
	if len(frame) < 4 {
		return Record{}, errs.New(errs.KindFecUncorrectable, "mts01: short frame")
	}

	stored := uint16(frame[len(frame)-2])<<8 | uint16(frame[len(frame)-1])
	computed := fec.CRC16MTS01(frame[:len(frame)-2])
	rec := Record{Family: "MTS01", Extra: map[string]float64{}}
	if stored != computed {
		return rec, errs.New(errs.KindCrcFail, "mts01: crc mismatch")
	}
	rec.CRCOk = true

	payload := trimASCII(frame[:len(frame)-2])
	fields := strings.Split(payload, ",")
	for i, f := range fields {
		f = strings.TrimSpace(f)
		switch i {
		case 0:
			rec.ID = "MTS01-" + f
		case 1:
			if v, err := strconv.Atoi(f); err == nil {
				rec.FrameNumber = v
			}
		case 2:
			if v, err := strconv.ParseFloat(f, 64); err == nil {
				rec.LatDeg = v
			}
		case 3:
			if v, err := strconv.ParseFloat(f, 64); err == nil {
				rec.LonDeg = v
			}
		case 4:
			if v, err := strconv.ParseFloat(f, 64); err == nil {
				rec.AltM = v
			}
		case 5:
			if v, err := strconv.ParseFloat(f, 64); err == nil {
				rec.TemperatureC = v
				rec.HasPTU = true
			}
		}
	}
	if len(fields) >= 5 {
		rec.HasGPS = true
	}

	if !plausibleAlt(rec.AltM) {
		rec.AltM = 0
		rec.HasGPS = false
	}
	return rec, nil
}

func trimASCII(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		if c >= 0x20 && c < 0x7F {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
