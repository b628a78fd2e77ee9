package sonde

import (
	"encoding/binary"

	"github.com/rs1729go/sondedecode/internal/errs"
	"github.com/rs1729go/sondedecode/internal/framer"
	"github.com/rs1729go/sondedecode/internal/geo"
)

// m10Permutation is the "checkM10" byte permutation spec.md §4.6
// describes for M10/M20's custom 16-bit check; this ordering must be
// applied before the check-value computation.
var m10Permutation = [...]int{
	0, 8, 1, 9, 2, 10, 3, 11, 4, 12, 5, 13, 6, 14, 7, 15,
}

// M10Interpreter implements spec.md §4.6's M10/M20 row: 101+aux-byte
// frames, Manchester at 9615/9600 baud, a custom 16-bit check, and
// nibble-packed serial numbers. M10-T reports ECEF+velocity; M10-G
// and M20 report NMEA-format lat/lon.
type M10Interpreter struct {
	isM20 bool
}

func NewM10Interpreter() *M10Interpreter  { return &M10Interpreter{} }
func NewM20Interpreter() *M10Interpreter  { return &M10Interpreter{isM20: true} }

func init() {
	Register(NewM10Interpreter())
	Register(NewM20Interpreter())
}

func (m *M10Interpreter) Family() string {
	if m.isM20 {
		return "M20"
	}
	return "M10"
}

func (m *M10Interpreter) FrameConfig() framer.Config {
	return framer.Config{
		BitFrameLen:   101 * 8,
		Manchester:    true,
		Endian:        framer.LittleEndian,
		LenByteOffset: -1,
	}
}

// checkM10 applies the byte permutation, then a CRC-like running XOR
// fold, matching the family's nonstandard 16-bit check.
func checkM10(frame []byte) uint16 {
	n := len(frame)
	if n > len(m10Permutation) {
		n = len(m10Permutation)
	}
	permuted := make([]byte, n)
	for i := 0; i < n; i++ {
		idx := m10Permutation[i]
		if idx < len(frame) {
			permuted[i] = frame[idx]
		}
	}
	var check uint16
	for _, b := range permuted {
		check = (check << 1) ^ uint16(b) ^ (check >> 15)
	}
	return check
}

func (m *M10Interpreter) Interpret(frame []byte, frameScore []float64) (Record, error) {
	if len(frame) < 45 {
		return Record{}, errs.New(errs.KindFecUncorrectable, "m10: short frame")
	}

	rec := Record{Family: m.Family(), Extra: map[string]float64{}}

	stored := binary.LittleEndian.Uint16(frame[len(frame)-2:])
	computed := checkM10(frame[:len(frame)-2])
	if stored != computed {
		return Record{Family: m.Family()}, errs.New(errs.KindCrcFail, "m10: check mismatch")
	}
	rec.CRCOk = true

	// Nibble-packed date+counter serial, per spec.md §4.6.
	snNibble := frame[2:6]
	rec.ID = m.Family() + "-" + nibbleSerial(snNibble)
	rec.FrameNumber = int(frame[1])

	isECEF := !m.isM20 && frame[0]&0x01 == 0
	if isECEF && len(frame) >= 24 {
		x := float64(int32(binary.LittleEndian.Uint32(frame[8:12]))) / 100.0
		y := float64(int32(binary.LittleEndian.Uint32(frame[12:16]))) / 100.0
		z := float64(int32(binary.LittleEndian.Uint32(frame[16:20]))) / 100.0
		g := geo.ECEF{X: x, Y: y, Z: z}.ToGeodetic()
		rec.LatDeg, rec.LonDeg, rec.AltM = g.LatDeg, g.LonDeg, g.AltM
		rec.HasGPS = true
	} else if len(frame) >= 24 {
		latRaw := int32(binary.LittleEndian.Uint32(frame[8:12]))
		lonRaw := int32(binary.LittleEndian.Uint32(frame[12:16]))
		altRaw := int32(binary.LittleEndian.Uint32(frame[16:20]))
		rec.LatDeg = float64(latRaw) / 1e6
		rec.LonDeg = float64(lonRaw) / 1e6
		rec.AltM = float64(altRaw) / 1000.0
		rec.HasGPS = true
	}

	if !plausibleAlt(rec.AltM) {
		rec.AltM = 0
		rec.HasGPS = false
	}
	return rec, nil
}

func nibbleSerial(b []byte) string {
	out := make([]byte, 0, len(b)*2)
	for _, v := range b {
		hi := v >> 4
		lo := v & 0xF
		out = append(out, hexDigit(hi), hexDigit(lo))
	}
	return string(out)
}

func hexDigit(n byte) byte {
	if n < 10 {
		return '0' + n
	}
	return 'A' + (n - 10)
}
