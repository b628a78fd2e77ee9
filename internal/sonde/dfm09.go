package sonde

import (
	"math"

	"github.com/rs1729go/sondedecode/internal/calib"
	"github.com/rs1729go/sondedecode/internal/errs"
	"github.com/rs1729go/sondedecode/internal/fec"
	"github.com/rs1729go/sondedecode/internal/framer"
)

// DFM09Interpreter implements spec.md §4.6's DFM09 row: three
// sub-blocks of 7/13/13 Hamming(8,4) codewords per nibble, float24
// measurement coefficients, SN from a config-channel counter.
type DFM09Interpreter struct{}

func NewDFM09Interpreter() *DFM09Interpreter { return &DFM09Interpreter{} }

func init() { Register(NewDFM09Interpreter()) }

func (d *DFM09Interpreter) Family() string { return "DFM09" }

func (d *DFM09Interpreter) FrameConfig() framer.Config {
	return framer.Config{
		BitFrameLen: 280,
		Manchester:  true,
		Endian:      framer.BigEndian,
		LenByteOffset: -1,
	}
}

// hammingNibbles decodes a byte slice as a stream of Hamming(8,4)
// codewords, one nibble of data per input byte, per spec.md §4.5. It
// returns the recovered nibbles and the total correction count; more
// than maxCorrections (spec.md §4.7: "DFM <=4 Hamming corrections per
// subframe") marks the subframe invalid.
func hammingNibbles(block []byte, maxCorrections int) ([]byte, bool) {
	nibbles := make([]byte, len(block))
	corrections := 0
	for i, b := range block {
		var cw [8]byte
		for j := 0; j < 8; j++ {
			cw[j] = (b >> uint(j)) & 1
		}
		res := fec.DecodeHamming84(cw, [8]float64{}, false)
		if res.Uncorrectable {
			return nil, false
		}
		corrections += res.Corrected
		nibbles[i] = res.Data
	}
	return nibbles, corrections <= maxCorrections
}

// Interpret decodes a 35-byte (280-bit) DFM09 frame split into the
// three sub-blocks the wire format defines.
func (d *DFM09Interpreter) Interpret(frame []byte, frameScore []float64) (Record, error) {
	if len(frame) < 35 {
		return Record{}, errs.New(errs.KindFecUncorrectable, "dfm09: short frame")
	}

	rec := Record{Family: "DFM09", Extra: map[string]float64{}}

	block1 := frame[0:7]
	block2 := frame[7:20]
	block3 := frame[20:33]

	n1, ok1 := hammingNibbles(block1, 4)
	n2, ok2 := hammingNibbles(block2, 4)
	n3, ok3 := hammingNibbles(block3, 4)

	if !ok1 {
		rec.ECCUncorrect = true
		return rec, nil
	}
	decodeConfigBlock(n1, &rec)

	if ok2 {
		decodeMeasureBlock(n2, &rec, 0)
	}
	if ok3 {
		decodeMeasureBlock(n3, &rec, 1)
	}
	rec.CRCOk = true
	return rec, nil
}

func decodeConfigBlock(nibbles []byte, rec *Record) {
	if len(nibbles) < 7 {
		return
	}
	counter := 0
	for i := 0; i < 4; i++ {
		counter = counter<<4 | int(nibbles[i])
	}
	rec.FrameNumber = counter
	rec.ID = "D" + itoaPad(counter&0xFFFF, 5)
}

// decodeMeasureBlock extracts a float24 sensor coefficient from a
// 6-nibble (24-bit) measurement sub-block and maps it to temperature
// or humidity depending on slot, per spec.md §4.6.
func decodeMeasureBlock(nibbles []byte, rec *Record, slot int) {
	if len(nibbles) < 6 {
		return
	}
	var raw uint32
	for i := 0; i < 6; i++ {
		raw = raw<<4 | uint32(nibbles[i])
	}
	bits := raw << 8
	f := math.Float32frombits(bits)
	val := float64(f)

	switch slot {
	case 0:
		// NTC resistance ratio -> Steinhart-Hart, per spec.md §4.6.
		tempK := calib.SteinhartHart(val, 1.0e-3, 2.5e-4, 0, 1.5e-7)
		rec.TemperatureC = calib.KelvinToCelsius(tempK)
		rec.HasPTU = true
	case 1:
		rec.HumidityPct = val
	}
}

func itoaPad(v, width int) string {
	s := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		s[i] = byte('0' + v%10)
		v /= 10
	}
	return string(s)
}
