package sonde

import (
	"encoding/binary"

	"github.com/rs1729go/sondedecode/internal/errs"
	"github.com/rs1729go/sondedecode/internal/fec"
	"github.com/rs1729go/sondedecode/internal/framer"
	"github.com/rs1729go/sondedecode/internal/geo"
)

// IMET54Interpreter implements spec.md §4.6's iMET-54 row: 220-byte
// frames at 4800 GFSK, Hamming(8,4) over an 8x8 bit interleaver, fixed
// GPS+SN packet layout.
type IMET54Interpreter struct{}

func NewIMET54Interpreter() *IMET54Interpreter { return &IMET54Interpreter{} }

func init() { Register(NewIMET54Interpreter()) }

func (i *IMET54Interpreter) Family() string { return "iMET-54" }

func (i *IMET54Interpreter) FrameConfig() framer.Config {
	return framer.Config{
		BitFrameLen:   220 * 8,
		InterleaveL:   8,
		Endian:        framer.BigEndian,
		LenByteOffset: -1,
	}
}

func (i *IMET54Interpreter) Interpret(frame []byte, frameScore []float64) (Record, error) {
	if len(frame) < 110 {
		return Record{}, errs.New(errs.KindFecUncorrectable, "imet54: short frame")
	}

	rec := Record{Family: "iMET-54", Extra: map[string]float64{}}
	corrected := 0
	out := make([]byte, len(frame))
	for i, b := range frame {
		var cw [8]byte
		for j := 0; j < 8; j++ {
			cw[j] = (b >> uint(j)) & 1
		}
		res := fec.DecodeHamming84(cw, [8]float64{}, false)
		if res.Uncorrectable {
			return Record{Family: "iMET-54", ECCUncorrect: true}, nil
		}
		corrected += res.Corrected
		out[i] = res.Data
	}
	if corrected > 4 {
		rec.ECCUncorrect = true
		return rec, nil
	}
	rec.ECCErrors = corrected
	rec.CRCOk = true

	packed := packNibblePairs(out)
	if len(packed) >= 20 {
		x := float64(int32(binary.BigEndian.Uint32(packed[0:4]))) / 100.0
		y := float64(int32(binary.BigEndian.Uint32(packed[4:8]))) / 100.0
		z := float64(int32(binary.BigEndian.Uint32(packed[8:12]))) / 100.0
		g := geo.ECEF{X: x, Y: y, Z: z}.ToGeodetic()
		rec.LatDeg, rec.LonDeg, rec.AltM = g.LatDeg, g.LonDeg, g.AltM
		rec.HasGPS = true
		rec.NumSV = int(packed[12])
		var idBytes [6]byte
		copy(idBytes[:], packed[13:19])
		rec.ID = "IMET-" + nibbleSerial(idBytes[:])
	}

	if !plausibleAlt(rec.AltM) {
		rec.AltM = 0
		rec.HasGPS = false
	}
	return rec, nil
}

// packNibblePairs recombines the recovered 4-bit Hamming data values
// back into bytes, two nibbles per output byte.
func packNibblePairs(nibbles []byte) []byte {
	n := len(nibbles) / 2
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = nibbles[2*i]<<4 | nibbles[2*i+1]
	}
	return out
}
