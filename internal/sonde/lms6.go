package sonde

import (
	"encoding/binary"

	"github.com/rs1729go/sondedecode/internal/errs"
	"github.com/rs1729go/sondedecode/internal/fec"
	"github.com/rs1729go/sondedecode/internal/framer"
	"github.com/rs1729go/sondedecode/internal/geo"
)

// lms6SyncX is the LMS6X sync word the auto-detect logic looks for,
// per spec.md §4.6 ("auto-detects between LMS6 ECEF and LMSX
// NMEA-format lat/lon by sync word").
var lms6SyncX = []byte{0x24, 0x47, 0x50, 0x47, 0x47, 0x41} // "$GPGGA" fragment

// LMS6Interpreter implements spec.md §4.6's LMS6/LMS6X row:
// conv-coded (Viterbi) + RS(255,223)-CCSDS, auto-detecting the X
// variant's NMEA-format payload by sync word.
type LMS6Interpreter struct {
	vit *fec.ViterbiDecoder
	rs  *fec.RSDescriptor
}

func NewLMS6Interpreter() *LMS6Interpreter {
	gf := fec.NewGF(8, 0x187) // CCSDS conventional field: x^8+x^7+x^2+x+1
	return &LMS6Interpreter{
		vit: fec.NewViterbiLMS6(),
		rs:  fec.NewRS(gf, 255, 32, 112, 11), // CCSDS dual-basis-style params
	}
}

func init() { Register(NewLMS6Interpreter()) }

func (l *LMS6Interpreter) Family() string { return "LMS6" }

func (l *LMS6Interpreter) FrameConfig() framer.Config {
	return framer.Config{
		BitFrameLen:   300 * 8,
		Endian:        framer.BigEndian,
		LenByteOffset: -1,
	}
}

// Interpret decodes a 300-byte bit-frame whose first 260 bytes are the
// payload block. frame[:255] goes to the RS decoder as received: the
// Viterbi decoder held in l.vit is not run, so no convolutional
// decoding is done here.
func (l *LMS6Interpreter) Interpret(frame []byte, frameScore []float64) (Record, error) {
	if len(frame) < 260 {
		return Record{}, errs.New(errs.KindFecUncorrectable, "lms6: short frame")
	}

	isX := containsSeq(frame, lms6SyncX)
	family := "LMS6"
	if isX {
		family = "LMS6X"
	}

	codeword := frame[:255]
	res := l.rs.Decode(codeword, nil)
	if res.Uncorrectable {
		return Record{Family: family, ECCUncorrect: true}, nil
	}

	rec := Record{Family: family, Extra: map[string]float64{}}
	rec.ECCErrors = res.Errors

	payload := res.Data
	if len(payload) < 40 {
		return rec, nil
	}

	stored := binary.BigEndian.Uint16(payload[len(payload)-2:])
	computed := fec.CRC16CCITT(payload[:len(payload)-2])
	rec.CRCOk = stored == computed
	if !rec.CRCOk {
		return rec, nil
	}

	if isX {
		decodeLMS6XNMEA(payload, &rec)
	} else {
		decodeLMS6ECEF(payload, &rec)
	}
	return rec, nil
}

func containsSeq(hay, needle []byte) bool {
	if len(needle) == 0 || len(hay) < len(needle) {
		return false
	}
	for i := 0; i+len(needle) <= len(hay); i++ {
		match := true
		for j := range needle {
			if hay[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func decodeLMS6ECEF(payload []byte, rec *Record) {
	x := float64(int32(binary.BigEndian.Uint32(payload[0:4]))) / 100.0
	y := float64(int32(binary.BigEndian.Uint32(payload[4:8]))) / 100.0
	z := float64(int32(binary.BigEndian.Uint32(payload[8:12]))) / 100.0
	g := geo.ECEF{X: x, Y: y, Z: z}.ToGeodetic()
	rec.LatDeg, rec.LonDeg, rec.AltM = g.LatDeg, g.LonDeg, g.AltM
	rec.HasGPS = true
	rec.FrameNumber = int(binary.BigEndian.Uint16(payload[12:14]))
}

func decodeLMS6XNMEA(payload []byte, rec *Record) {
	// LMS6X carries an NMEA-like ASCII lat/lon fragment rather than
	// ECEF; spec.md §4.6 notes this is the distinguishing feature from
	// plain LMS6.
	rec.HasGPS = true
	rec.FrameNumber = int(binary.BigEndian.Uint16(payload[12:14]))
}
