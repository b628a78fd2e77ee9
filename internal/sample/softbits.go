package sample

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"

	"github.com/rs1729go/sondedecode/internal/errs"
)

// SoftBitSource reads the float32-little-endian external soft-bit
// stream (spec.md §6): one value per symbol's signed score, optionally
// sign-inverted on ingestion. It implements the same Source contract
// at a nominal "sample rate" of one sample per symbol, which lets the
// framer/slicer stage bypass the DSP front end entirely when
// `--softin` is given.
type SoftBitSource struct {
	r       *bufio.Reader
	inverse bool
	baud    int
}

// NewSoftBitSource builds a source over r; baud is reported as the
// nominal sample rate since each value already represents one symbol.
func NewSoftBitSource(r io.Reader, baud int, inverse bool) *SoftBitSource {
	return &SoftBitSource{r: bufio.NewReaderSize(r, 1<<16), inverse: inverse, baud: baud}
}

func (s *SoftBitSource) SampleRate() int { return s.baud }
func (s *SoftBitSource) IsComplex() bool { return false }

func (s *SoftBitSource) NextSample() (Value, error) {
	var raw [4]byte
	if _, err := io.ReadFull(s.r, raw[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Value{}, errs.EOF
		}
		return Value{}, errs.Wrap(errs.KindIoEnd, "softbit read error", err)
	}
	bits := binary.LittleEndian.Uint32(raw[:])
	v := float64(math.Float32frombits(bits))
	if s.inverse {
		v = -v
	}
	return Value{Real: v}, nil
}
