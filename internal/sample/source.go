// Package sample implements the Sample Source contract (spec.md §4.1):
// next_sample() -> Option<Sample>, failing with Eof at end of input.
// Concrete sources cover canonical WAV, headerless PCM, a float32
// soft-bit stream, and pre-decoded rawhex frames.
package sample

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"

	"github.com/rs1729go/sondedecode/internal/dsp"
	"github.com/rs1729go/sondedecode/internal/errs"
	"github.com/rs1729go/sondedecode/internal/waveio"
)

// Format enumerates the supported PCM sample encodings (spec.md §6).
type Format int

const (
	FormatU8 Format = iota
	FormatI16LE
	FormatF32LE
)

// Value is one scalar real (FM-discriminator) sample, or an I/Q pair
// when the source is complex.
type Value struct {
	Real float64
	IQ   dsp.Complex
}

// Source yields scalar real samples or complex I/Q samples at a known
// sample rate. NextSample returns errs.EOF (Kind==KindIoEnd) at the
// end of the stream.
type Source interface {
	SampleRate() int
	IsComplex() bool
	NextSample() (Value, error)
}

// pcmDecoder converts raw bytes of the configured Format into a float64
// in [-1,1], per spec.md §6's sample-layout table.
type pcmDecoder struct {
	format   Format
	channels int
	bytesPer int
}

func newPCMDecoder(format Format, channels int) pcmDecoder {
	bp := 1
	switch format {
	case FormatU8:
		bp = 1
	case FormatI16LE:
		bp = 2
	case FormatF32LE:
		bp = 4
	}
	return pcmDecoder{format: format, channels: channels, bytesPer: bp}
}

func (d pcmDecoder) frameSize() int { return d.bytesPer * d.channels }

func (d pcmDecoder) decodeChannel(frame []byte, ch int) float64 {
	off := ch * d.bytesPer
	switch d.format {
	case FormatU8:
		return (float64(frame[off]) - 128) / 128
	case FormatI16LE:
		v := int16(binary.LittleEndian.Uint16(frame[off : off+2]))
		return float64(v) / 32768
	case FormatF32LE:
		bits := binary.LittleEndian.Uint32(frame[off : off+4])
		return float64(math.Float32frombits(bits))
	default:
		return 0
	}
}

// PCMSource reads PCM frames from an io.Reader, selecting one channel
// (real/FM mode) or channels 0 and 1 as I and Q (complex mode).
type PCMSource struct {
	r          *bufio.Reader
	dec        pcmDecoder
	sampleRate int
	complex    bool
	channel    int // which channel to read in real mode
	frameBuf   []byte
}

// NewPCMSource builds a headerless-PCM source. In complex mode,
// channel 0 is I and channel 1 is Q (spec.md §6); channels must be >=2.
func NewPCMSource(r io.Reader, sampleRate int, format Format, channels, channel int, complexMode bool) *PCMSource {
	dec := newPCMDecoder(format, channels)
	return &PCMSource{
		r:          bufio.NewReaderSize(r, 1<<16),
		dec:        dec,
		sampleRate: sampleRate,
		complex:    complexMode,
		channel:    channel,
		frameBuf:   make([]byte, dec.frameSize()),
	}
}

func (s *PCMSource) SampleRate() int { return s.sampleRate }
func (s *PCMSource) IsComplex() bool { return s.complex }

func (s *PCMSource) NextSample() (Value, error) {
	if _, err := io.ReadFull(s.r, s.frameBuf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Value{}, errs.EOF
		}
		return Value{}, errs.Wrap(errs.KindIoEnd, "pcm read error", err)
	}
	if s.complex {
		i := s.dec.decodeChannel(s.frameBuf, 0)
		q := s.dec.decodeChannel(s.frameBuf, 1)
		return Value{IQ: dsp.Complex{I: i, Q: q}}, nil
	}
	return Value{Real: s.dec.decodeChannel(s.frameBuf, s.channel)}, nil
}

// NewWAVSource parses a WAV header from r and returns a PCMSource
// reading the remaining data chunk payload.
func NewWAVSource(r io.Reader, channel int, complexMode bool) (*PCMSource, error) {
	hdr, err := waveio.ReadHeader(r)
	if err != nil {
		return nil, errs.Wrap(errs.KindConfig, "invalid WAV header", err)
	}
	var format Format
	switch hdr.BitsPerSample {
	case 8:
		format = FormatU8
	case 16:
		format = FormatI16LE
	case 32:
		format = FormatF32LE
	default:
		return nil, errs.New(errs.KindConfig, "unsupported WAV bit depth")
	}
	if complexMode && hdr.Channels < 2 {
		return nil, errs.New(errs.KindConfig, "I/Q mode requires a 2-channel WAV")
	}
	return NewPCMSource(r, hdr.SampleRate, format, hdr.Channels, channel, complexMode), nil
}
