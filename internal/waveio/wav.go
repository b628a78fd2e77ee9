// Package waveio parses the minimal WAV container fields the DSP front
// end needs (spec.md §6): a RIFF or RF64 outer container, a `fmt `
// chunk giving channel count, sample rate, and bits per sample, and a
// `data` chunk. Full WAV metadata handling is explicitly out of scope
// (spec.md §1); this package reads only what downstream sample
// conversion requires.
package waveio

import (
	"encoding/binary"
	"errors"
	"io"
)

// Format describes the fields the DSP front end consumes.
type Format struct {
	Channels      int
	SampleRate    int
	BitsPerSample int
	DataOffset    int64 // byte offset of the data chunk's payload
	DataSize      int64 // bytes of PCM payload (0 if unknown/streamed)
}

var errBadHeader = errors.New("waveio: not a RIFF/RF64 WAV stream")

// ReadHeader parses the RIFF/RF64 container and fmt chunk, leaving r
// positioned at the start of the `data` chunk payload. A sample rate
// of 900001 is normalized to 900000, working around a known upstream
// tool quirk (spec.md §6).
func ReadHeader(r io.Reader) (Format, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return Format{}, errBadHeader
	}
	tag := string(riff[0:4])
	if tag != "RIFF" && tag != "RF64" {
		return Format{}, errBadHeader
	}
	if string(riff[8:12]) != "WAVE" {
		return Format{}, errBadHeader
	}

	var f Format
	var sawFmt bool
	var offset int64 = 12

	for {
		var chunkID [4]byte
		if _, err := io.ReadFull(r, chunkID[:]); err != nil {
			return Format{}, errors.New("waveio: missing data chunk")
		}
		var size uint32
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return Format{}, err
		}
		offset += 8

		id := string(chunkID[:])
		switch id {
		case "fmt ":
			var raw [16]byte
			n := int(size)
			if n > len(raw) {
				n = len(raw)
			}
			if _, err := io.ReadFull(r, raw[:n]); err != nil {
				return Format{}, err
			}
			if n < len(raw) {
				// shouldn't happen for canonical PCM fmt chunks
			} else if int(size) > len(raw) {
				if _, err := io.CopyN(io.Discard, r, int64(size)-int64(len(raw))); err != nil {
					return Format{}, err
				}
			}
			f.Channels = int(binary.LittleEndian.Uint16(raw[2:4]))
			f.SampleRate = int(binary.LittleEndian.Uint32(raw[4:8]))
			f.BitsPerSample = int(binary.LittleEndian.Uint16(raw[14:16]))
			sawFmt = true
			offset += int64(size)
			if size%2 == 1 {
				if _, err := io.CopyN(io.Discard, r, 1); err != nil {
					return Format{}, err
				}
				offset++
			}
		case "data":
			f.DataOffset = offset
			f.DataSize = int64(size)
			if f.SampleRate == 900001 {
				f.SampleRate = 900000
			}
			if !sawFmt {
				return Format{}, errors.New("waveio: data chunk before fmt chunk")
			}
			return f, nil
		default:
			if _, err := io.CopyN(io.Discard, r, int64(size)); err != nil {
				return Format{}, err
			}
			offset += int64(size)
			if size%2 == 1 {
				if _, err := io.CopyN(io.Discard, r, 1); err != nil {
					return Format{}, err
				}
				offset++
			}
		}
	}
}
