package sample

import (
	"bufio"
	"encoding/hex"
	"io"
	"strings"

	"github.com/rs1729go/sondedecode/internal/errs"
)

// RawHexReader reads pre-decoded hex frame strings, one per line
// (spec.md §6: `--rawhex` bypasses DSP+Framer, running the interpreter
// only). Lines beginning with an optional `xorhex` whitening mask are
// handled by the caller; this reader only turns hex text into bytes.
type RawHexReader struct {
	sc *bufio.Scanner
}

func NewRawHexReader(r io.Reader) *RawHexReader {
	return &RawHexReader{sc: bufio.NewScanner(r)}
}

// Next returns the next decoded frame, or errs.EOF when input is
// exhausted.
func (h *RawHexReader) Next() ([]byte, error) {
	for h.sc.Scan() {
		line := strings.TrimSpace(h.sc.Text())
		if line == "" {
			continue
		}
		b, err := hex.DecodeString(line)
		if err != nil {
			return nil, errs.Wrap(errs.KindConfig, "invalid hex frame", err)
		}
		return b, nil
	}
	if err := h.sc.Err(); err != nil {
		return nil, errs.Wrap(errs.KindIoEnd, "rawhex read error", err)
	}
	return nil, errs.EOF
}

// XorHex applies a hex-encoded XOR mask, repeating it across the
// frame, as used by `--xorhex` to de-whiten a pre-decoded frame before
// interpretation.
func XorHex(frame []byte, maskHex string) ([]byte, error) {
	mask, err := hex.DecodeString(maskHex)
	if err != nil || len(mask) == 0 {
		return nil, errs.New(errs.KindConfig, "invalid xorhex mask")
	}
	out := make([]byte, len(frame))
	for i, b := range frame {
		out[i] = b ^ mask[i%len(mask)]
	}
	return out, nil
}
