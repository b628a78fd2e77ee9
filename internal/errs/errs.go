// Package errs defines the tagged error kinds that cross the core
// pipeline's stage boundaries, per the error propagation design: every
// decoder stage returns either a value or one of these kinds, never a
// bare panic or an ad hoc string.
package errs

import "errors"

// Kind classifies a pipeline error so callers can decide whether to
// abort the run, skip a frame, or merely withhold a field.
type Kind int

const (
	// KindIoEnd means the sample source is exhausted. Terminates the
	// pipeline cleanly with exit code 0.
	KindIoEnd Kind = iota
	// KindConfig means an argument or flag combination is invalid.
	// Fatal at startup, exit code -1.
	KindConfig
	// KindAlloc means a buffer could not be sized/allocated from the
	// given sample rate / baud combination. Fatal at startup.
	KindAlloc
	// KindHeaderNotFound is transient: no correlation peak cleared
	// threshold in the current window. The pipeline continues.
	KindHeaderNotFound
	// KindBoundaryHit means the correlation peak fell on the window
	// edge and is treated as no-hit.
	KindBoundaryHit
	// KindCrcFail means a packet-level CRC mismatch. The packet's
	// fields are withheld; other packets in the same frame still flow.
	KindCrcFail
	// KindFecUncorrectable means RS/Hamming/BCH/Viterbi failed to
	// correct the block. Downstream fields are withheld.
	KindFecUncorrectable
	// KindPlausibilityFail means a decoded field landed outside its
	// physically valid range and was suppressed.
	KindPlausibilityFail
)

func (k Kind) String() string {
	switch k {
	case KindIoEnd:
		return "io_end"
	case KindConfig:
		return "config"
	case KindAlloc:
		return "alloc"
	case KindHeaderNotFound:
		return "header_not_found"
	case KindBoundaryHit:
		return "boundary_hit"
	case KindCrcFail:
		return "crc_fail"
	case KindFecUncorrectable:
		return "fec_uncorrectable"
	case KindPlausibilityFail:
		return "plausibility_fail"
	default:
		return "unknown"
	}
}

// Error wraps a Kind with a human-readable message and an optional
// underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Msg + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error of the given kind.
func New(k Kind, msg string) *Error {
	return &Error{Kind: k, Msg: msg}
}

// Wrap builds an *Error of the given kind around an existing error.
func Wrap(k Kind, msg string, err error) *Error {
	return &Error{Kind: k, Msg: msg, Err: err}
}

// Is reports whether err is an *Error of kind k.
func Is(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}

// EOF is the sentinel returned by sample sources at end of stream.
var EOF = New(KindIoEnd, "end of sample stream")
