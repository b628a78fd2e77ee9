// Package slicer implements the symbol slicer (spec.md §4.3): given a
// known header position and samples-per-bit, integrate the signal over
// each symbol window to produce hard and soft bits, supporting direct
// FSK (symlen=1) and Manchester (symlen=2) encodings.
package slicer

import "github.com/rs1729go/sondedecode/internal/dsp"

// SoftBit is the { hb, sb } pair from spec.md §3.
type SoftBit struct {
	Hard int     // 0 or 1
	Soft float64 // signed integral; sign matches Hard
}

// Config controls one slicer run.
type Config struct {
	SamplesPerBit int
	SymLen        int     // 1 = direct FSK, 2 = Manchester
	Central       int     // l: restrict integration to [mid-l, mid+l]; 0 disables
	SpikeFilter   bool
}

// Slicer produces a stream of soft bits starting at a header position.
type Slicer struct {
	cfg Config
}

func New(cfg Config) *Slicer {
	return &Slicer{cfg: cfg}
}

// integrate sums samples[start:start+n), optionally restricted to the
// central 2*l+1 portion, optionally de-spiking outliers first.
func integrate(samples []float64, central int) float64 {
	n := len(samples)
	lo, hi := 0, n
	if central > 0 {
		mid := n / 2
		lo = mid - central
		hi = mid + central + 1
		if lo < 0 {
			lo = 0
		}
		if hi > n {
			hi = n
		}
	}
	var sum float64
	for i := lo; i < hi; i++ {
		sum += samples[i]
	}
	return sum
}

// despike replaces a sample departing from the local average by more
// than 0.5 with a 0.27-weighted blend of its neighbors, per spec.md
// §4.3.
func despike(samples []float64) []float64 {
	out := append([]float64(nil), samples...)
	n := len(out)
	for i := 1; i < n-1; i++ {
		avg := (samples[i-1] + samples[i+1]) / 2
		if samples[i]-avg > 0.5 || avg-samples[i] > 0.5 {
			out[i] = 0.27 * (samples[i-1] + samples[i+1])
		}
	}
	return out
}

// Symbol produces one soft bit from a window of raw samples covering
// exactly symlen*sps samples (for Manchester, two adjacent sps
// sub-windows of opposite polarity).
func (s *Slicer) Symbol(samples []float64) SoftBit {
	sps := s.cfg.SamplesPerBit
	if s.cfg.SpikeFilter {
		samples = despike(samples)
	}

	var score float64
	switch s.cfg.SymLen {
	case 1:
		score = integrate(samples, s.cfg.Central)
	case 2:
		first := samples[:sps]
		second := samples[sps : 2*sps]
		score = integrate(first, s.cfg.Central) - integrate(second, s.cfg.Central)
	default:
		score = integrate(samples, s.cfg.Central)
	}

	hard := 0
	if score >= 0 {
		hard = 1
	}
	return SoftBit{Hard: hard, Soft: score}
}

// Soft2 produces an additional decision on only the first sub-symbol
// of a Manchester pair, used by rs41/m10 "soft2" decoding for an
// independent reliability estimate on the leading half-symbol.
func (s *Slicer) Soft2(samples []float64) SoftBit {
	sps := s.cfg.SamplesPerBit
	first := samples[:sps]
	score := integrate(first, s.cfg.Central)
	hard := 0
	if score >= 0 {
		hard = 1
	}
	return SoftBit{Hard: hard, Soft: score}
}

// SliceFromRing slices a full symbol stream of `nSymbols` starting at
// the ring position hdrEnd (the sample index immediately following
// the header), reading symlen*sps samples per symbol.
func SliceFromRing(ring *dsp.RealRing, hdrEnd uint32, cfg Config, nSymbols int) []SoftBit {
	s := New(cfg)
	symWidth := cfg.SymLen * cfg.SamplesPerBit
	out := make([]SoftBit, nSymbols)
	pos := hdrEnd
	for i := 0; i < nSymbols; i++ {
		win := make([]float64, symWidth)
		for j := 0; j < symWidth; j++ {
			win[j] = ring.Get(pos + uint32(j))
		}
		out[i] = s.Symbol(win)
		pos += uint32(symWidth)
	}
	return out
}
