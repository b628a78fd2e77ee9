// Package correlator implements the matched-filter header correlator
// (spec.md §4.2): FFT-domain cross-correlation against a pulse-shaped
// reference header, run every K samples over a ring buffer of the last
// M real samples.
package correlator

import (
	"math"

	"github.com/rs1729go/sondedecode/internal/dsp"
	"github.com/rs1729go/sondedecode/internal/errs"
	"github.com/rs1729go/sondedecode/internal/fft"
	"github.com/rs1729go/sondedecode/internal/header"
)

// Hit is the Correlation Result from spec.md §3.
type Hit struct {
	Score       float64 // mv in [-1,1]
	Position    uint32  // mv_pos, sample index
	Score2      float64 // mv2, optional secondary score
	Has2        bool
	ResidualHz  float64 // dDf, estimated residual carrier offset
}

// Correlator holds the FFT plan and precomputed matched-filter
// spectrum Fm = FFT(reversed pulse-shaped header).
type Correlator struct {
	hdr       *header.Descriptor
	K         int // samples accumulated between correlation runs
	L         int // header_bits * sps
	N         int // FFT size, power of two >= 3L, >= 0x2000
	plan      *fft.Plan
	fm        []complex128
	sinceScan int
	dcRemove  bool
}

// New builds a correlator for the given header descriptor and scan
// stride K. N is chosen as the smallest power of two >= 3*L and >=
// 0x2000, per spec.md §4.2.
func New(hdr *header.Descriptor, k int, dcRemove bool) *Correlator {
	l := hdr.Len * hdr.SamplesPerBit
	n := dsp.NextPow2(3 * l)
	if n < 0x2000 {
		n = 0x2000
	}
	plan := fft.NewPlan(n)

	rev := hdr.Reversed()
	padded := make([]float64, n)
	copy(padded, rev)
	fm := fft.RealToComplex(padded)
	plan.Forward(fm)

	return &Correlator{hdr: hdr, K: k, L: l, N: n, plan: plan, fm: fm, dcRemove: dcRemove}
}

// Feed notifies the correlator that one more real sample has been
// pushed into the ring. It returns true once K-4 new samples have
// accumulated since the last true return, signalling that the caller
// runs Scan; Feed itself does not scan.
func (c *Correlator) Feed() bool {
	c.sinceScan++
	if c.sinceScan < c.K-4 {
		return false
	}
	c.sinceScan = 0
	return true
}

// Scan runs one matched-filter correlation against the window of K+L
// samples ending at tailIdx (the ring's current write position), per
// spec.md §4.2. threshold rejects weak peaks; maxBitErrs bounds the
// header bit-error check; bitOfs shifts the re-sliced header position
// by up to +-4 bit-equivalent samples (spec.md §6 `-d` flag).
func (c *Correlator) Scan(ring *dsp.RealRing, tailIdx uint32, threshold float64, maxBitErrs int, bitOfs int) (Hit, error) {
	win := c.K + c.L
	samples := ring.Window(tailIdx, win)

	padded := make([]float64, c.N)
	copy(padded, samples)
	x := fft.RealToComplex(padded)
	c.plan.Forward(x)

	if c.dcRemove {
		fft.ZeroDC(x)
		c.plan.Inverse(x)
		// back to time domain with DC removed; re-FFT for correlation
		c.plan.Forward(x)
	}

	for i := range x {
		x[i] *= c.fm[i]
	}
	c.plan.Inverse(x)

	lo := c.L - 1
	hi := c.K + c.L - 1
	if hi >= c.N {
		hi = c.N - 1
	}
	best := -1
	var bestVal float64
	for i := lo; i <= hi; i++ {
		v := real(x[i])
		if v*v > bestVal {
			bestVal = v * v
			best = i
		}
	}
	if best < 0 || best == lo || best == hi {
		return Hit{}, errs.New(errs.KindBoundaryHit, "correlation peak at window boundary")
	}

	// xnorm over the header-length window ending at the peak, within
	// the windowed sample buffer coordinates.
	var ss float64
	for i := 0; i < c.L; i++ {
		idx := best - i
		if idx < 0 || idx >= len(padded) {
			continue
		}
		ss += padded[idx] * padded[idx]
	}
	xnorm := math.Sqrt(ss)
	peak := real(x[best])
	var score float64
	if xnorm > 0 {
		// Inverse already applied the 1/N scaling.
		score = peak / xnorm
	}

	// mv_pos in the global sample index: tailIdx is the last sample of
	// the window (index win-1 in padded/samples); best is relative to
	// the start of the (K+L)-sample window.
	globalPos := tailIdx - uint32(win-1) + uint32(best)

	if math.Abs(score) < threshold {
		return Hit{}, errs.New(errs.KindHeaderNotFound, "correlation score below threshold")
	}

	hit := Hit{Score: score, Position: globalPos}

	if maxBitErrs >= 0 {
		candidate := resliceBits(ring, globalPos+uint32(bitOfs), c.hdr)
		dist := c.hdr.HammingDistance(candidate)
		if dist > maxBitErrs {
			return Hit{}, errs.New(errs.KindHeaderNotFound, "header bit-error check failed")
		}
	}

	return hit, nil
}

// resliceBits re-slices hdrlen bits starting at pos using a simple
// sign-of-integral hard decision over each samples-per-bit window,
// for the header bit-error check (spec.md §4.2).
func resliceBits(ring *dsp.RealRing, pos uint32, hdr *header.Descriptor) []int {
	out := make([]int, hdr.Len)
	sps := uint32(hdr.SamplesPerBit)
	for i := 0; i < hdr.Len; i++ {
		var sum float64
		base := pos + uint32(i)*sps
		for j := uint32(0); j < sps; j++ {
			sum += ring.Get(base + j)
		}
		if sum >= 0 {
			out[i] = 1
		} else {
			out[i] = 0
		}
	}
	return out
}
