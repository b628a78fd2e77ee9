package correlator

import (
	"math"

	"github.com/rs1729go/sondedecode/internal/dsp"
)

// CarrierTracker converts the DC bias measured inside a header window
// into a residual-frequency estimate and a retroactive phase
// correction applied to the complex IQ buffer, per spec.md §4.2.
type CarrierTracker struct {
	sampleRate float64
	gain       float64 // FM demod gain, spec.md §4.1 FMGain
	lockThresh float64
	corrGain   float64
}

// NewCarrierTracker builds a tracker for the given sample rate.
func NewCarrierTracker(sampleRate float64) *CarrierTracker {
	return &CarrierTracker{sampleRate: sampleRate, gain: dsp.FMGain, lockThresh: 1000, corrGain: 0.6}
}

// Estimate computes dDf = Sr * dc / (2*gain) from meanDC, the DC mean
// the caller measured over the header window; internal/pipeline passes
// the mean of the FM-demodulated energy window, not of a pre-FM buffer.
func (c *CarrierTracker) Estimate(meanDC float64) float64 {
	return c.sampleRate * meanDC / (2 * c.gain)
}

// Correct multiplies the last `sps` complex IQ samples by
// exp(-i*2*pi*dDf*t) when |dDf| > 100, applying a proportional
// (0.6*dDf) correction, per spec.md §4.2. It returns the corrected
// residual actually applied (0 if below the 100 Hz action threshold).
func (c *CarrierTracker) Correct(ring *dsp.ComplexRing, tailIdx uint32, sps int, dDf float64) float64 {
	if math.Abs(dDf) <= 100 {
		return 0
	}
	applied := c.corrGain * dDf
	for k := 0; k < sps; k++ {
		idx := tailIdx - uint32(sps-1-k)
		s := ring.Get(idx)
		theta := -2 * math.Pi * applied * float64(k) / c.sampleRate
		rot := dsp.Complex{I: math.Cos(theta), Q: math.Sin(theta)}
		ring.Set(idx, s.Mul(rot))
	}
	return applied
}

// Locked reports whether the tracker should declare carrier lock,
// toggling the wider-acquisition vs. narrower-locked low-pass via
// hysteresis at |dDf| < 1000 Hz.
func (c *CarrierTracker) Locked(dDf float64) bool {
	return math.Abs(dDf) < c.lockThresh
}
