package dsp

// EnergyWindow maintains a sliding sum/sum-of-squares over Nvar
// samples, indexed under sample_in mod M, per spec.md §4.1: "A sliding
// window of length Nvar (= header bit-length in samples) maintains
// xsum (mean) and qsum (mean-square)."
type EnergyWindow struct {
	nvar int
	ring *RealRing // holds the raw samples for subtraction on slide-out
	xsum float64
	qsum float64
	n    int
}

// NewEnergyWindow builds a window of length nvar backed by a ring of
// the given (power-of-two) capacity.
func NewEnergyWindow(nvar int, ringCapacity int) *EnergyWindow {
	return &EnergyWindow{nvar: nvar, ring: NewRealRing(ringCapacity)}
}

// Push folds in one new sample at absolute ring index idx, removing
// the sample that is sliding out of the window.
func (e *EnergyWindow) Push(idx uint32, x float64) {
	if e.n == e.nvar {
		old := e.ring.Get(idx - uint32(e.nvar))
		e.xsum -= old
		e.qsum -= old * old
	} else {
		e.n++
	}
	e.ring.Set(idx, x)
	e.xsum += x
	e.qsum += x * x
}

// Mean returns the running mean over the current window.
func (e *EnergyWindow) Mean() float64 {
	if e.n == 0 {
		return 0
	}
	return e.xsum / float64(e.n)
}

// MeanSquare returns the running mean-square over the current window.
func (e *EnergyWindow) MeanSquare() float64 {
	if e.n == 0 {
		return 0
	}
	return e.qsum / float64(e.n)
}

// Variance returns mean-square minus mean^2, the unbiased-enough
// running estimate the correlator's normalization can consume.
func (e *EnergyWindow) Variance() float64 {
	m := e.Mean()
	return e.MeanSquare() - m*m
}
