package dsp

import "math"

// BlackmanWindowedSinc designs a low-pass FIR of cutoff `fc` (Hz,
// normalized against sampleRate) with a transition bandwidth of
// `transBw` Hz, per spec.md §4.1: taps is the smallest odd integer
// >= 4/transition_bw_normalized, windowed with a Blackman window.
func BlackmanWindowedSinc(sampleRate, fc, transBw float64) []float64 {
	transNorm := transBw / sampleRate
	taps := int(math.Ceil(4.0 / transNorm))
	if taps%2 == 0 {
		taps++
	}
	if taps < 3 {
		taps = 3
	}

	fcNorm := fc / sampleRate
	h := make([]float64, taps)
	m := taps - 1
	for n := 0; n < taps; n++ {
		x := float64(n) - float64(m)/2
		var sinc float64
		if x == 0 {
			sinc = 2 * fcNorm
		} else {
			sinc = math.Sin(2*math.Pi*fcNorm*x) / (math.Pi * x)
		}
		w := 0.42 - 0.5*math.Cos(2*math.Pi*float64(n)/float64(m)) + 0.08*math.Cos(4*math.Pi*float64(n)/float64(m))
		h[n] = sinc * w
	}

	var sum float64
	for _, v := range h {
		sum += v
	}
	if sum != 0 {
		for i := range h {
			h[i] /= sum
		}
	}
	return h
}

// FIRComplex is a real-coefficient FIR filter applied to a complex
// input stream via a fixed-size history ring, used for decimation and
// IF/FM low-pass stages.
type FIRComplex struct {
	coeffs []float64
	hist   []Complex
	pos    int
}

// NewFIRComplex builds a filter state around the given coefficients.
func NewFIRComplex(coeffs []float64) *FIRComplex {
	return &FIRComplex{coeffs: coeffs, hist: make([]Complex, len(coeffs))}
}

// Push feeds one input sample and returns the filtered output.
func (f *FIRComplex) Push(x Complex) Complex {
	f.hist[f.pos] = x
	var acc Complex
	n := len(f.coeffs)
	idx := f.pos
	for k := 0; k < n; k++ {
		acc = acc.Add(f.hist[idx].Scale(f.coeffs[k]))
		idx--
		if idx < 0 {
			idx = n - 1
		}
	}
	f.pos++
	if f.pos == n {
		f.pos = 0
	}
	return acc
}

// SetCoeffs swaps the filter's coefficients in place (used to toggle
// between the wider acquisition low-pass and the narrower locked
// low-pass without reallocating history); the tap count must match.
func (f *FIRComplex) SetCoeffs(coeffs []float64) {
	if len(coeffs) != len(f.coeffs) {
		panic("dsp: SetCoeffs tap-count mismatch")
	}
	f.coeffs = coeffs
}

// FIRReal is the real-valued analogue of FIRComplex, used for the FM
// audio low-pass.
type FIRReal struct {
	coeffs []float64
	hist   []float64
	pos    int
}

func NewFIRReal(coeffs []float64) *FIRReal {
	return &FIRReal{coeffs: coeffs, hist: make([]float64, len(coeffs))}
}

func (f *FIRReal) Push(x float64) float64 {
	f.hist[f.pos] = x
	var acc float64
	n := len(f.coeffs)
	idx := f.pos
	for k := 0; k < n; k++ {
		acc += f.hist[idx] * f.coeffs[k]
		idx--
		if idx < 0 {
			idx = n - 1
		}
	}
	f.pos++
	if f.pos == n {
		f.pos = 0
	}
	return acc
}
