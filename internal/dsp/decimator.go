package dsp

// Decimator pushes mixer-rotated complex samples through a Blackman FIR
// low-pass and emits one output for every decM input samples, per
// spec.md §4.1.
type Decimator struct {
	fir  *FIRComplex
	decM int
	cnt  int
}

// NewDecimator builds a decimator with cutoff (ifSr+20kHz)/(4*srBase)
// and transition bandwidth (ifSr-20kHz), as specified.
func NewDecimator(srBase, ifSr float64, decM int) *Decimator {
	cutoff := (ifSr + 20000) / 4
	transBw := ifSr - 20000
	if transBw <= 0 {
		transBw = ifSr / 4
	}
	coeffs := BlackmanWindowedSinc(srBase, cutoff, transBw)
	return &Decimator{fir: NewFIRComplex(coeffs), decM: decM}
}

// Push feeds one rotated input sample. ok is true when decM samples
// have accumulated and out holds a new decimated output.
func (d *Decimator) Push(x Complex) (out Complex, ok bool) {
	filtered := d.fir.Push(x)
	d.cnt++
	if d.cnt >= d.decM {
		d.cnt = 0
		return filtered, true
	}
	return Complex{}, false
}

// DCEstimator maintains a running mean of IQ samples over an
// exponentially-growing window (doubling each time it fills, up to the
// sample rate), per spec.md §4.1.
type DCEstimator struct {
	mean    Complex
	count   int64
	window  int64
	maxWin  int64
}

// NewDCEstimator starts with a small window that grows toward
// maxWindow (normally the sample rate).
func NewDCEstimator(maxWindow int64) *DCEstimator {
	return &DCEstimator{window: 64, maxWin: maxWindow}
}

// Update folds in one sample and returns the current DC estimate.
func (e *DCEstimator) Update(x Complex) Complex {
	e.count++
	alpha := 1.0 / float64(e.window)
	e.mean = e.mean.Scale(1 - alpha).Add(x.Scale(alpha))
	if e.count >= e.window && e.window < e.maxWin {
		e.window *= 2
		if e.window > e.maxWin {
			e.window = e.maxWin
		}
		e.count = 0
	}
	return e.mean
}

// Remove subtracts the current DC estimate from a sample.
func (e *DCEstimator) Remove(x Complex) Complex {
	return x.Sub(e.mean)
}
