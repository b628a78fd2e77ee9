package dsp

// State is the DSP State object from spec.md §3: it owns the real and
// complex ring buffers, the rolling energy
// accumulators, the sample index bookkeeping, and the currently
// selected low-pass coefficients plus the `locked` flag the carrier
// tracker toggles.
type State struct {
	M int // ring buffer size (power of two)

	Real *RealRing
	IQ   *ComplexRing

	SampleIn  uint32
	SampleOut uint32
	Delay     uint32 // L/16, per spec.md §3 invariant: sample_out = sample_in - delay

	Energy *EnergyWindow

	// Acquisition vs. locked low-pass coefficients for the IF filter;
	// acquisitionLP has cutoff*1.5, per spec.md §4.1.
	lpAcquisition []float64
	lpLocked      []float64
	Locked        bool

	ifFilter *FIRComplex
	fmFilter *FIRReal
	mixer    *Mixer
	dc       *DCEstimator
	demod    *FMDemod
}

// NewState allocates all fixed-size buffers once from the sample rate
// and header bit-length, per spec.md §5 ("Buffer sizing is
// deterministic... and do not grow thereafter").
func NewState(sampleRate int, headerBits int, sps int, ifCutoff, transBw float64, mixFreq float64, useLUT, dcTrack bool) *State {
	l := headerBits * sps
	m := NextPow2(3 * l)
	if m < 1<<13 {
		m = 1 << 13
	}

	lpAcq := BlackmanWindowedSinc(float64(sampleRate), ifCutoff*1.5, transBw)
	lpLock := BlackmanWindowedSinc(float64(sampleRate), ifCutoff, transBw)
	// Pad the shorter filter so both share one FIRComplex's tap count,
	// letting SetCoeffs swap between them without reallocating history.
	lpAcq, lpLock = padToSameLen(lpAcq, lpLock)

	s := &State{
		M:             m,
		Real:          NewRealRing(m),
		IQ:            NewComplexRing(m),
		Delay:         uint32(l / 16),
		Energy:        NewEnergyWindow(l, m),
		lpAcquisition: lpAcq,
		lpLocked:      lpLock,
		ifFilter:      NewFIRComplex(lpAcq),
		fmFilter:      nil,
		mixer:         NewMixer(float64(sampleRate), mixFreq, useLUT),
		demod:         NewFMDemod(),
	}
	if dcTrack {
		s.dc = NewDCEstimator(int64(sampleRate))
	}
	return s
}

func padToSameLen(a, b []float64) ([]float64, []float64) {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	return padCenter(a, n), padCenter(b, n)
}

func padCenter(v []float64, n int) []float64 {
	if len(v) == n {
		return v
	}
	out := make([]float64, n)
	off := (n - len(v)) / 2
	copy(out[off:], v)
	return out
}

// SetLocked toggles between the acquisition and locked IF low-pass
// coefficient sets, per spec.md §4.2's carrier-tracker hysteresis.
func (s *State) SetLocked(locked bool) {
	s.Locked = locked
	if locked {
		s.ifFilter.SetCoeffs(s.lpLocked)
	} else {
		s.ifFilter.SetCoeffs(s.lpAcquisition)
	}
}

// PushIQ advances the front end by one raw complex input sample:
// mixer rotation, optional DC removal, IF low-pass, ring storage, and
// FM demodulation. It returns the demodulated real sample and advances
// SampleIn/SampleOut maintaining the sample_out = sample_in - delay
// invariant.
func (s *State) PushIQ(raw Complex) float64 {
	rotated := s.mixer.Rotate(raw)
	if s.dc != nil {
		s.dc.Update(rotated)
		rotated = s.dc.Remove(rotated)
	}
	filtered := s.ifFilter.Push(rotated)

	s.IQ.Set(s.SampleIn, filtered)
	fm := s.demod.Push(filtered)
	if s.fmFilter != nil {
		fm = s.fmFilter.Push(fm)
	}
	s.Real.Set(s.SampleIn, fm)
	s.Energy.Push(s.SampleIn, fm)

	s.SampleIn++
	s.SampleOut = s.SampleIn - s.Delay
	return fm
}

// SetFMLowPass installs the optional FM-audio low-pass (cutoff ~10kHz
// or per-sonde), per spec.md §4.1.
func (s *State) SetFMLowPass(sampleRate, cutoff, transBw float64) {
	coeffs := BlackmanWindowedSinc(sampleRate, cutoff, transBw)
	s.fmFilter = NewFIRReal(coeffs)
}

// PushReal advances the front end in FM-discriminator-audio mode
// (source already yields real samples; no mixer/demod stage runs).
func (s *State) PushReal(x float64) float64 {
	if s.fmFilter != nil {
		x = s.fmFilter.Push(x)
	}
	s.Real.Set(s.SampleIn, x)
	s.Energy.Push(s.SampleIn, x)
	s.SampleIn++
	s.SampleOut = s.SampleIn - s.Delay
	return x
}
