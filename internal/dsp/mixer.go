package dsp

import "math"

// RotationLUT is the precomputed complex-exponential look-up table
// used to rotate the baseband to zero, per spec.md §4.1: a table of
// length Sr_base/d samples, where d is the largest divisor <= 16 of
// Sr_base dividing the rounded translation frequency.
type RotationLUT struct {
	table []Complex
	pos   int
}

// NewRotationLUT builds the table for a translation frequency freqHz
// at base sample rate sampleRate. d = 1 always qualifies, so the table
// never exceeds sampleRate entries. The entries use the unrounded
// freqHz, so a non-integer freqHz leaves a phase step at each wrap.
func NewRotationLUT(sampleRate float64, freqHz float64) *RotationLUT {
	srBase := int(math.Round(sampleRate))
	target := int(math.Round(freqHz))
	d := largestDivisorAtMost16(srBase, target)
	lutLen := srBase / d
	if lutLen <= 0 || lutLen > srBase {
		lutLen = srBase
	}
	table := make([]Complex, lutLen)
	for n := 0; n < lutLen; n++ {
		theta := 2 * math.Pi * freqHz * float64(n) / sampleRate
		table[n] = Complex{math.Cos(theta), math.Sin(theta)}
	}
	return &RotationLUT{table: table}
}

func largestDivisorAtMost16(sr, f int) int {
	best := 1
	for d := 1; d <= 16; d++ {
		if sr%d == 0 {
			// d must also divide f, so that the sr/d-entry table
			// covers f/d whole cycles and wraps without a phase jump.
			if absInt(f)%d == 0 {
				best = d
			}
		}
	}
	return best
}

func gcdInt(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// Next returns the next rotation factor and advances the table index.
func (r *RotationLUT) Next() Complex {
	v := r.table[r.pos]
	r.pos++
	if r.pos == len(r.table) {
		r.pos = 0
	}
	return v
}

// DirectRotator performs the LUT-disabled fallback: exp(2*pi*i*f*t)
// computed per sample, per spec.md §4.1.
type DirectRotator struct {
	sampleRate float64
	freqHz     float64
	n          int64
}

func NewDirectRotator(sampleRate, freqHz float64) *DirectRotator {
	return &DirectRotator{sampleRate: sampleRate, freqHz: freqHz}
}

func (d *DirectRotator) Next() Complex {
	theta := 2 * math.Pi * d.freqHz * float64(d.n) / d.sampleRate
	d.n++
	return Complex{math.Cos(theta), math.Sin(theta)}
}

// Mixer rotates an incoming IQ stream by the configured offset,
// optionally through the precomputed LUT.
type Mixer struct {
	lut    *RotationLUT
	direct *DirectRotator
}

// NewMixer builds a mixer; useLUT selects the table-driven rotation,
// otherwise the direct per-sample exponential is used.
func NewMixer(sampleRate, freqHz float64, useLUT bool) *Mixer {
	m := &Mixer{}
	if useLUT {
		m.lut = NewRotationLUT(sampleRate, freqHz)
	} else {
		m.direct = NewDirectRotator(sampleRate, freqHz)
	}
	return m
}

// Rotate mixes one input sample down by the configured frequency.
func (m *Mixer) Rotate(x Complex) Complex {
	var rot Complex
	if m.lut != nil {
		rot = m.lut.Next()
	} else {
		rot = m.direct.Next()
	}
	return x.Mul(rot)
}
