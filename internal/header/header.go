// Package header builds the per-sonde-type Header Descriptor: the
// expected sync bit pattern and its pulse-shaped, sample-domain
// prototype, per spec.md §3 and §4.2.
package header

import "math"

// Descriptor is the immutable expected bit pattern plus its
// pulse-shaped sample-domain prototype.
type Descriptor struct {
	Bits          []int     // 0/1, length Len
	Len           int       // header length in bits
	SamplesPerBit int       // sps
	Prototype     []float64 // length Len*sps, unit L2 norm
}

// New builds a Descriptor for the given header bit pattern, samples
// per bit, and Gaussian-pulse BT product (bandwidth-time product of
// the transmitter's GFSK shaping filter). A larger BT gives a narrower
// pulse: at very large BT each bit becomes a spike at its centre
// sample, not a rectangular pulse.
func New(bits []int, sps int, bt float64) *Descriptor {
	d := &Descriptor{Bits: append([]int(nil), bits...), Len: len(bits), SamplesPerBit: sps}
	d.Prototype = buildPrototype(d.Bits, sps, bt)
	return d
}

// sigma = sqrt(ln 2) / (2*pi*BT), the Gaussian pulse's standard
// deviation in symbol-time units, per spec.md §3.
func gaussianSigma(bt float64) float64 {
	return math.Sqrt(math.Ln2) / (2 * math.Pi * bt)
}

// gaussianPulse evaluates p(t) for a unit-peak Gaussian pulse of the
// given sigma (in symbol-time units), at time t (also in symbol-time
// units, i.e. t=0 is the pulse center).
func gaussianPulse(t, sigma float64) float64 {
	return math.Exp(-0.5 * (t / sigma) * (t / sigma))
}

// buildPrototype sums Gaussian pulses p(t-k) weighted by +-1 per bit
// k, sampled at sps samples/bit, then normalizes to unit L2 norm.
func buildPrototype(bits []int, sps int, bt float64) []float64 {
	n := len(bits)
	sigma := gaussianSigma(bt)
	out := make([]float64, n*sps)
	for i := range out {
		tSample := float64(i) / float64(sps) // time in symbol units from window start
		var sum float64
		for k, b := range bits {
			sign := -1.0
			if b != 0 {
				sign = 1.0
			}
			sum += sign * gaussianPulse(tSample-float64(k)-0.5, sigma)
		}
		out[i] = sum
	}
	normalize(out)
	return out
}

func normalize(v []float64) {
	var ss float64
	for _, x := range v {
		ss += x * x
	}
	norm := math.Sqrt(ss)
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] /= norm
	}
}

// Reversed returns the time-reversed prototype, as used to build the
// matched-filter spectrum Fm = FFT(reversed pulse-shaped header).
func (d *Descriptor) Reversed() []float64 {
	n := len(d.Prototype)
	out := make([]float64, n)
	for i, v := range d.Prototype {
		out[n-1-i] = v
	}
	return out
}

// HammingDistance counts bit differences between the header's
// reference pattern and a candidate hard-bit slice of the same length.
func (d *Descriptor) HammingDistance(candidate []int) int {
	n := d.Len
	if len(candidate) < n {
		n = len(candidate)
	}
	dist := 0
	for i := 0; i < n; i++ {
		if d.Bits[i] != candidate[i] {
			dist++
		}
	}
	dist += d.Len - n
	return dist
}
