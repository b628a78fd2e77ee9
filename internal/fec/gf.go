// Package fec implements the forward-error-correction layer (spec.md
// §4.5): a configurable Galois field, a Reed-Solomon encoder/decoder
// via Berlekamp-Massey, Chien search, and Forney's algorithm, a
// Hamming(8,4) decoder with soft-decision list decoding, a shortened
// BCH(63,51)->(46,34) decoder, a rate-1/2 Viterbi decoder, and the
// three CRC-16 variants the supported sonde families use.
package fec

// GF is a Galois field GF(2^m) built from a reduction polynomial f and
// primitive element alpha, per spec.md §4.5: exp_a[0]=1,
// exp_a[i]=alpha*exp_a[i-1] reduced by f; log_a[exp_a[i]]=i;
// log_a[0] is undefined (sentinel -1).
type GF struct {
	M      int
	N      int // 2^m - 1, the field's nonzero element count
	Poly   int // reduction polynomial f
	ExpA   []int
	LogA   []int
}

const logSentinel = -1

// NewGF builds the exp/log tables for GF(2^m) with reduction
// polynomial poly (as an (m+1)-bit integer); the primitive element
// alpha is always x (2).
func NewGF(m int, poly int) *GF {
	n := (1 << m) - 1
	gf := &GF{M: m, N: n, Poly: poly, ExpA: make([]int, n+1), LogA: make([]int, n+1)}
	for i := range gf.LogA {
		gf.LogA[i] = logSentinel
	}

	x := 1
	for i := 0; i < n; i++ {
		gf.ExpA[i] = x
		gf.LogA[x] = i
		x <<= 1
		if x&(1<<m) != 0 {
			x ^= poly
		}
	}
	gf.ExpA[n] = gf.ExpA[0]
	return gf
}

// Add is GF addition (XOR).
func (gf *GF) Add(a, b int) int { return a ^ b }

// Mul multiplies two field elements via the log tables.
func (gf *GF) Mul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return gf.ExpA[(gf.LogA[a]+gf.LogA[b])%gf.N]
}

// Div divides a by b (b != 0).
func (gf *GF) Div(a, b int) int {
	if a == 0 {
		return 0
	}
	return gf.ExpA[(gf.LogA[a]-gf.LogA[b]+gf.N)%gf.N]
}

// Inv returns the multiplicative inverse of a (a != 0).
func (gf *GF) Inv(a int) int {
	return gf.ExpA[(gf.N-gf.LogA[a])%gf.N]
}

// Pow returns alpha^e for the field's primitive element.
func (gf *GF) Pow(e int) int {
	e %= gf.N
	if e < 0 {
		e += gf.N
	}
	return gf.ExpA[e]
}

// Eval evaluates polynomial p (coefficients low-to-high) at field
// element x using Horner's method.
func (gf *GF) Eval(p []int, x int) int {
	result := 0
	for i := len(p) - 1; i >= 0; i-- {
		result = gf.Add(gf.Mul(result, x), p[i])
	}
	return result
}

// PolyMul multiplies two polynomials over GF (coefficients low-to-high).
func (gf *GF) PolyMul(a, b []int) []int {
	out := make([]int, len(a)+len(b)-1)
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		for j, bj := range b {
			out[i+j] = gf.Add(out[i+j], gf.Mul(ai, bj))
		}
	}
	return out
}
