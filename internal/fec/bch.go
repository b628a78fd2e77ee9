package fec

// BCH2 is a 2-error-correcting binary BCH decoder over GF(2^6), used
// for the Meisei family's BCH(63,51) code shortened to (46,34) per
// spec.md §4.5 and §4.6. Error values in a binary BCH code are always
// 1 (bit flips), so only the error-locator polynomial is needed
// (Peterson's direct formula for t=2, no Forney step).
type BCH2 struct {
	GF *GF
	N  int // 63, full codeword length
}

// NewBCH2 builds the field GF(2^6) with reduction polynomial
// f=x^6+x+1 (0b1000011 = 0x43) and primitive element alpha=2.
func NewBCH2() *BCH2 {
	return &BCH2{GF: NewGF(6, 0x43), N: 63}
}

// syndromes evaluates the bit-polynomial (bits[0] is the coefficient
// of x^(n-1), i.e. high-order first) at alpha^1 and alpha^3.
func (b *BCH2) syndromes(bits []byte) (s1, s3 int) {
	gf := b.GF
	n := len(bits)
	poly := make([]int, n)
	for i, bit := range bits {
		poly[n-1-i] = int(bit)
	}
	s1 = gf.Eval(poly, gf.Pow(1))
	s3 = gf.Eval(poly, gf.Pow(3))
	return
}

// BCHResult is the tagged decode outcome for a BCH(63,51)->(46,34)
// block.
type BCHResult struct {
	Data          []byte // corrected bits, same length as input
	Corrected     int    // 0, 1, or 2
	Uncorrectable bool
}

// Decode corrects up to 2 bit errors in a 46-bit shortened codeword
// (high-order-first bit slice), by zero-padding to the full n=63
// length, per spec.md §4.5 ("codeword of 46 bits padded to 63 for
// decoding").
func (b *BCH2) Decode(bits46 []byte) BCHResult {
	gf := b.GF
	padded := make([]byte, b.N)
	copy(padded[b.N-len(bits46):], bits46)

	s1, s3 := b.syndromes(padded)
	if s1 == 0 && s3 == 0 {
		return BCHResult{Data: append([]byte(nil), bits46...), Corrected: 0}
	}

	s1cubed := gf.Mul(gf.Mul(s1, s1), s1)
	if s1 != 0 && s1cubed == s3 {
		// Single error: locator sigma(x) = 1 + S1*x, root at x = 1/S1.
		pos, ok := b.locatorRoot1(s1)
		if !ok {
			return BCHResult{Uncorrectable: true}
		}
		flipped := append([]byte(nil), padded...)
		flipped[pos] ^= 1
		return finishBCH(flipped, bits46)
	}

	if s1 == 0 {
		// S1==0 but S3!=0 cannot be explained by <=2 errors under this
		// code's root set.
		return BCHResult{Uncorrectable: true}
	}

	sigma2 := gf.Mul(gf.Add(s3, s1cubed), gf.Inv(s1))
	roots := b.locatorRoots2(s1, sigma2)
	if len(roots) != 2 {
		return BCHResult{Uncorrectable: true}
	}
	flipped := append([]byte(nil), padded...)
	for _, pos := range roots {
		flipped[pos] ^= 1
	}
	return finishBCH(flipped, bits46)
}

func finishBCH(flipped []byte, original []byte) BCHResult {
	n := len(flipped)
	k := len(original)
	out := flipped[n-k:]
	corrected := 0
	for i := range out {
		if out[i] != original[i] {
			corrected++
		}
	}
	return BCHResult{Data: append([]byte(nil), out...), Corrected: corrected}
}

// locatorRoot1 finds i such that alpha^i = s1 (the single error
// locator X, the inverse of sigma's root), i.e. the error at degree i,
// and returns it as an array index (0 = high-order bit, N-1-i) in the
// n=63 codeword.
func (b *BCH2) locatorRoot1(s1 int) (int, bool) {
	gf := b.GF
	target := s1
	for i := 0; i < b.N; i++ {
		if gf.Pow(i) == target {
			return b.N - 1 - i, true
		}
	}
	return 0, false
}

// locatorRoots2 finds the positions where sigma(x) = 1 + s1*x +
// sigma2*x^2 vanishes, via Chien search over alpha^0..alpha^(N-1).
func (b *BCH2) locatorRoots2(s1, sigma2 int) []int {
	gf := b.GF
	var positions []int
	for i := 0; i < b.N; i++ {
		x := gf.Pow(i)
		v := gf.Add(1, gf.Add(gf.Mul(s1, x), gf.Mul(sigma2, gf.Mul(x, x))))
		if v == 0 {
			xinv := gf.Inv(x)
			for j := 0; j < b.N; j++ {
				if gf.Pow(j) == xinv {
					positions = append(positions, b.N-1-j)
					break
				}
			}
		}
	}
	return positions
}
