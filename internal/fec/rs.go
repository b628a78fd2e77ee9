package fec

// RSDescriptor is the Reed-Solomon Descriptor from spec.md §3.
type RSDescriptor struct {
	GF  *GF
	N   int // codeword length (symbols)
	K   int // N - R
	R   int // number of parity symbols
	T   int // R/2, error-correcting capability
	B   int // FCR: first consecutive root exponent
	P   int // PRIM: frequency-domain evaluation stride, p*ip == 1 mod N
	IP  int // inverse of P mod N
	Gen []int
}

// NewRS builds the generator polynomial g(x) = prod_{i=0}^{R-1} (x -
// alpha^(b+i*p)) over the given field, with roots at consecutive
// powers starting at b, spaced by p (spec.md §4.5).
func NewRS(gf *GF, n, r, b, p int) *RSDescriptor {
	gen := []int{1}
	for i := 0; i < r; i++ {
		root := gf.Pow(b + i*p)
		gen = gf.PolyMul(gen, []int{root, 1})
	}
	ip := modInverse(p, gf.N)
	return &RSDescriptor{GF: gf, N: n, K: n - r, R: r, T: r / 2, B: b, P: p, IP: ip, Gen: gen}
}

func modInverse(p, n int) int {
	for ip := 1; ip < n; ip++ {
		if (p*ip)%n == 1 {
			return ip
		}
	}
	return 1
}

// Encode computes the systematic parity bytes for msg (K data symbols,
// high-order first, as a byte slice) by taking the remainder of
// msg*x^R divided by g(x), per spec.md §4.5.
func (rs *RSDescriptor) Encode(msg []byte) []byte {
	gf := rs.GF
	parity := make([]int, rs.R)
	for _, m := range msg {
		feedback := gf.Add(int(m), parity[rs.R-1])
		for i := rs.R - 1; i > 0; i-- {
			parity[i] = gf.Add(parity[i-1], gf.Mul(feedback, rs.Gen[i]))
		}
		parity[0] = gf.Mul(feedback, rs.Gen[0])
	}
	out := make([]byte, rs.R)
	for i, p := range parity {
		out[rs.R-1-i] = byte(p)
	}
	return out
}

// Result is the tagged decode outcome shared by every FEC stage, per
// spec.md §4.7.
type Result struct {
	Data          []byte
	Errors        int // number of corrected symbol errors; -1 if uncorrectable
	Uncorrectable bool
	// ErasurePositions echoes back the corrected error+erasure
	// locations (codeword index, 0 = first/high-order symbol), mainly
	// useful for escalated soft-decision retries.
	ErasurePositions []int
}

// modNN reduces x into [0,NN) the way Karn's MODNN() macro does,
// exploiting that NN = 2^m-1 so x mod NN == (x & NN) + (x >> m) folds
// in one or two steps; a plain modulo is used here for clarity since
// R and N are small.
func modNN(x, nn int) int {
	x %= nn
	if x < 0 {
		x += nn
	}
	return x
}

// Decode runs the classic Berlekamp-Massey errors-and-erasures
// Reed-Solomon decoder (Karn/Massey formulation, as used by the
// reference project's FX.25 RS codec) over a received N-symbol
// codeword (high-order symbol first), with up to T+nera correctable
// symbol errors given nera known erasure positions (codeword index,
// 0-based from the high-order end).
func (rs *RSDescriptor) Decode(cw []byte, erasPos []int) Result {
	gf := rs.GF
	nn := gf.N
	a0 := nn // sentinel: index-form representation of log(0)

	logOf := func(v int) int {
		if v == 0 {
			return a0
		}
		return gf.LogA[v]
	}
	expOf := func(idx int) int {
		return gf.ExpA[modNN(idx, nn)]
	}

	data := append([]int(nil), byteSliceToInt(cw)...)
	noEras := len(erasPos)
	// fcr is B re-expressed in the (fcr+i)*P indexing used below: since
	// P*IP = 1 mod N, alpha^((fcr+i)*P) = alpha^(B+i*P), the encoder's roots.
	fcr := modNN(rs.B*rs.IP, nn)

	// Syndromes: s[i] = data(alpha^((fcr+i)*P)), poly form.
	s := make([]int, rs.R)
	for i := 0; i < rs.R; i++ {
		s[i] = data[0]
	}
	for j := 1; j < rs.N; j++ {
		for i := 0; i < rs.R; i++ {
			if s[i] == 0 {
				s[i] = data[j]
			} else {
				s[i] = data[j] ^ expOf(logOf(s[i])+(fcr+i)*rs.P)
			}
		}
	}

	synError := 0
	sIdx := make([]int, rs.R)
	for i := 0; i < rs.R; i++ {
		synError |= s[i]
		sIdx[i] = logOf(s[i])
	}
	if synError == 0 {
		return Result{Data: cw, Errors: 0}
	}

	lambda := make([]int, rs.R+1)
	lambda[0] = 1
	if noEras > 0 {
		lambda[1] = expOf(rs.P * (rs.N - 1 - erasPos[0]))
		for i := 1; i < noEras; i++ {
			u := modNN(rs.P*(rs.N-1-erasPos[i]), nn)
			for j := i + 1; j > 0; j-- {
				tmp := logOf(lambda[j-1])
				if tmp != a0 {
					lambda[j] ^= expOf(u + tmp)
				}
			}
		}
	}

	b := make([]int, rs.R+1)
	for i := range b {
		b[i] = logOf(lambda[i])
	}

	t := make([]int, rs.R+1)
	r := noEras
	el := noEras
	for {
		r++
		if r > rs.R {
			break
		}
		discrR := 0
		for i := 0; i < r; i++ {
			if lambda[i] != 0 && sIdx[r-i-1] != a0 {
				discrR ^= expOf(logOf(lambda[i]) + sIdx[r-i-1])
			}
		}
		discrR = logOf(discrR)
		if discrR == a0 {
			copy(b[1:], b[:rs.R])
			b[0] = a0
		} else {
			t[0] = lambda[0]
			for i := 0; i < rs.R; i++ {
				if b[i] != a0 {
					t[i+1] = lambda[i+1] ^ expOf(discrR+b[i])
				} else {
					t[i+1] = lambda[i+1]
				}
			}
			if 2*el <= r+noEras-1 {
				el = r + noEras - el
				for i := 0; i <= rs.R; i++ {
					if lambda[i] == 0 {
						b[i] = a0
					} else {
						b[i] = modNN(logOf(lambda[i])-discrR+nn, nn)
					}
				}
			} else {
				copy(b[1:], b[:rs.R])
				b[0] = a0
			}
			copy(lambda, t[:rs.R+1])
		}
	}

	degLambda := 0
	lambdaIdx := make([]int, rs.R+1)
	for i := 0; i <= rs.R; i++ {
		lambdaIdx[i] = logOf(lambda[i])
		if lambdaIdx[i] != a0 {
			degLambda = i
		}
	}

	reg := make([]int, rs.R+1)
	copy(reg[1:], lambdaIdx[1:])
	root := make([]int, rs.R)
	loc := make([]int, rs.R)
	count := 0
	k := nn - 1
	for i := 1; i <= rs.N; i++ {
		k = modNN(k+rs.IP, nn)
		q := 1
		for j := degLambda; j > 0; j-- {
			if reg[j] != a0 {
				reg[j] = modNN(reg[j]+j, nn)
				q ^= expOf(reg[j])
			}
		}
		if q != 0 {
			continue
		}
		if count < len(root) {
			root[count] = i
			loc[count] = k
		}
		count++
		if count == degLambda {
			break
		}
	}
	if degLambda != count {
		return Result{Uncorrectable: true, Errors: -1}
	}

	degOmega := 0
	omega := make([]int, rs.R+1)
	for i := 0; i < rs.R; i++ {
		tmp := 0
		jmax := i
		if degLambda < i {
			jmax = degLambda
		}
		for j := jmax; j >= 0; j-- {
			if sIdx[i-j] != a0 && lambdaIdx[j] != a0 {
				tmp ^= expOf(sIdx[i-j] + lambdaIdx[j])
			}
		}
		if tmp != 0 {
			degOmega = i
		}
		omega[i] = logOf(tmp)
	}
	omega[rs.R] = a0

	for j := count - 1; j >= 0; j-- {
		num1 := 0
		for i := degOmega; i >= 0; i-- {
			if omega[i] != a0 {
				num1 ^= expOf(omega[i] + i*root[j])
			}
		}
		num2 := expOf(modNN(root[j]*(fcr-1)+nn, nn))
		den := 0
		limit := degLambda
		if rs.R-1 < limit {
			limit = rs.R - 1
		}
		limit &^= 1
		for i := limit; i >= 0; i -= 2 {
			if lambdaIdx[i+1] != a0 {
				den ^= expOf(lambdaIdx[i+1] + i*root[j])
			}
		}
		if den == 0 {
			return Result{Uncorrectable: true, Errors: -1}
		}
		if num1 != 0 {
			pos := loc[j]
			if pos < 0 || pos >= rs.N {
				return Result{Uncorrectable: true, Errors: -1}
			}
			data[pos] ^= expOf(logOf(num1) + logOf(num2) + nn - logOf(den))
		}
	}

	out := intSliceToBytes(data)
	verify := rs.Syndromes(out)
	if !allZero(verify) {
		return Result{Uncorrectable: true, Errors: -1}
	}

	fixedLoc := append([]int(nil), loc[:count]...)
	return Result{Data: out, Errors: count, ErasurePositions: fixedLoc}
}

// Syndromes computes S_j = cw(alpha^(b+j*p)) for j in [0,R), per
// spec.md §4.5, used both internally and for the "syndromes zero"
// testable property.
func (rs *RSDescriptor) Syndromes(cw []byte) []int {
	gf := rs.GF
	syn := make([]int, rs.R)
	poly := make([]int, len(cw))
	for i, c := range cw {
		poly[len(cw)-1-i] = int(c)
	}
	for j := 0; j < rs.R; j++ {
		syn[j] = gf.Eval(poly, gf.Pow(rs.B+j*rs.P))
	}
	return syn
}

func allZero(v []int) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

func byteSliceToInt(b []byte) []int {
	out := make([]int, len(b))
	for i, v := range b {
		out[i] = int(v)
	}
	return out
}

func intSliceToBytes(v []int) []byte {
	out := make([]byte, len(v))
	for i, x := range v {
		out[i] = byte(x)
	}
	return out
}
