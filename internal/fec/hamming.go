package fec

import "math/bits"

// hammingSyndromeTable is He from spec.md §4.5: a single-bit-error
// lookup from the 3-bit syndrome to the erroring column of H. Built
// from the code's own parity equations below (encodeHamming84 +
// syndrome84) rather than hardcoded, so the table is always in the
// same column convention the syndrome computation actually produces;
// the overall-parity bit (column 7) doesn't appear in the 3-bit
// syndrome at all, so it has no entry.
var hammingSyndromeTable = buildHammingSyndromeTable()

func buildHammingSyndromeTable() [7]byte {
	var table [7]byte
	base := encodeHamming84(0)
	for col := 0; col < 7; col++ {
		cw := base
		cw[col] ^= 1
		table[col] = syndrome84(cw)
	}
	return table
}

// HammingCodewords is the table of all 16 valid Hamming(8,4)
// codewords, built once and reused by the soft-decision decoder below.
var HammingCodewords = buildHammingCodewords()

func buildHammingCodewords() [16][8]byte {
	var table [16][8]byte
	for d := 0; d < 16; d++ {
		table[d] = encodeHamming84(byte(d))
	}
	return table
}

// parity bits per spec.md's (8,4) systematic code: data bits 0..3 are
// the nibble; parity bits are computed so each of 3 parity checks
// covers a fixed subset of data bits (Hamming(7,4) extended with an
// overall parity bit for single-error-correction/double-error-detection).
func encodeHamming84(data byte) [8]byte {
	d0 := (data >> 0) & 1
	d1 := (data >> 1) & 1
	d2 := (data >> 2) & 1
	d3 := (data >> 3) & 1

	p0 := d0 ^ d1 ^ d3
	p1 := d0 ^ d2 ^ d3
	p2 := d1 ^ d2 ^ d3

	var cw [8]byte
	cw[0] = d0
	cw[1] = d1
	cw[2] = d2
	cw[3] = d3
	cw[4] = p0
	cw[5] = p1
	cw[6] = p2
	cw[7] = d0 ^ d1 ^ d2 ^ d3 ^ p0 ^ p1 ^ p2 // overall parity
	return cw
}

func syndrome84(cw [8]byte) byte {
	d0, d1, d2, d3 := cw[0], cw[1], cw[2], cw[3]
	p0, p1, p2 := cw[4], cw[5], cw[6]
	s0 := d0 ^ d1 ^ d3 ^ p0
	s1 := d0 ^ d2 ^ d3 ^ p1
	s2 := d1 ^ d2 ^ d3 ^ p2
	return s0 | s1<<1 | s2<<2
}

// HammingResult is the tagged outcome of a Hamming(8,4) decode.
type HammingResult struct {
	Data          byte // recovered 4-bit nibble
	Corrected     int  // 0, 1, or 2 bit corrections applied
	Uncorrectable bool
}

func overallParity(cw [8]byte) byte {
	var p byte
	for _, b := range cw {
		p ^= b
	}
	return p
}

// DecodeHamming84 decodes one 8-bit codeword, using the classic
// SECDED discrimination between the 3-bit syndrome (from bits 0-6)
// and the overall parity bit (bit 7): syndrome==0 means no error (or,
// if the overall parity is odd, a harmless error confined to the
// unused parity-only bit); a nonzero syndrome with odd overall parity
// is a correctable single-bit error at the syndrome's column; a
// nonzero syndrome with even overall parity means two bits flipped,
// which this 1-error-correcting code cannot safely fix from the hard
// syndrome alone. When soft is true, that double-error case falls
// back to a soft-decision list decode over all 16 codewords at
// Hamming distance 2 from the hard word, per spec.md §4.5, using the
// per-bit soft scores sb (length 8, signed reliability; sign matches
// the hard bit).
func DecodeHamming84(hard [8]byte, sb [8]float64, soft bool) HammingResult {
	syn := syndrome84(hard)
	parity := overallParity(hard)

	if syn == 0 {
		return HammingResult{Data: nibbleOf(hard), Corrected: 0}
	}

	if parity != 0 {
		for col := 0; col < 7; col++ {
			if hammingSyndromeTable[col] == syn {
				fixed := hard
				fixed[col] ^= 1
				return HammingResult{Data: nibbleOf(fixed), Corrected: 1}
			}
		}
	}

	if !soft {
		return HammingResult{Uncorrectable: true}
	}

	bestDist := -1
	bestScore := -1.0
	bestData := byte(0)
	found := false
	for d := 0; d < 16; d++ {
		cand := HammingCodewords[d]
		dist := hammingDistance8(hard, cand)
		if dist != 2 {
			continue
		}
		var score float64
		for i := 0; i < 8; i++ {
			bit := 2*float64(cand[i]) - 1
			score += bit * sb[i]
		}
		if !found || score > bestScore {
			found = true
			bestScore = score
			bestData = byte(d)
			bestDist = dist
		}
	}
	if !found {
		return HammingResult{Uncorrectable: true}
	}
	return HammingResult{Data: bestData, Corrected: bestDist}
}

func nibbleOf(cw [8]byte) byte {
	return cw[0] | cw[1]<<1 | cw[2]<<2 | cw[3]<<3
}

func hammingDistance8(a, b [8]byte) int {
	var x byte
	for i := 0; i < 8; i++ {
		if a[i] != b[i] {
			x |= 1 << uint(i)
		}
	}
	return bits.OnesCount8(x)
}

// PackBits packs 8 individual 0/1 bits into a byte LSB-first (index 0
// is bit 0), the same bit order nibbleOf uses for DecodeHamming84's
// [8]byte codeword convention.
func PackBits(bits [8]byte) byte {
	var b byte
	for i := 0; i < 8; i++ {
		b |= bits[i] << uint(i)
	}
	return b
}
