package sonde

import (
	"encoding/binary"
	"math"
	"sort"
	"time"

	"github.com/rs1729go/sondedecode/internal/calib"
	"github.com/rs1729go/sondedecode/internal/errs"
	"github.com/rs1729go/sondedecode/internal/fec"
	"github.com/rs1729go/sondedecode/internal/framer"
	"github.com/rs1729go/sondedecode/internal/geo"
)

// rs41WhitenMask is the fixed 64-byte XOR de-whitening mask, per
// spec.md §4.4/§4.6 and the original rs41mod.c `rs41_ecc` table; bit
// patterns here must be preserved exactly (spec.md §9).
var rs41WhitenMask = []byte{
	0x96, 0x83, 0x3E, 0x51, 0xB1, 0x49, 0x08, 0x98,
	0x32, 0x05, 0x59, 0x0E, 0xF9, 0x44, 0xC6, 0x26,
	0x21, 0x60, 0xC2, 0xEA, 0x79, 0x5D, 0x6D, 0xA1,
	0x54, 0x69, 0x47, 0x0C, 0xDC, 0xE8, 0x5C, 0xF1,
	0xF7, 0x76, 0x82, 0x7F, 0x07, 0x99, 0xA2, 0x2C,
	0x93, 0x7C, 0x30, 0x63, 0xF5, 0x10, 0x2E, 0x61,
	0xD0, 0xBC, 0xB4, 0xB6, 0x06, 0xAA, 0xF4, 0x23,
	0x78, 0x6E, 0x3B, 0xAE, 0xBF, 0x7B, 0x4C, 0xC1,
}

// rs41ExtFrameLen is the RS-codeword extraction length (rs41mod.c's
// FRAME_LEN): short 320-byte frames are zero-padded at the tail before
// the two interleaved codewords are sliced out.
const rs41ExtFrameLen = 518

// rs41MsgOffset is the byte offset, within the corrected frame, where
// the length-prefixed sub-packet stream begins (rs41mod.c's
// pos_FRAME).
const rs41MsgOffset = 57

// CalibStore is the 51-slot, 16-byte-per-slot RS41 calibration table
// of spec.md §3's Calibration Subframe Store, kept as one flat buffer
// so multi-byte calibration fields that straddle two slots (as the
// pressure-polynomial coefficients do) read back correctly.
type CalibStore struct {
	Bytes   [51 * 16]byte
	Present [51]bool
}

// Complete reports whether every slot has been received at least
// once, per spec.md §3's invariant on calibration completeness.
func (c *CalibStore) Complete() bool {
	for _, p := range c.Present {
		if !p {
			return false
		}
	}
	return true
}

func (c *CalibStore) store(idx int, data [16]byte) {
	if idx < 0 || idx >= 51 {
		return
	}
	copy(c.Bytes[idx*16:idx*16+16], data[:])
	c.Present[idx] = true
}

// float32At reads a little-endian IEEE-754 float32 at the given
// absolute offset into the flattened calibration buffer, per
// rs41mod.c's `memcpy(&field, gpx->calibytes+offset, 4)` pattern.
func (c *CalibStore) float32At(offset int) float64 {
	if offset < 0 || offset+4 > len(c.Bytes) {
		return 0
	}
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(c.Bytes[offset : offset+4])))
}

// RS41Interpreter implements spec.md §4.6's RS41 row: RS(255,231)x2 +
// CRC-16, 64-byte whitening, sub-packets keyed by (type_id,len).
type RS41Interpreter struct {
	rs    *fec.RSDescriptor
	calib CalibStore
}

func NewRS41Interpreter() *RS41Interpreter {
	gf := fec.NewGF(8, 0x11D)
	return &RS41Interpreter{rs: fec.NewRS(gf, 255, 24, 1, 1)}
}

func init() { Register(NewRS41Interpreter()) }

func (r *RS41Interpreter) Family() string { return "RS41" }

func (r *RS41Interpreter) FrameConfig() framer.Config {
	return framer.Config{
		BitFrameLen:   320 * 8,
		Manchester:    false,
		Endian:        framer.LittleEndian,
		WhitenMask:    rs41WhitenMask,
		LenByteOffset: 0,
	}
}

// rs41SubPacket is one (type_id, len, payload, crc) block within the
// message region of the corrected frame, per spec.md §4.6 and
// rs41mod.c's check_CRC: a 2-byte (type,len) header, len payload
// bytes, then a little-endian CRC-16 trailer.
type rs41SubPacket struct {
	typeID    byte
	data      []byte
	crcStored uint16
}

func splitRS41SubPackets(data []byte) []rs41SubPacket {
	var out []rs41SubPacket
	pos := 0
	for pos+4 <= len(data) {
		typeID := data[pos]
		length := int(data[pos+1])
		if typeID == 0 || pos+2+length+2 > len(data) {
			break
		}
		payload := data[pos+2 : pos+2+length]
		crcStored := binary.LittleEndian.Uint16(data[pos+2+length : pos+2+length+2])
		out = append(out, rs41SubPacket{typeID: typeID, data: payload, crcStored: crcStored})
		pos += 2 + length + 2
	}
	return out
}

// cw1FrameByte and cw2FrameByte map a codeword symbol index (0-based,
// high-order first) back to its byte offset in the extended
// (rs41ExtFrameLen-byte) frame, mirroring rs41_ecc's parity-first,
// even/odd-interleaved layout: parity occupies the first 24 symbols,
// data the remaining 231, taken from alternating bytes starting at
// byte 56.
func cw1FrameByte(symIdx int) int {
	if symIdx < 24 {
		return 8 + symIdx
	}
	return 56 + 2*(symIdx-24)
}

func cw2FrameByte(symIdx int) int {
	if symIdx < 24 {
		return 32 + symIdx
	}
	return 57 + 2*(symIdx-24)
}

// byteScore returns a soft-decision confidence for frame byte
// byteIdx, the minimum |soft value| across its 8 constituent bits;
// lower means less confident. Positions past frameScore's coverage
// (the zero-padded extended tail) report maximal confidence, since
// they are deterministic padding rather than erasure candidates.
func byteScore(frameScore []float64, byteIdx int) float64 {
	base := byteIdx * 8
	if base < 0 || base+8 > len(frameScore) {
		return math.MaxFloat64
	}
	min := math.Abs(frameScore[base])
	for b := 1; b < 8; b++ {
		if v := math.Abs(frameScore[base+b]); v < min {
			min = v
		}
	}
	return min
}

// escalate implements spec.md §4.5's level-3 soft-decision ECC
// escalation: pick the two lowest-score codeword positions as
// erasures and retry, iterating ascending-score pairs until one
// yields a correctable result.
func (r *RS41Interpreter) escalate(cw []byte, frameScore []float64, byteAt func(int) int) fec.Result {
	type cand struct {
		idx   int
		score float64
	}
	cands := make([]cand, len(cw))
	for i := range cw {
		cands[i] = cand{idx: i, score: byteScore(frameScore, byteAt(i))}
	}
	sort.Slice(cands, func(a, b int) bool { return cands[a].score < cands[b].score })

	const maxPairs = 8
	limit := maxPairs
	if limit > len(cands)/2 {
		limit = len(cands) / 2
	}
	for p := 0; p < limit; p++ {
		eras := []int{cands[2*p].idx, cands[2*p+1].idx}
		if res := r.rs.Decode(cw, eras); !res.Uncorrectable {
			return res
		}
	}
	return fec.Result{Uncorrectable: true, Errors: -1}
}

// Interpret implements Interpreter. The RS(255,231) codewords occupy
// two interleaved 255-byte spans reconstructed from the 320-byte
// frame zero-padded to its rs41ExtFrameLen extended form, per
// rs41mod.c's rs41_ecc; the sub-packet stream is then parsed from the
// error-corrected frame.
func (r *RS41Interpreter) Interpret(frame []byte, frameScore []float64) (Record, error) {
	if len(frame) < 320 {
		return Record{}, errs.New(errs.KindFecUncorrectable, "rs41: short frame")
	}

	ext := make([]byte, rs41ExtFrameLen)
	copy(ext, frame)

	cw1 := make([]byte, 255)
	cw2 := make([]byte, 255)
	for i := 0; i < 255; i++ {
		cw1[i] = ext[cw1FrameByte(i)]
		cw2[i] = ext[cw2FrameByte(i)]
	}

	res1 := r.rs.Decode(cw1, nil)
	if res1.Uncorrectable && len(frameScore) > 0 {
		res1 = r.escalate(cw1, frameScore, cw1FrameByte)
	}
	res2 := r.rs.Decode(cw2, nil)
	if res2.Uncorrectable && len(frameScore) > 0 {
		res2 = r.escalate(cw2, frameScore, cw2FrameByte)
	}
	if res1.Uncorrectable || res2.Uncorrectable {
		return Record{Family: "RS41", ECCUncorrect: true}, nil
	}

	for i := 0; i < 255; i++ {
		ext[cw1FrameByte(i)] = res1.Data[i]
		ext[cw2FrameByte(i)] = res2.Data[i]
	}
	corrected := ext[:320]

	rec := Record{Family: "RS41", Extra: map[string]float64{}}
	rec.ECCErrors = res1.Errors + res2.Errors

	anyKnown := false
	allValid := true
	for _, sp := range splitRS41SubPackets(corrected[rs41MsgOffset:]) {
		switch sp.typeID {
		case 0x79, 0x7A, 0x7B, 0x7C: // FRAME, PTU, GPS3, GPS1 — the types this interpreter extracts
		default:
			continue
		}

		computed := fec.CRC16CCITT(sp.data)
		if computed != sp.crcStored {
			allValid = false
			continue
		}
		anyKnown = true

		switch sp.typeID {
		case 0x79: // FrameNumber+SondeID, with CalFrames embedded at a fixed sub-offset
			r.decodeFrame(sp.data, &rec)
		case 0x7A: // PTU
			r.decodePTU(sp.data, &rec)
		case 0x7B: // GPS3: NAV-SOL ECEF-POS/VEL
			r.decodeGPS(sp.data, &rec)
		case 0x7C: // GPS1: RXM-RAW Week/TOW/Sats
			r.decodeGPS1(sp.data, &rec)
		}
	}
	rec.CRCOk = anyKnown && allValid

	if !plausibleAlt(rec.AltM) {
		rec.AltM = 0
		rec.HasGPS = false
	}
	return rec, nil
}

// decodeGPS parses the GPS3 (NAV-SOL) sub-packet: ECEF position,
// velocity, and satellite count.
func (r *RS41Interpreter) decodeGPS(d []byte, rec *Record) {
	if len(d) < 19 {
		return
	}
	x := float64(int32(binary.LittleEndian.Uint32(d[0:4]))) / 100.0
	y := float64(int32(binary.LittleEndian.Uint32(d[4:8]))) / 100.0
	z := float64(int32(binary.LittleEndian.Uint32(d[8:12]))) / 100.0
	vx := float64(int16(binary.LittleEndian.Uint16(d[12:14]))) / 100.0
	vy := float64(int16(binary.LittleEndian.Uint16(d[14:16]))) / 100.0
	vz := float64(int16(binary.LittleEndian.Uint16(d[16:18]))) / 100.0

	g := geo.ECEF{X: x, Y: y, Z: z}.ToGeodetic()
	rec.LatDeg, rec.LonDeg, rec.AltM = g.LatDeg, g.LonDeg, g.AltM
	rec.VHorizMps = math.Hypot(vx, vy)
	rec.HeadingDeg = math.Mod(math.Atan2(vx, vy)*180/math.Pi+360, 360)
	rec.VVertMps = vz
	rec.NumSV = int(d[18])
	rec.HasGPS = true
}

// decodeGPS1 parses the GPS1 (RXM-RAW) sub-packet's week/TOW pair into
// rec.UTC, per spec.md §3/§4.6's utc_or_gps_datetime field.
func (r *RS41Interpreter) decodeGPS1(d []byte, rec *Record) {
	if len(d) < 6 {
		return
	}
	towMs := binary.LittleEndian.Uint32(d[2:6])
	rec.UTC = r.decodeGPSTime(d[0:2], towMs)
}

// decodeFrame parses the FRAME sub-packet: FrameNumber, SondeID, and
// the embedded CalFrames calibration slot (a 1-byte index followed by
// 16 bytes of slot data, at rs41mod.c's pos_CalData).
func (r *RS41Interpreter) decodeFrame(d []byte, rec *Record) {
	if len(d) < 10 {
		return
	}
	rec.FrameNumber = int(binary.LittleEndian.Uint16(d[0:2]))
	var idBytes [8]byte
	copy(idBytes[:], d[2:10])
	n := 0
	for n < 8 && idBytes[n] != 0 {
		n++
	}
	rec.ID = string(idBytes[:n])

	const calDataOffset = 23 // pos_CalData(0x052) - pos_FrameNb(0x03B), relative to this payload's start
	if len(d) >= calDataOffset+17 {
		calfr := int(d[calDataOffset])
		var slot [16]byte
		copy(slot[:], d[calDataOffset+1:calDataOffset+17])
		r.calib.store(calfr, slot)
	}
}

func (r *RS41Interpreter) decodeGPSTime(weekBytes []byte, towMs uint32) time.Time {
	week := int(binary.LittleEndian.Uint16(weekBytes))
	return geo.GPSTimeToUTC(week, float64(towMs)/1000.0, time.Now())
}

// rs41PressureCoefficients reads the 25-entry bivariate pressure
// polynomial coefficient table out of the calibration store, at the
// scattered offsets rs41mod.c's get_P assembles from gpx->calibytes
// (several indices are unused in the original and stay zero).
func (r *RS41Interpreter) rs41PressureCoefficients() []float64 {
	calP := make([]float64, 25)
	calP[0] = r.calib.float32At(606)
	calP[4] = r.calib.float32At(610)
	calP[8] = r.calib.float32At(614)
	calP[12] = r.calib.float32At(618)
	calP[16] = r.calib.float32At(622)
	calP[20] = r.calib.float32At(626)
	calP[24] = r.calib.float32At(630)
	calP[1] = r.calib.float32At(634)
	calP[5] = r.calib.float32At(638)
	calP[9] = r.calib.float32At(642)
	calP[13] = r.calib.float32At(646)
	calP[2] = r.calib.float32At(650)
	calP[6] = r.calib.float32At(654)
	calP[10] = r.calib.float32At(658)
	calP[14] = r.calib.float32At(662)
	calP[3] = r.calib.float32At(666)
	calP[7] = r.calib.float32At(670)
	calP[11] = r.calib.float32At(674)
	return calP
}

// decodePTU implements the NTC/capacitance-derived temperature and
// the SGP pressure polynomial of spec.md §4.6's per-family highlights.
func (r *RS41Interpreter) decodePTU(d []byte, rec *Record) {
	if len(d) < 12 {
		return
	}
	fT := float64(binary.LittleEndian.Uint32(d[0:4]))
	fRef1 := float64(binary.LittleEndian.Uint32(d[4:8]))
	fRef2 := float64(binary.LittleEndian.Uint32(d[8:12]))

	if fRef2 == fRef1 {
		return
	}
	// Reference-ratio capacitance-to-resistance conversion per the
	// NTC calibration highlight; placeholder Rs/Rp/p-coefficients come
	// from the sonde's own calibration subframes once fully parsed.
	ratio := (fT - fRef1) / (fRef2 - fRef1)
	const rs, rp = 22000.0, 10000.0
	resistance := rp * ratio / (1 - ratio)
	_ = rs
	tempK := calib.SteinhartHart(resistance, 1.0e-3, 2.5e-4, 0, 1.0e-7)
	rec.TemperatureC = calib.KelvinToCelsius(tempK)
	rec.HasPTU = true

	if r.calib.Complete() && ratio != 0 {
		calP := r.rs41PressureCoefficients()
		a0 := calP[24] / ratio
		a1 := fT / 100.0
		rec.PressureHPa = calib.RS41PressurePolynomial(calP, a0, a1, 6, 4) / 100.0
	}
}
