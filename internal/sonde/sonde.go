// Package sonde implements the per-family frame interpreters of
// spec.md §4.6: each family consumes a validated byte frame and
// extracts a Sonde Record, promoting fields from spec.md §3's data
// model only when their carrying packet passed CRC/FEC (§4.7).
package sonde

import (
	"time"

	"github.com/rs1729go/sondedecode/internal/errs"
	"github.com/rs1729go/sondedecode/internal/framer"
)

// Record is the Sonde Record of spec.md §3.
type Record struct {
	Family        string
	FrameNumber   int
	ID            string
	UTC           time.Time
	LatDeg        float64
	LonDeg        float64
	AltM          float64
	VHorizMps     float64
	HeadingDeg    float64
	VVertMps      float64
	NumSV         int
	TemperatureC  float64
	HumidityPct   float64
	PressureHPa   float64
	HasPTU        bool
	HasGPS        bool
	CRCOk         bool
	ECCErrors     int
	ECCUncorrect  bool
	Extra         map[string]float64
}

// plausibleAlt is spec.md §7's PlausibilityFail altitude check: it
// reports false for an altitude outside [-1000, 80000] m, and callers
// suppress the offending field rather than the whole record. No GPS
// day-of-week check is made.
func plausibleAlt(altM float64) bool {
	return altM >= -1000 && altM <= 80000
}

// Interpreter is the per-family capability of spec.md §9's
// "polymorphic Interpreter" design note.
type Interpreter interface {
	Family() string
	FrameConfig() framer.Config
	Interpret(frame []byte, frameScore []float64) (Record, error)
}

var registry = map[string]Interpreter{}

// Register adds an interpreter to the family registry; called from
// each family's package init.
func Register(i Interpreter) {
	registry[i.Family()] = i
}

// Lookup returns the interpreter for a family name, or an errs.Config
// error if unknown.
func Lookup(family string) (Interpreter, error) {
	i, ok := registry[family]
	if !ok {
		return nil, errs.New(errs.KindConfig, "unknown sonde family: "+family)
	}
	return i, nil
}

// Families lists every registered family name.
func Families() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	return out
}
