// Package sink implements the output side of spec.md §6: text or JSON
// record writers, and an optional mDNS/DNS-SD announce of the
// decoder's presence, grounded in the teacher's src/dns_sd.go use of
// github.com/brutella/dnssd.
package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/rs1729go/sondedecode/internal/sonde"
)

// Writer is a pluggable Sonde Record sink.
type Writer interface {
	Write(rec sonde.Record) error
}

// TextWriter formats one human-readable line per record, mirroring
// the teacher's plain stderr/stdout logging style.
type TextWriter struct {
	out   io.Writer
	strft *strftime.Strftime
}

// NewTextWriter builds a text sink using the given strftime layout
// for the timestamp field (default "%Y-%m-%d %H:%M:%S").
func NewTextWriter(out io.Writer, layout string) (*TextWriter, error) {
	if layout == "" {
		layout = "%Y-%m-%d %H:%M:%S"
	}
	f, err := strftime.New(layout)
	if err != nil {
		return nil, err
	}
	return &TextWriter{out: out, strft: f}, nil
}

func (w *TextWriter) Write(rec sonde.Record) error {
	ts := rec.UTC
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	var tsStr string
	if w.strft != nil {
		tsStr = w.strft.FormatString(ts)
	}
	_, err := fmt.Fprintf(w.out, "[%s] %s frame=%d id=%s lat=%.6f lon=%.6f alt=%.2f T=%.1fC RH=%.0f%% P=%.1fhPa\n",
		tsStr, rec.Family, rec.FrameNumber, rec.ID, rec.LatDeg, rec.LonDeg, rec.AltM,
		rec.TemperatureC, rec.HumidityPct, rec.PressureHPa)
	return err
}

// jsonRecord is the wire shape for --json output (spec.md §6).
type jsonRecord struct {
	Family      string  `json:"type"`
	Frame       int     `json:"frame"`
	ID          string  `json:"id"`
	Datetime    string  `json:"datetime,omitempty"`
	Lat         float64 `json:"lat,omitempty"`
	Lon         float64 `json:"lon,omitempty"`
	Alt         float64 `json:"alt,omitempty"`
	VH          float64 `json:"vel_h,omitempty"`
	Heading     float64 `json:"heading,omitempty"`
	VV          float64 `json:"vel_v,omitempty"`
	NumSV       int     `json:"sats,omitempty"`
	Temperature float64 `json:"temp,omitempty"`
	Humidity    float64 `json:"humidity,omitempty"`
	Pressure    float64 `json:"pressure,omitempty"`
	CRCOk       bool    `json:"crcOK"`
}

// JSONWriter emits one JSON object per line, per spec.md §6's
// `--json` flag.
type JSONWriter struct {
	out io.Writer
	enc *json.Encoder
}

func NewJSONWriter(out io.Writer) *JSONWriter {
	return &JSONWriter{out: out, enc: json.NewEncoder(out)}
}

func (w *JSONWriter) Write(rec sonde.Record) error {
	jr := jsonRecord{
		Family: rec.Family, Frame: rec.FrameNumber, ID: rec.ID,
		Lat: rec.LatDeg, Lon: rec.LonDeg, Alt: rec.AltM,
		VH: rec.VHorizMps, Heading: rec.HeadingDeg, VV: rec.VVertMps,
		NumSV: rec.NumSV, Temperature: rec.TemperatureC,
		Humidity: rec.HumidityPct, Pressure: rec.PressureHPa,
		CRCOk: rec.CRCOk,
	}
	if !rec.UTC.IsZero() {
		jr.Datetime = rec.UTC.UTC().Format(time.RFC3339)
	}
	return w.enc.Encode(jr)
}

// MultiWriter fans a record out to every configured sink.
type MultiWriter struct {
	writers []Writer
}

func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

func (m *MultiWriter) Write(rec sonde.Record) error {
	for _, w := range m.writers {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
