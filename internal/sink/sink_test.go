package sink

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rs1729go/sondedecode/internal/sonde"
)

func sampleRecord() sonde.Record {
	return sonde.Record{
		Family:       "RS41",
		FrameNumber:  42,
		ID:           "R1234567",
		UTC:          time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC),
		LatDeg:       51.5,
		LonDeg:       -0.1,
		AltM:         12345.6,
		TemperatureC: -20.5,
		HumidityPct:  55,
		PressureHPa:  123.4,
		CRCOk:        true,
	}
}

func TestTextWriter_FormatsExpectedFields(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewTextWriter(&buf, "")
	require.NoError(t, err)

	require.NoError(t, w.Write(sampleRecord()))
	out := buf.String()
	require.Contains(t, out, "RS41")
	require.Contains(t, out, "frame=42")
	require.Contains(t, out, "id=R1234567")
	require.Contains(t, out, "2026-07-31 12:00:00")
}

func TestTextWriter_DefaultsTimestampWhenZero(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewTextWriter(&buf, "")
	require.NoError(t, err)

	rec := sampleRecord()
	rec.UTC = time.Time{}
	require.NoError(t, w.Write(rec))
	require.NotEmpty(t, buf.String())
}

func TestJSONWriter_EncodesRecordFields(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf)
	require.NoError(t, w.Write(sampleRecord()))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, "RS41", got["type"])
	require.Equal(t, "R1234567", got["id"])
	require.Equal(t, true, got["crcOK"])
	require.Equal(t, float64(42), got["frame"])
}

func TestJSONWriter_OmitsZeroOptionalFields(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf)
	rec := sonde.Record{Family: "DFM09", FrameNumber: 1, ID: "D1"}
	require.NoError(t, w.Write(rec))
	require.NotContains(t, buf.String(), `"lat"`)
	require.NotContains(t, buf.String(), `"datetime"`)
}

func TestMultiWriter_FansOutToAllSinks(t *testing.T) {
	var a, b bytes.Buffer
	wa := NewJSONWriter(&a)
	wb := NewJSONWriter(&b)
	m := NewMultiWriter(wa, wb)

	require.NoError(t, m.Write(sampleRecord()))
	require.True(t, strings.Contains(a.String(), "RS41"))
	require.True(t, strings.Contains(b.String(), "RS41"))
}
