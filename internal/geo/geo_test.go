package geo

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// geodeticToECEF is the standard forward transform, used only here to
// build ECEF fixtures for testing ECEF.ToGeodetic's inverse; the
// decoder itself never needs this direction since every sonde family
// transmits ECEF and wants geodetic out.
func geodeticToECEF(g Geodetic) ECEF {
	latR := g.LatDeg * math.Pi / 180
	lonR := g.LonDeg * math.Pi / 180
	e2 := 1 - (wgs84B*wgs84B)/(wgs84A*wgs84A)
	sinLat := math.Sin(latR)
	n := wgs84A / math.Sqrt(1-e2*sinLat*sinLat)

	x := (n + g.AltM) * math.Cos(latR) * math.Cos(lonR)
	y := (n + g.AltM) * math.Cos(latR) * math.Sin(lonR)
	z := (n*(1-e2) + g.AltM) * math.Sin(latR)
	return ECEF{X: x, Y: y, Z: z}
}

func TestECEF_ToGeodetic_Equator(t *testing.T) {
	e := ECEF{X: wgs84A, Y: 0, Z: 0}
	g := e.ToGeodetic()
	require.InDelta(t, 0, g.LatDeg, 1e-6)
	require.InDelta(t, 0, g.LonDeg, 1e-6)
	require.InDelta(t, 0, g.AltM, 1e-3)
}

func TestECEF_ToGeodetic_RoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lat := rapid.Float64Range(-89, 89).Draw(rt, "lat")
		lon := rapid.Float64Range(-179, 179).Draw(rt, "lon")
		alt := rapid.Float64Range(-100, 40000).Draw(rt, "alt")

		want := Geodetic{LatDeg: lat, LonDeg: lon, AltM: alt}
		got := geodeticToECEF(want).ToGeodetic()

		require.InDelta(t, want.LatDeg, got.LatDeg, 1e-6)
		require.InDelta(t, want.LonDeg, got.LonDeg, 1e-6)
		require.InDelta(t, want.AltM, got.AltM, 1e-3)
	})
}

func TestGPSTimeToUTC_NearReference(t *testing.T) {
	ref := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	weeks := int(ref.Sub(gpsEpoch).Hours() / (24 * 7))
	got := GPSTimeToUTC(weeks%1024, 0, ref)

	diff := got.Sub(gpsEpoch).Hours() / (24 * 7)
	require.InDelta(t, float64(weeks), diff, 0.01)
}

func TestUTM_RoundTrip(t *testing.T) {
	g := Geodetic{LatDeg: 51.5, LonDeg: -0.1}
	u, err := ToUTM(g)
	require.NoError(t, err)

	back, err := FromUTM(u)
	require.NoError(t, err)
	require.InDelta(t, g.LatDeg, back.LatDeg, 1e-4)
	require.InDelta(t, g.LonDeg, back.LonDeg, 1e-4)
}
