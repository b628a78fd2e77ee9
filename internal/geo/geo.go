// Package geo implements the coordinate and time conversions spec.md
// §4.6 needs: ECEF (RS41's ublox fix) to WGS-84 geodetic via Bowring's
// method, GPS week/time-of-week to UTC, and UTM/MGRS projection via
// github.com/tzneal/coordconv and github.com/golang/geo/s2, the same
// stack the teacher's src/coordconv.go and cmd/samoyed-ll2utm wire up.
package geo

import (
	"math"
	"time"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/tzneal/coordconv"
)

// WGS-84 ellipsoid constants.
const (
	wgs84A = 6378137.0
	wgs84B = 6356752.31424518
)

// Geodetic is a latitude/longitude/altitude fix in degrees and meters.
type Geodetic struct {
	LatDeg float64
	LonDeg float64
	AltM   float64
}

// ECEF is an Earth-centered, Earth-fixed Cartesian position in meters.
type ECEF struct {
	X, Y, Z float64
}

// ToGeodetic converts an ECEF position to geodetic coordinates using
// Bowring's method, per spec.md §4.6 ("ECEF (x,y,z) to geodetic
// lat/lon/alt via the standard Bowring method").
func (e ECEF) ToGeodetic() Geodetic {
	a := wgs84A
	b := wgs84B
	e2 := 1 - (b*b)/(a*a)
	ep2 := (a*a)/(b*b) - 1

	p := math.Hypot(e.X, e.Y)
	theta := math.Atan2(e.Z*a, p*b)

	lon := math.Atan2(e.Y, e.X)
	lat := math.Atan2(e.Z+ep2*b*pow3(math.Sin(theta)), p-e2*a*pow3(math.Cos(theta)))

	sinLat := math.Sin(lat)
	n := a / math.Sqrt(1-e2*sinLat*sinLat)
	var alt float64
	if p > 1e-9 {
		alt = p/math.Cos(lat) - n
	} else {
		alt = math.Abs(e.Z) - b
	}

	return Geodetic{
		LatDeg: lat * 180 / math.Pi,
		LonDeg: lon * 180 / math.Pi,
		AltM:   alt,
	}
}

func pow3(x float64) float64 { return x * x * x }

// gpsEpoch is the GPS time origin, 1980-01-06T00:00:00Z.
var gpsEpoch = time.Date(1980, 1, 6, 0, 0, 0, 0, time.UTC)

// leapSeconds is the GPS-UTC offset as of this implementation; GPS
// time has run 18s ahead of UTC since the 2017-01-01 leap second and
// no further leap seconds have been scheduled.
const leapSeconds = 18

// GPSTimeToUTC converts a GPS week number and time-of-week (seconds)
// to UTC, per spec.md §4.6. week is first reduced mod 1024, so a
// 10-bit, 13-bit or full week number is accepted alike; refTime then
// picks the 1024-week epoch that puts the result within 512 weeks of
// it. refTime is normally time.Now().
func GPSTimeToUTC(week int, tow float64, refTime time.Time) time.Time {
	const weeksPerEpoch = 1024
	week %= weeksPerEpoch
	refWeeks := int(refTime.Sub(gpsEpoch).Hours() / (24 * 7))
	epoch := refWeeks / weeksPerEpoch
	fullWeek := week + epoch*weeksPerEpoch
	if fullWeek < refWeeks-weeksPerEpoch/2 {
		fullWeek += weeksPerEpoch
	}
	gpsTime := gpsEpoch.Add(time.Duration(fullWeek) * 7 * 24 * time.Hour).Add(time.Duration(tow * float64(time.Second)))
	return gpsTime.Add(-leapSeconds * time.Second)
}

// UTMResult mirrors coordconv.UTMCoord with the teacher's
// rune-hemisphere convention (src/coordconv.go).
type UTMResult struct {
	Zone       int
	Hemisphere rune
	Easting    float64
	Northing   float64
}

// ToUTM projects a geodetic fix to UTM, grounded in the teacher's
// cmd/samoyed-ll2utm.
func ToUTM(g Geodetic) (UTMResult, error) {
	latlng := s2.LatLng{
		Lat: s1.Angle(g.LatDeg * math.Pi / 180),
		Lng: s1.Angle(g.LonDeg * math.Pi / 180),
	}
	coord, err := coordconv.DefaultUTMConverter.ConvertFromGeodetic(latlng, 0)
	if err != nil {
		return UTMResult{}, err
	}
	return UTMResult{
		Zone:       coord.Zone,
		Hemisphere: hemisphereToRune(coord.Hemisphere),
		Easting:    coord.Easting,
		Northing:   coord.Northing,
	}, nil
}

// FromUTM is the inverse of ToUTM, grounded in the teacher's
// cmd/samoyed-utm2ll.
func FromUTM(u UTMResult) (Geodetic, error) {
	coord := coordconv.UTMCoord{
		Zone:       u.Zone,
		Hemisphere: runeToHemisphere(u.Hemisphere),
		Easting:    u.Easting,
		Northing:   u.Northing,
	}
	latlng, err := coordconv.DefaultUTMConverter.ConvertToGeodetic(coord)
	if err != nil {
		return Geodetic{}, err
	}
	return Geodetic{
		LatDeg: float64(latlng.Lat) * 180 / math.Pi,
		LonDeg: float64(latlng.Lng) * 180 / math.Pi,
	}, nil
}

// MGRS formats a geodetic fix as an MGRS string at the given
// precision (1-5), mirroring the teacher's ll2utm "practice run".
func MGRS(g Geodetic, precision int) (string, error) {
	latlng := s2.LatLng{
		Lat: s1.Angle(g.LatDeg * math.Pi / 180),
		Lng: s1.Angle(g.LonDeg * math.Pi / 180),
	}
	coord, err := coordconv.DefaultMGRSConverter.ConvertFromGeodetic(latlng, precision)
	if err != nil {
		return "", err
	}
	return coord.String(), nil
}

func hemisphereToRune(h coordconv.Hemisphere) rune {
	switch h {
	case coordconv.HemisphereNorth:
		return 'N'
	case coordconv.HemisphereSouth:
		return 'S'
	default:
		return '?'
	}
}

func runeToHemisphere(r rune) coordconv.Hemisphere {
	switch r {
	case 'N':
		return coordconv.HemisphereNorth
	case 'S':
		return coordconv.HemisphereSouth
	default:
		return coordconv.HemisphereInvalid
	}
}
