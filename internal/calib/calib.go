// Package calib implements the sensor-calibration math of spec.md
// §4.6: NTC temperature via Steinhart-Hart, humidity via a bivariate
// polynomial referenced against Hyland-Wexler saturation pressure, the
// RS41 SGP pressure polynomial, and the barometric-formula altitude
// fallback.
package calib

import "math"

// SteinhartHart converts a measured thermistor resistance (ohms) to a
// temperature in Kelvin using the cubic Steinhart-Hart equation
// 1/T = p0 + p1*ln(R) + p2*ln(R)^2 + p3*ln(R)^3, per spec.md §4.6.
func SteinhartHart(resistanceOhm float64, p0, p1, p2, p3 float64) float64 {
	if resistanceOhm <= 0 {
		return math.NaN()
	}
	lnR := math.Log(resistanceOhm)
	invT := p0 + p1*lnR + p2*lnR*lnR + p3*lnR*lnR*lnR
	if invT == 0 {
		return math.NaN()
	}
	return 1 / invT
}

// KelvinToCelsius is a unit conversion helper used throughout the
// calibration pipeline.
func KelvinToCelsius(k float64) float64 { return k - 273.15 }

// HylandWexlerSaturationPressurePa returns the water-vapor saturation
// pressure (Pa) over liquid water at temperature tC (Celsius), per the
// Hyland-Wexler formulation spec.md §4.6 references for humidity
// calibration.
func HylandWexlerSaturationPressurePa(tC float64) float64 {
	tK := tC + 273.15
	const (
		c1 = -5800.2206
		c2 = 1.3914993
		c3 = -0.048640239
		c4 = 4.1764768e-5
		c5 = -1.4452093e-8
		c6 = 6.5459673
	)
	lnP := c1/tK + c2 + c3*tK + c4*tK*tK + c5*tK*tK*tK + c6*math.Log(tK)
	return math.Exp(lnP)
}

// HumidityPolyRows and HumidityPolyCols describe the bivariate calibration
// matrix shape sondes transmit: 7 rows (powers of reference
// capacitance ratio) by 6 columns (powers of temperature), per
// spec.md §4.6.
const (
	HumidityPolyRows = 7
	HumidityPolyCols = 6
)

// HumidityPolynomial evaluates the bivariate calibration polynomial
// RH_raw = sum_{i,j} coef[i][j] * capRatio^i * tC^j and returns RH_raw
// as is: no Hyland-Wexler saturation-pressure compensation is applied.
func HumidityPolynomial(coef [HumidityPolyRows][HumidityPolyCols]float64, capRatio, tC float64) float64 {
	var rh float64
	capPow := 1.0
	for i := 0; i < HumidityPolyRows; i++ {
		tPow := 1.0
		for j := 0; j < HumidityPolyCols; j++ {
			rh += coef[i][j] * capPow * tPow
			tPow *= tC
		}
		capPow *= capRatio
	}
	return rh
}

// RS41PressurePolynomial evaluates the RS41 SGP pressure sensor's
// bivariate calibration polynomial
// P = sum_{j,k} calP[j*4+k] * a0^j * a1^k, where a0, a1 are the two
// raw ADC-derived calibration inputs, per spec.md §4.6.
func RS41PressurePolynomial(calP []float64, a0, a1 float64, degJ, degK int) float64 {
	var p float64
	aj := 1.0
	for j := 0; j < degJ; j++ {
		ak := 1.0
		for k := 0; k < degK; k++ {
			idx := j*degK + k
			if idx < len(calP) {
				p += calP[idx] * aj * ak
			}
			ak *= a1
		}
		aj *= a0
	}
	return p
}

// BarometricAltitudeM estimates altitude (meters) from pressure (Pa)
// using the international barometric formula, as the fallback path
// spec.md §4.6 specifies when a sonde family reports pressure but not
// GPS altitude.
func BarometricAltitudeM(pressurePa, seaLevelPa, tempK float64) float64 {
	const (
		lapseRate  = 0.0065  // K/m, troposphere standard lapse rate
		gasConst   = 8.31446 // J/(mol*K)
		gravity    = 9.80665 // m/s^2
		molarMass  = 0.0289644
	)
	if pressurePa <= 0 || seaLevelPa <= 0 {
		return math.NaN()
	}
	exponent := (gasConst * lapseRate) / (gravity * molarMass)
	ratio := math.Pow(pressurePa/seaLevelPa, exponent)
	return (tempK / lapseRate) * (1 - ratio)
}
