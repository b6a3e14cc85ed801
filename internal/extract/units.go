package extract

import (
	"math"
	"time"
)

const (
	kilogramsPerPound  = 0.45359237
	centimetersPerInch = 2.54
)

// Age returns completed years at asOf. A missing month or day counts as 1.
func Age(year int, month, day *int, asOf time.Time) int {
	m, d := 1, 1
	if month != nil {
		m = *month
	}
	if day != nil {
		d = *day
	}
	age := asOf.Year() - year
	if int(asOf.Month()) < m || (int(asOf.Month()) == m && asOf.Day() < d) {
		age--
	}
	return age
}

// PoundsToKilograms converts and rounds to 4 decimals.
func PoundsToKilograms(lb float64) float64 {
	return Round(lb*kilogramsPerPound, 4)
}

// InchesToCentimeters converts and rounds to 2 decimals.
func InchesToCentimeters(in float64) float64 {
	return Round(in*centimetersPerInch, 2)
}

func FahrenheitToCelsius(f float64) float64 {
	return Round((f-32)*5/9, 1)
}

// BMI is weight / height² with height in metres, rounded to 2 decimals.
// It returns false when height is not positive.
func BMI(weightKg, heightCm float64) (float64, bool) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, false
	}
	m := heightCm / 100
	return Round(weightKg/(m*m), 2), true
}

func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
