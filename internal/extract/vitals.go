package extract

import (
	"math"
	"strings"
	"time"

	"github.com/ctomop/ctomop/internal/domain/omop"
	"github.com/ctomop/ctomop/internal/domain/patientinfo"
	"github.com/ctomop/ctomop/pkg/omopcodes"
)

// Target units stored on the summary regardless of the source unit.
const (
	WeightUnit = "kg"
	HeightUnit = "cm"
)

var vitalCodes = map[string]bool{
	omopcodes.LOINCSystolicBP:  true,
	omopcodes.LOINCDiastolicBP: true,
	omopcodes.LOINCHeartRate:   true,
	omopcodes.LOINCBodyWeight:  true,
	omopcodes.LOINCBodyHeight:  true,
	omopcodes.LOINCTemperature: true,
}

// Vitals keeps the most recent numeric measurement per vital sign. Weight is
// stored in kilograms and height in centimetres; BMI is derived when both
// are present.
func Vitals(ms []*omop.Measurement) patientinfo.Vitals {
	var out patientinfo.Vitals

	var numeric []*omop.Measurement
	for _, m := range ms {
		if m != nil && m.ValueAsNumber != nil && vitalCodes[m.ConceptCode] {
			numeric = append(numeric, m)
		}
	}
	latest := latestBy(numeric,
		func(m *omop.Measurement) string { return m.ConceptCode },
		func(m *omop.Measurement) *time.Time { return m.Date })

	if m, ok := latest[omopcodes.LOINCSystolicBP]; ok {
		out.SystolicBloodPressure = ptr(roundInt(*m.ValueAsNumber))
	}
	if m, ok := latest[omopcodes.LOINCDiastolicBP]; ok {
		out.DiastolicBloodPressure = ptr(roundInt(*m.ValueAsNumber))
	}
	if m, ok := latest[omopcodes.LOINCHeartRate]; ok {
		out.HeartRate = ptr(roundInt(*m.ValueAsNumber))
	}
	if m, ok := latest[omopcodes.LOINCBodyWeight]; ok {
		w := *m.ValueAsNumber
		if isPounds(m.UnitSourceValue) {
			w = PoundsToKilograms(w)
		}
		out.Weight = ptr(w)
		out.WeightUnits = ptr(WeightUnit)
	}
	if m, ok := latest[omopcodes.LOINCBodyHeight]; ok {
		h := *m.ValueAsNumber
		if isInches(m.UnitSourceValue) {
			h = InchesToCentimeters(h)
		}
		out.Height = ptr(h)
		out.HeightUnits = ptr(HeightUnit)
	}
	if m, ok := latest[omopcodes.LOINCTemperature]; ok {
		t := *m.ValueAsNumber
		if isFahrenheit(m.UnitSourceValue) {
			t = FahrenheitToCelsius(t)
		}
		out.BodyTemperature = ptr(t)
	}
	if out.Weight != nil && out.Height != nil {
		if bmi, ok := BMI(*out.Weight, *out.Height); ok {
			out.BMI = ptr(bmi)
		}
	}
	return out
}

func roundInt(v float64) int { return int(math.Round(v)) }

func unit(u *string) string {
	if u == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*u))
}

func isPounds(u *string) bool {
	switch unit(u) {
	case "lb", "lbs", "[lb_av]", "pound", "pounds":
		return true
	}
	return false
}

func isInches(u *string) bool {
	switch unit(u) {
	case "in", "[in_i]", "inch", "inches":
		return true
	}
	return false
}

func isFahrenheit(u *string) bool {
	switch unit(u) {
	case "f", "°f", "degf", "[degf]":
		return true
	}
	return false
}
