package extract

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func intPtr(i int) *int { return &i }

func TestAge(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month *int
		day   *int
		asOf  time.Time
		want  int
	}{
		{"day before birthday", 2000, intPtr(3), intPtr(15), date(2024, 3, 14), 23},
		{"on birthday", 2000, intPtr(3), intPtr(15), date(2024, 3, 15), 24},
		{"earlier month", 2000, intPtr(3), intPtr(15), date(2024, 2, 28), 23},
		{"later month", 2000, intPtr(3), intPtr(15), date(2024, 4, 1), 24},
		{"missing day counts as first", 2000, intPtr(3), nil, date(2024, 3, 1), 24},
		{"missing month and day", 2000, nil, nil, date(2024, 1, 1), 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Age(tt.year, tt.month, tt.day, tt.asOf); got != tt.want {
				t.Errorf("Age() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPoundsToKilograms(t *testing.T) {
	if got := PoundsToKilograms(150); got != 68.0389 {
		t.Errorf("PoundsToKilograms(150) = %v, want 68.0389", got)
	}
}

func TestInchesToCentimeters(t *testing.T) {
	if got := InchesToCentimeters(65); got != 165.1 {
		t.Errorf("InchesToCentimeters(65) = %v, want 165.1", got)
	}
}

func TestBMI(t *testing.T) {
	got, ok := BMI(68.5, 165)
	if !ok {
		t.Fatal("expected BMI to be computed")
	}
	if got != 25.16 {
		t.Errorf("BMI(68.5, 165) = %v, want 25.16", got)
	}
	if _, ok := BMI(70, 0); ok {
		t.Error("expected zero height to yield no BMI")
	}
}

func TestFahrenheitToCelsius(t *testing.T) {
	if got := FahrenheitToCelsius(98.6); got != 37 {
		t.Errorf("FahrenheitToCelsius(98.6) = %v, want 37", got)
	}
}

func TestLatest(t *testing.T) {
	type rec struct {
		id   int
		date *time.Time
	}
	dateOf := func(r rec) *time.Time { return r.date }

	if _, ok := Latest([]rec{}, dateOf); ok {
		t.Error("expected no result for empty input")
	}

	items := []rec{
		{1, nil},
		{2, datePtr(2023, 1, 1)},
		{3, datePtr(2024, 6, 1)},
		{4, datePtr(2024, 6, 1)},
		{5, nil},
	}
	got, ok := Latest(items, dateOf)
	if !ok || got.id != 3 {
		t.Errorf("Latest() = %+v, want id 3 (first of the tied latest)", got)
	}

	undated := []rec{{7, nil}, {8, nil}}
	got, _ = Latest(undated, dateOf)
	if got.id != 7 {
		t.Errorf("Latest(undated) = %d, want first item", got.id)
	}
}
