package patientinfo

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Origin string

const (
	OriginGermline Origin = "germline"
	OriginSomatic  Origin = "somatic"
)

func ParseOrigin(s string) (Origin, error) {
	switch o := Origin(strings.ToLower(strings.TrimSpace(s))); o {
	case OriginGermline, OriginSomatic:
		return o, nil
	}
	return "", fmt.Errorf("invalid origin %q: must be germline or somatic", s)
}

type Interpretation string

const (
	InterpretationPathogenic Interpretation = "pathogenic"
	InterpretationBenign     Interpretation = "benign"
	InterpretationVUS        Interpretation = "vus"
)

func ParseInterpretation(s string) (Interpretation, error) {
	switch i := Interpretation(strings.ToLower(strings.TrimSpace(s))); i {
	case InterpretationPathogenic, InterpretationBenign, InterpretationVUS:
		return i, nil
	}
	return "", fmt.Errorf("invalid interpretation %q: must be pathogenic, benign or vus", s)
}

// GeneticMutation is one reported variant. Gene, Variant, Origin and
// Interpretation are required; gene symbols are stored lowercase.
type GeneticMutation struct {
	Gene           string         `json:"gene"`
	Variant        string         `json:"variant"`
	Origin         Origin         `json:"origin"`
	Interpretation Interpretation `json:"interpretation"`
	TestDate       *Date          `json:"test_date,omitempty"`
	AssayMethod    *string        `json:"assay_method,omitempty"`
}

func (m GeneticMutation) Validate() error {
	if m.Gene == "" {
		return fmt.Errorf("gene is required")
	}
	if m.Gene != strings.ToLower(m.Gene) {
		return fmt.Errorf("gene %q must be lowercase", m.Gene)
	}
	if m.Variant == "" {
		return fmt.Errorf("variant is required for gene %s", m.Gene)
	}
	switch m.Origin {
	case OriginGermline, OriginSomatic:
	case "":
		return fmt.Errorf("origin is required for %s %s", m.Gene, m.Variant)
	default:
		return fmt.Errorf("invalid origin %q for %s %s", m.Origin, m.Gene, m.Variant)
	}
	switch m.Interpretation {
	case InterpretationPathogenic, InterpretationBenign, InterpretationVUS:
	case "":
		return fmt.Errorf("interpretation is required for %s %s", m.Gene, m.Variant)
	default:
		return fmt.Errorf("invalid interpretation %q for %s %s", m.Interpretation, m.Gene, m.Variant)
	}
	return nil
}

// ValidateMutations returns the first invalid entry's error, prefixed with its index.
func ValidateMutations(ms []GeneticMutation) error {
	for i, m := range ms {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("genetic_mutations[%d]: %w", i, err)
		}
	}
	return nil
}

// DecodeMutations parses a JSON list and validates every entry.
func DecodeMutations(data []byte) ([]GeneticMutation, error) {
	var ms []GeneticMutation
	if err := json.Unmarshal(data, &ms); err != nil {
		return nil, fmt.Errorf("decode genetic_mutations: %w", err)
	}
	if err := ValidateMutations(ms); err != nil {
		return nil, err
	}
	return ms, nil
}

// Date is a calendar date that marshals as YYYY-MM-DD.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func NewDate(t time.Time) *Date {
	return &Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}
