package patientinfo

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func validMutation() GeneticMutation {
	return GeneticMutation{Gene: "brca1", Variant: "c.68_69delAG", Origin: OriginGermline, Interpretation: InterpretationPathogenic}
}

func TestGeneticMutation_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *GeneticMutation)
		wantErr string
	}{
		{"valid", func(m *GeneticMutation) {}, ""},
		{"missing gene", func(m *GeneticMutation) { m.Gene = "" }, "gene is required"},
		{"uppercase gene", func(m *GeneticMutation) { m.Gene = "BRCA1" }, "must be lowercase"},
		{"missing variant", func(m *GeneticMutation) { m.Variant = "" }, "variant is required"},
		{"missing origin", func(m *GeneticMutation) { m.Origin = "" }, "origin is required"},
		{"bad origin", func(m *GeneticMutation) { m.Origin = "inherited" }, "invalid origin"},
		{"missing interpretation", func(m *GeneticMutation) { m.Interpretation = "" }, "interpretation is required"},
		{"bad interpretation", func(m *GeneticMutation) { m.Interpretation = "likely" }, "invalid interpretation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMutation()
			tt.mutate(&m)
			err := m.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDecodeMutations(t *testing.T) {
	ms, err := DecodeMutations([]byte(`[{"gene":"tp53","variant":"R175H","origin":"somatic","interpretation":"vus","test_date":"2024-02-01","assay_method":"NGS"}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ms) != 1 || ms[0].TestDate == nil || ms[0].TestDate.Month() != time.February {
		t.Errorf("unexpected decode result %+v", ms)
	}

	_, err = DecodeMutations([]byte(`[{"gene":"tp53","variant":"R175H","interpretation":"vus"}]`))
	if err == nil || !strings.Contains(err.Error(), "genetic_mutations[0]") {
		t.Errorf("expected indexed origin error, got %v", err)
	}

	_, err = DecodeMutations([]byte(`[{"gene":"tp53","variant":"R175H","origin":"germline","interpretation":"vus","test_date":"02/01/2024"}]`))
	if err == nil {
		t.Error("expected error for malformed test_date")
	}
}

func TestDate_MarshalJSON(t *testing.T) {
	d := NewDate(time.Date(2024, 2, 1, 15, 4, 5, 0, time.UTC))
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-02-01"` {
		t.Errorf("expected date-only encoding, got %s", b)
	}
}

func TestParseOriginAndInterpretation(t *testing.T) {
	if o, err := ParseOrigin(" Germline "); err != nil || o != OriginGermline {
		t.Errorf("ParseOrigin = %q, %v", o, err)
	}
	if _, err := ParseOrigin("maternal"); err == nil {
		t.Error("expected error for unknown origin")
	}
	if i, err := ParseInterpretation("VUS"); err != nil || i != InterpretationVUS {
		t.Errorf("ParseInterpretation = %q, %v", i, err)
	}
	if _, err := ParseInterpretation("likely pathogenic"); err == nil {
		t.Error("expected error for unknown interpretation")
	}
}
