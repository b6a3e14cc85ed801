package sandbox

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ctomop/ctomop/internal/domain/omop"
	"github.com/ctomop/ctomop/internal/domain/omop/omoptest"
	"github.com/ctomop/ctomop/internal/extract"
)

var reference = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func testConfig(n int) SeedConfig {
	cfg := DefaultSeedConfig()
	cfg.PatientCount = n
	cfg.Seed = 42
	cfg.Reference = reference
	return cfg
}

func TestDataGenerator_Deterministic(t *testing.T) {
	a, b := NewDataGenerator(testConfig(1)), NewDataGenerator(testConfig(1))
	for i := 0; i < 10; i++ {
		ja, _ := json.Marshal(a.GenerateRecord())
		jb, _ := json.Marshal(b.GenerateRecord())
		if !bytes.Equal(ja, jb) {
			t.Fatalf("record %d differs between generators with the same seed", i)
		}
	}

	other := testConfig(1)
	other.Seed = 7
	ja, _ := json.Marshal(NewDataGenerator(testConfig(1)).GenerateRecord())
	jc, _ := json.Marshal(NewDataGenerator(other).GenerateRecord())
	if bytes.Equal(ja, jc) {
		t.Error("expected different seeds to produce different records")
	}
}

func TestDataGenerator_RecordsAreValid(t *testing.T) {
	g := NewDataGenerator(testConfig(0))
	for i := 0; i < 200; i++ {
		rec := g.GenerateRecord()
		if err := omop.ValidateRecord(rec); err != nil {
			t.Fatalf("record %d invalid: %v", i, err)
		}
		if len(rec.TreatmentLines) > DefaultSeedConfig().MaxLines {
			t.Fatalf("record %d has %d lines", i, len(rec.TreatmentLines))
		}
		for j, l := range rec.TreatmentLines {
			if l.LineNumber != j+1 {
				t.Fatalf("record %d: lines not numbered consecutively", i)
			}
			last := j == len(rec.TreatmentLines)-1
			if last != (l.DiscontinuationReason == nil) {
				t.Fatalf("record %d line %d: only the last line may lack a discontinuation reason", i, l.LineNumber)
			}
		}
	}
}

func TestCatalog_UniqueIDs(t *testing.T) {
	seen := map[int64]bool{}
	for _, c := range Catalog() {
		if seen[c.ConceptID] {
			t.Errorf("duplicate concept id %d", c.ConceptID)
		}
		seen[c.ConceptID] = true
		if c.ConceptCode == "" || c.ConceptName == "" {
			t.Errorf("concept %d is missing code or name", c.ConceptID)
		}
	}
}

// Every concept id a generated record points at must be in the catalog,
// since the measurement and person tables carry foreign keys to concept.
func TestCatalog_CoversGeneratedReferences(t *testing.T) {
	known := map[int64]bool{}
	for _, c := range Catalog() {
		known[c.ConceptID] = true
	}
	check := func(what string, id *int64) {
		if id != nil && !known[*id] {
			t.Errorf("%s references concept %d missing from the catalog", what, *id)
		}
	}

	g := NewDataGenerator(testConfig(0))
	for i := 0; i < 100; i++ {
		rec := g.GenerateRecord()
		check("gender", rec.Person.GenderConceptID)
		check("race", rec.Person.RaceConceptID)
		check("ethnicity", rec.Person.EthnicityConceptID)
		for _, c := range rec.Conditions {
			check("condition", &c.ConceptID)
		}
		for _, m := range rec.Measurements {
			check("measurement", &m.ConceptID)
			check("measurement qualifier", m.QualifierConceptID)
			check("measurement value", m.ValueAsConceptID)
		}
		for _, o := range rec.Observations {
			check("observation", &o.ConceptID)
			check("observation value", o.ValueAsConceptID)
		}
	}
}

func TestSeeder_Generate(t *testing.T) {
	store := omoptest.NewStore()
	svc := omop.NewService(store.Readers(), store)
	s := NewSeeder(svc, testConfig(25), zerolog.Nop())

	result, err := s.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Patients != 25 || result.Concepts != len(Catalog()) {
		t.Errorf("unexpected result %+v", result)
	}

	checks, err := svc.CheckTherapy(context.Background(), nil)
	if err != nil {
		t.Fatalf("CheckTherapy: %v", err)
	}
	if len(checks) != 25 {
		t.Fatalf("expected 25 checks, got %d", len(checks))
	}
	for _, c := range checks {
		if !c.Consistent() {
			t.Errorf("person %d violates the therapy rule: %+v", c.PersonID, c)
		}
	}

	// Seeded data feeds the extractors without dropping mutations.
	readers := store.Readers()
	for _, c := range checks {
		rec, err := readers.LoadRecord(context.Background(), c.PersonID)
		if err != nil {
			t.Fatalf("LoadRecord(%d): %v", c.PersonID, err)
		}
		info, issues := extract.Build(rec, reference)
		if len(issues.Mutations) != 0 {
			t.Errorf("person %d: unexpected mutation issues %v", c.PersonID, issues.Mutations)
		}
		if info.Disease.Disease == nil {
			t.Errorf("person %d: expected a primary cancer", c.PersonID)
		}
		if info.Gender == nil || *info.Gender == "U" {
			t.Errorf("person %d: expected a resolved gender", c.PersonID)
		}
		if len(issues.Units) != 0 {
			t.Errorf("person %d: generated lab units should match the stored labels: %v", c.PersonID, issues.Units)
		}
	}
}

func TestExportNDJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportNDJSON(&buf, testConfig(5)); err != nil {
		t.Fatalf("ExportNDJSON: %v", err)
	}
	sc := bufio.NewScanner(&buf)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	lines := 0
	for sc.Scan() {
		var rec omop.Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("line %d: %v", lines+1, err)
		}
		if rec.Person == nil {
			t.Fatalf("line %d has no person", lines+1)
		}
		lines++
	}
	if lines != 5 {
		t.Errorf("expected 5 lines, got %d", lines)
	}
}
