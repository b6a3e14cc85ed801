package omop

import (
	"context"
	"errors"
	"fmt"

	"github.com/ctomop/ctomop/pkg/omopcodes"
)

type Service struct {
	readers Readers
	writer  Writer
}

func NewService(readers Readers, writer Writer) *Service {
	return &Service{readers: readers, writer: writer}
}

// -- Record ingestion --

var validInfectionStatuses = map[string]bool{
	omopcodes.InfectionPositive: true, omopcodes.InfectionNegative: true,
	omopcodes.InfectionIndeterminate: true, omopcodes.InfectionUnknown: true,
}

// ValidateRecord checks the structural rules a stored record must follow.
func ValidateRecord(rec *Record) error {
	if rec == nil || rec.Person == nil {
		return fmt.Errorf("person is required")
	}
	if rec.Person.YearOfBirth <= 0 {
		return fmt.Errorf("year_of_birth is required")
	}
	if m := rec.Person.MonthOfBirth; m != nil && (*m < 1 || *m > 12) {
		return fmt.Errorf("invalid month_of_birth: %d", *m)
	}
	if d := rec.Person.DayOfBirth; d != nil && (*d < 1 || *d > 31) {
		return fmt.Errorf("invalid day_of_birth: %d", *d)
	}
	seen := make(map[int]bool)
	for _, t := range rec.TreatmentLines {
		if t.LineNumber <= 0 {
			return fmt.Errorf("line_number must be positive, got %d", t.LineNumber)
		}
		if seen[t.LineNumber] {
			return fmt.Errorf("duplicate line_number %d", t.LineNumber)
		}
		seen[t.LineNumber] = true
	}
	for _, b := range rec.Biomarkers {
		if b.BiomarkerType == "" {
			return fmt.Errorf("biomarker_type is required")
		}
	}
	for _, i := range rec.Infections {
		if !validInfectionStatuses[i.Status] {
			return fmt.Errorf("invalid infection status: %s", i.Status)
		}
	}
	return nil
}

// WriteRecord stores a person and every attached source record, assigning
// the new person id to the children.
func (s *Service) WriteRecord(ctx context.Context, rec *Record) error {
	if err := ValidateRecord(rec); err != nil {
		return err
	}
	if err := s.writer.CreatePerson(ctx, rec.Person); err != nil {
		return fmt.Errorf("create person: %w", err)
	}
	pid := rec.Person.PersonID

	for _, c := range rec.Conditions {
		c.PersonID = pid
		if err := s.writer.CreateCondition(ctx, c); err != nil {
			return fmt.Errorf("create condition: %w", err)
		}
	}
	for _, m := range rec.Measurements {
		m.PersonID = pid
		if err := s.writer.CreateMeasurement(ctx, m); err != nil {
			return fmt.Errorf("create measurement: %w", err)
		}
	}
	for _, o := range rec.Observations {
		o.PersonID = pid
		if err := s.writer.CreateObservation(ctx, o); err != nil {
			return fmt.Errorf("create observation: %w", err)
		}
	}
	for _, t := range rec.TreatmentLines {
		t.PersonID = pid
		if err := s.writer.CreateTreatmentLine(ctx, t); err != nil {
			return fmt.Errorf("create treatment line: %w", err)
		}
	}
	for _, b := range rec.Biomarkers {
		b.PersonID = pid
		if err := s.writer.CreateBiomarker(ctx, b); err != nil {
			return fmt.Errorf("create biomarker: %w", err)
		}
	}
	for _, sd := range rec.SocialDeterminants {
		sd.PersonID = pid
		if err := s.writer.CreateSocialDeterminant(ctx, sd); err != nil {
			return fmt.Errorf("create social determinant: %w", err)
		}
	}
	for _, h := range rec.HealthBehaviors {
		h.PersonID = pid
		if err := s.writer.CreateHealthBehavior(ctx, h); err != nil {
			return fmt.Errorf("create health behavior: %w", err)
		}
	}
	for _, i := range rec.Infections {
		i.PersonID = pid
		if err := s.writer.CreateInfectionStatus(ctx, i); err != nil {
			return fmt.Errorf("create infection status: %w", err)
		}
	}
	for _, t := range rec.TumorAssessments {
		t.PersonID = pid
		if err := s.writer.CreateTumorAssessment(ctx, t); err != nil {
			return fmt.Errorf("create tumor assessment: %w", err)
		}
	}
	return nil
}

// UpsertConcepts stores vocabulary rows.
func (s *Service) UpsertConcepts(ctx context.Context, concepts []*Concept) error {
	for _, c := range concepts {
		if c.ConceptCode == "" {
			return fmt.Errorf("concept_code is required for concept %d", c.ConceptID)
		}
		if err := s.writer.UpsertConcept(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// -- Therapy consistency --

// TherapyCheck reports, for one person, how many treatment lines exist and
// how many intent and discontinuation observations back them.
type TherapyCheck struct {
	PersonID                    int64 `json:"person_id"`
	TreatmentLines              int   `json:"treatment_lines"`
	IntentObservations          int   `json:"intent_observations"`
	DiscontinuationObservations int   `json:"discontinuation_observations"`
}

// Consistent holds when a person with N lines has N intent observations and
// N-1 discontinuation observations. A person without lines needs neither.
func (t TherapyCheck) Consistent() bool {
	if t.TreatmentLines == 0 {
		return t.IntentObservations == 0 && t.DiscontinuationObservations == 0
	}
	return t.IntentObservations == t.TreatmentLines &&
		t.DiscontinuationObservations == t.TreatmentLines-1
}

func CheckTherapy(personID int64, lines []*TreatmentLine, observations []*Observation) TherapyCheck {
	tc := TherapyCheck{PersonID: personID, TreatmentLines: len(lines)}
	for _, o := range observations {
		switch o.ConceptCode {
		case omopcodes.LOINCTherapyIntent:
			tc.IntentObservations++
		case omopcodes.LOINCDiscontinuationReason:
			tc.DiscontinuationObservations++
		}
	}
	return tc
}

// CheckTherapy runs the consistency check for the given persons, or every
// person when personIDs is empty.
func (s *Service) CheckTherapy(ctx context.Context, personIDs []int64) ([]TherapyCheck, error) {
	ids := personIDs
	if len(ids) == 0 {
		var err error
		if ids, err = s.readers.Persons.ListIDs(ctx); err != nil {
			return nil, err
		}
	}

	out := make([]TherapyCheck, 0, len(ids))
	for _, id := range ids {
		if _, err := s.readers.Persons.GetByID(ctx, id); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("person %d: %w", id, err)
			}
			return nil, err
		}
		lines, err := s.readers.TreatmentLines.ListByPerson(ctx, id)
		if err != nil {
			return nil, err
		}
		obs, err := s.readers.Observations.ListByPerson(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, CheckTherapy(id, lines, obs))
	}
	return out, nil
}
