// Package omoptest provides an in-memory OMOP source store for tests.
package omoptest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ctomop/ctomop/internal/domain/omop"
)

// Store implements omop.Writer and every omop reader over maps. Concept
// names and codes are resolved from upserted concepts, like the SQL joins.
type Store struct {
	mu       sync.Mutex
	nextID   int64
	concepts map[int64]*omop.Concept
	persons  map[int64]*omop.Person
	records  map[int64]*omop.Record

	// FailPerson makes every reader return Err for that person id.
	FailPerson map[int64]error
}

func NewStore() *Store {
	return &Store{
		concepts:   make(map[int64]*omop.Concept),
		persons:    make(map[int64]*omop.Person),
		records:    make(map[int64]*omop.Record),
		FailPerson: make(map[int64]error),
	}
}

// Readers returns the store viewed through the per-domain read interfaces.
func (s *Store) Readers() omop.Readers {
	return omop.Readers{
		Persons:            s,
		Conditions:         conditions{s},
		Measurements:       measurements{s},
		Observations:       observations{s},
		TreatmentLines:     treatmentLines{s},
		Biomarkers:         biomarkers{s},
		SocialDeterminants: socials{s},
		HealthBehaviors:    behaviors{s},
		Infections:         infections{s},
		TumorAssessments:   assessments{s},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) record(personID int64) *omop.Record {
	r, ok := s.records[personID]
	if !ok {
		r = &omop.Record{Person: s.persons[personID]}
		s.records[personID] = r
	}
	return r
}

func (s *Store) conceptName(id int64) (string, string) {
	if c, ok := s.concepts[id]; ok {
		return c.ConceptName, c.ConceptCode
	}
	return "", ""
}

// -- Writer --

func (s *Store) UpsertConcept(_ context.Context, c *omop.Concept) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.concepts[c.ConceptID] = &cp
	return nil
}

func (s *Store) CreateLocation(_ context.Context, l *omop.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.LocationID = s.id()
	return nil
}

func (s *Store) CreatePerson(ctx context.Context, p *omop.Person) error {
	if p.Location != nil && p.LocationID == nil {
		if err := s.CreateLocation(ctx, p.Location); err != nil {
			return err
		}
		p.LocationID = &p.Location.LocationID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.PersonID == 0 {
		p.PersonID = s.id()
	}
	s.persons[p.PersonID] = p
	s.record(p.PersonID)
	return nil
}

func (s *Store) CreateCondition(_ context.Context, c *omop.ConditionOccurrence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ConditionOccurrenceID = s.id()
	r := s.record(c.PersonID)
	r.Conditions = append(r.Conditions, c)
	return nil
}

func (s *Store) CreateMeasurement(_ context.Context, m *omop.Measurement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.MeasurementID = s.id()
	r := s.record(m.PersonID)
	r.Measurements = append(r.Measurements, m)
	return nil
}

func (s *Store) CreateObservation(_ context.Context, o *omop.Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ObservationID = s.id()
	r := s.record(o.PersonID)
	r.Observations = append(r.Observations, o)
	return nil
}

func (s *Store) CreateTreatmentLine(_ context.Context, t *omop.TreatmentLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.TreatmentLineID = s.id()
	r := s.record(t.PersonID)
	r.TreatmentLines = append(r.TreatmentLines, t)
	return nil
}

func (s *Store) CreateBiomarker(_ context.Context, b *omop.BiomarkerMeasurement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.BiomarkerMeasurementID = s.id()
	r := s.record(b.PersonID)
	r.Biomarkers = append(r.Biomarkers, b)
	return nil
}

func (s *Store) CreateSocialDeterminant(_ context.Context, sd *omop.SocialDeterminant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sd.SocialDeterminantID = s.id()
	r := s.record(sd.PersonID)
	r.SocialDeterminants = append(r.SocialDeterminants, sd)
	return nil
}

func (s *Store) CreateHealthBehavior(_ context.Context, h *omop.HealthBehavior) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h.HealthBehaviorID = s.id()
	r := s.record(h.PersonID)
	r.HealthBehaviors = append(r.HealthBehaviors, h)
	return nil
}

func (s *Store) CreateInfectionStatus(_ context.Context, i *omop.InfectionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i.InfectionStatusID = s.id()
	r := s.record(i.PersonID)
	r.Infections = append(r.Infections, i)
	return nil
}

func (s *Store) CreateTumorAssessment(_ context.Context, t *omop.TumorAssessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.TumorAssessmentID = s.id()
	r := s.record(t.PersonID)
	r.TumorAssessments = append(r.TumorAssessments, t)
	return nil
}

// -- Readers --

func (s *Store) GetByID(_ context.Context, personID int64) (*omop.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.FailPerson[personID]; err != nil {
		return nil, err
	}
	p, ok := s.persons[personID]
	if !ok {
		return nil, omop.ErrNotFound
	}
	cp := *p
	if p.GenderConceptID != nil {
		name, _ := s.conceptName(*p.GenderConceptID)
		cp.GenderConceptName = &name
	}
	if p.RaceConceptID != nil {
		name, _ := s.conceptName(*p.RaceConceptID)
		cp.RaceConceptName = &name
	}
	if p.EthnicityConceptID != nil {
		name, _ := s.conceptName(*p.EthnicityConceptID)
		cp.EthnicityConceptName = &name
	}
	return &cp, nil
}

func (s *Store) ListIDs(_ context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.persons))
	for id := range s.persons {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// byDateDesc mirrors the SQL ordering: newest first, undated last, then id desc.
func byDateDesc[T any](items []*T, date func(*T) *time.Time, id func(*T) int64) []*T {
	out := append([]*T(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := date(out[i]), date(out[j])
		switch {
		case di == nil && dj == nil:
			return id(out[i]) > id(out[j])
		case di == nil:
			return false
		case dj == nil:
			return true
		case !di.Equal(*dj):
			return di.After(*dj)
		}
		return id(out[i]) > id(out[j])
	})
	return out
}

func (s *Store) load(personID int64) (*omop.Record, error) {
	if err := s.FailPerson[personID]; err != nil {
		return nil, err
	}
	return s.record(personID), nil
}

type conditions struct{ s *Store }

func (r conditions) ListByPerson(_ context.Context, personID int64) ([]*omop.ConditionOccurrence, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, err := r.s.load(personID)
	if err != nil {
		return nil, err
	}
	for _, c := range rec.Conditions {
		c.ConceptName, c.ConceptCode = r.s.conceptName(c.ConceptID)
	}
	return byDateDesc(rec.Conditions,
		func(c *omop.ConditionOccurrence) *time.Time { return c.StartDate },
		func(c *omop.ConditionOccurrence) int64 { return c.ConditionOccurrenceID }), nil
}

type measurements struct{ s *Store }

func (r measurements) ListByPerson(_ context.Context, personID int64) ([]*omop.Measurement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, err := r.s.load(personID)
	if err != nil {
		return nil, err
	}
	for _, m := range rec.Measurements {
		m.ConceptName, m.ConceptCode = r.s.conceptName(m.ConceptID)
	}
	return byDateDesc(rec.Measurements,
		func(m *omop.Measurement) *time.Time { return m.Date },
		func(m *omop.Measurement) int64 { return m.MeasurementID }), nil
}

type observations struct{ s *Store }

func (r observations) ListByPerson(_ context.Context, personID int64) ([]*omop.Observation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, err := r.s.load(personID)
	if err != nil {
		return nil, err
	}
	for _, o := range rec.Observations {
		o.ConceptName, o.ConceptCode = r.s.conceptName(o.ConceptID)
	}
	return byDateDesc(rec.Observations,
		func(o *omop.Observation) *time.Time { return o.Date },
		func(o *omop.Observation) int64 { return o.ObservationID }), nil
}

type treatmentLines struct{ s *Store }

func (r treatmentLines) ListByPerson(_ context.Context, personID int64) ([]*omop.TreatmentLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, err := r.s.load(personID)
	if err != nil {
		return nil, err
	}
	out := append([]*omop.TreatmentLine(nil), rec.TreatmentLines...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].LineNumber < out[j].LineNumber })
	return out, nil
}

type biomarkers struct{ s *Store }

func (r biomarkers) ListByPerson(_ context.Context, personID int64) ([]*omop.BiomarkerMeasurement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, err := r.s.load(personID)
	if err != nil {
		return nil, err
	}
	return byDateDesc(rec.Biomarkers,
		func(b *omop.BiomarkerMeasurement) *time.Time { return b.Date },
		func(b *omop.BiomarkerMeasurement) int64 { return b.BiomarkerMeasurementID }), nil
}

type socials struct{ s *Store }

func (r socials) ListByPerson(_ context.Context, personID int64) ([]*omop.SocialDeterminant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, err := r.s.load(personID)
	if err != nil {
		return nil, err
	}
	return byDateDesc(rec.SocialDeterminants,
		func(sd *omop.SocialDeterminant) *time.Time { return sd.Date },
		func(sd *omop.SocialDeterminant) int64 { return sd.SocialDeterminantID }), nil
}

type behaviors struct{ s *Store }

func (r behaviors) ListByPerson(_ context.Context, personID int64) ([]*omop.HealthBehavior, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, err := r.s.load(personID)
	if err != nil {
		return nil, err
	}
	return byDateDesc(rec.HealthBehaviors,
		func(h *omop.HealthBehavior) *time.Time { return h.Date },
		func(h *omop.HealthBehavior) int64 { return h.HealthBehaviorID }), nil
}

type infections struct{ s *Store }

func (r infections) ListByPerson(_ context.Context, personID int64) ([]*omop.InfectionStatus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, err := r.s.load(personID)
	if err != nil {
		return nil, err
	}
	return byDateDesc(rec.Infections,
		func(i *omop.InfectionStatus) *time.Time { return i.Date },
		func(i *omop.InfectionStatus) int64 { return i.InfectionStatusID }), nil
}

type assessments struct{ s *Store }

func (r assessments) ListByPerson(_ context.Context, personID int64) ([]*omop.TumorAssessment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, err := r.s.load(personID)
	if err != nil {
		return nil, err
	}
	return byDateDesc(rec.TumorAssessments,
		func(t *omop.TumorAssessment) *time.Time { return t.Date },
		func(t *omop.TumorAssessment) int64 { return t.TumorAssessmentID }), nil
}
