package omop

import "context"

// Read side: one interface per clinical domain. Every ListByPerson returns
// records ordered by date descending, undated records last.

type PersonReader interface {
	GetByID(ctx context.Context, personID int64) (*Person, error)
	ListIDs(ctx context.Context) ([]int64, error)
}

type ConditionReader interface {
	ListByPerson(ctx context.Context, personID int64) ([]*ConditionOccurrence, error)
}

type MeasurementReader interface {
	ListByPerson(ctx context.Context, personID int64) ([]*Measurement, error)
}

type ObservationReader interface {
	ListByPerson(ctx context.Context, personID int64) ([]*Observation, error)
}

// TreatmentLineReader returns lines ordered by line number ascending.
type TreatmentLineReader interface {
	ListByPerson(ctx context.Context, personID int64) ([]*TreatmentLine, error)
}

type BiomarkerReader interface {
	ListByPerson(ctx context.Context, personID int64) ([]*BiomarkerMeasurement, error)
}

type SocialDeterminantReader interface {
	ListByPerson(ctx context.Context, personID int64) ([]*SocialDeterminant, error)
}

type HealthBehaviorReader interface {
	ListByPerson(ctx context.Context, personID int64) ([]*HealthBehavior, error)
}

type InfectionStatusReader interface {
	ListByPerson(ctx context.Context, personID int64) ([]*InfectionStatus, error)
}

type TumorAssessmentReader interface {
	ListByPerson(ctx context.Context, personID int64) ([]*TumorAssessment, error)
}

// Readers groups the per-domain read interfaces.
type Readers struct {
	Persons            PersonReader
	Conditions         ConditionReader
	Measurements       MeasurementReader
	Observations       ObservationReader
	TreatmentLines     TreatmentLineReader
	Biomarkers         BiomarkerReader
	SocialDeterminants SocialDeterminantReader
	HealthBehaviors    HealthBehaviorReader
	Infections         InfectionStatusReader
	TumorAssessments   TumorAssessmentReader
}

// LoadRecord reads every domain for one person. A missing person yields ErrNotFound.
func (r Readers) LoadRecord(ctx context.Context, personID int64) (*Record, error) {
	p, err := r.Persons.GetByID(ctx, personID)
	if err != nil {
		return nil, err
	}
	rec := &Record{Person: p}
	if rec.Conditions, err = r.Conditions.ListByPerson(ctx, personID); err != nil {
		return nil, err
	}
	if rec.Measurements, err = r.Measurements.ListByPerson(ctx, personID); err != nil {
		return nil, err
	}
	if rec.Observations, err = r.Observations.ListByPerson(ctx, personID); err != nil {
		return nil, err
	}
	if rec.TreatmentLines, err = r.TreatmentLines.ListByPerson(ctx, personID); err != nil {
		return nil, err
	}
	if rec.Biomarkers, err = r.Biomarkers.ListByPerson(ctx, personID); err != nil {
		return nil, err
	}
	if rec.SocialDeterminants, err = r.SocialDeterminants.ListByPerson(ctx, personID); err != nil {
		return nil, err
	}
	if rec.HealthBehaviors, err = r.HealthBehaviors.ListByPerson(ctx, personID); err != nil {
		return nil, err
	}
	if rec.Infections, err = r.Infections.ListByPerson(ctx, personID); err != nil {
		return nil, err
	}
	if rec.TumorAssessments, err = r.TumorAssessments.ListByPerson(ctx, personID); err != nil {
		return nil, err
	}
	return rec, nil
}

// Writer stores source records. Only the synthetic generator writes; the
// aggregator never does.
type Writer interface {
	UpsertConcept(ctx context.Context, c *Concept) error
	CreateLocation(ctx context.Context, l *Location) error
	CreatePerson(ctx context.Context, p *Person) error
	CreateCondition(ctx context.Context, c *ConditionOccurrence) error
	CreateMeasurement(ctx context.Context, m *Measurement) error
	CreateObservation(ctx context.Context, o *Observation) error
	CreateTreatmentLine(ctx context.Context, t *TreatmentLine) error
	CreateBiomarker(ctx context.Context, b *BiomarkerMeasurement) error
	CreateSocialDeterminant(ctx context.Context, s *SocialDeterminant) error
	CreateHealthBehavior(ctx context.Context, h *HealthBehavior) error
	CreateInfectionStatus(ctx context.Context, i *InfectionStatus) error
	CreateTumorAssessment(ctx context.Context, t *TumorAssessment) error
}
