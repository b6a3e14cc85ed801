package omop

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type writerPG struct{ pgBase }

func NewWriterPG(pool *pgxpool.Pool) Writer {
	return &writerPG{pgBase{pool: pool}}
}

func (w *writerPG) UpsertConcept(ctx context.Context, c *Concept) error {
	_, err := w.conn(ctx).Exec(ctx, `
		INSERT INTO concept (concept_id, concept_name, domain_id, vocabulary_id, concept_code)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (concept_id) DO UPDATE SET
			concept_name = EXCLUDED.concept_name, domain_id = EXCLUDED.domain_id,
			vocabulary_id = EXCLUDED.vocabulary_id, concept_code = EXCLUDED.concept_code`,
		c.ConceptID, c.ConceptName, c.DomainID, c.VocabularyID, c.ConceptCode)
	if err != nil {
		return fmt.Errorf("upsert concept %d: %w", c.ConceptID, err)
	}
	return nil
}

func (w *writerPG) CreateLocation(ctx context.Context, l *Location) error {
	return w.conn(ctx).QueryRow(ctx, `
		INSERT INTO location (address_1, city, state, zip, country, latitude, longitude)
		VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING location_id`,
		l.Address1, l.City, l.State, l.Zip, l.Country, l.Latitude, l.Longitude).Scan(&l.LocationID)
}

func (w *writerPG) CreatePerson(ctx context.Context, p *Person) error {
	if p.Location != nil && p.LocationID == nil {
		if err := w.CreateLocation(ctx, p.Location); err != nil {
			return fmt.Errorf("create location: %w", err)
		}
		p.LocationID = &p.Location.LocationID
	}
	return w.conn(ctx).QueryRow(ctx, `
		INSERT INTO person (year_of_birth, month_of_birth, day_of_birth,
			gender_concept_id, race_concept_id, ethnicity_concept_id, location_id,
			primary_language, language_skill_level, person_source_value)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING person_id`,
		p.YearOfBirth, p.MonthOfBirth, p.DayOfBirth,
		p.GenderConceptID, p.RaceConceptID, p.EthnicityConceptID, p.LocationID,
		p.PrimaryLanguage, p.LanguageSkillLevel, p.PersonSourceValue).Scan(&p.PersonID)
}

func (w *writerPG) CreateCondition(ctx context.Context, c *ConditionOccurrence) error {
	return w.conn(ctx).QueryRow(ctx, `
		INSERT INTO condition_occurrence (person_id, condition_concept_id, condition_start_date, condition_end_date,
			clinical_stage_group, pathologic_stage_group, clinical_t, clinical_n, clinical_m,
			pathologic_t, pathologic_n, pathologic_m, histology, grade, primary_site)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15) RETURNING condition_occurrence_id`,
		c.PersonID, c.ConceptID, c.StartDate, c.EndDate,
		c.ClinicalStageGroup, c.PathologicStageGroup, c.ClinicalT, c.ClinicalN, c.ClinicalM,
		c.PathologicT, c.PathologicN, c.PathologicM, c.Histology, c.Grade, c.PrimarySite,
	).Scan(&c.ConditionOccurrenceID)
}

func (w *writerPG) CreateMeasurement(ctx context.Context, m *Measurement) error {
	return w.conn(ctx).QueryRow(ctx, `
		INSERT INTO measurement (person_id, measurement_concept_id, measurement_date,
			value_as_number, value_as_string, value_as_concept_id, unit_source_value,
			range_low, range_high, qualifier_concept_id, qualifier_source_value)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11) RETURNING measurement_id`,
		m.PersonID, m.ConceptID, m.Date,
		m.ValueAsNumber, m.ValueAsString, m.ValueAsConceptID, m.UnitSourceValue,
		m.RangeLow, m.RangeHigh, m.QualifierConceptID, m.QualifierSourceValue,
	).Scan(&m.MeasurementID)
}

func (w *writerPG) CreateObservation(ctx context.Context, o *Observation) error {
	return w.conn(ctx).QueryRow(ctx, `
		INSERT INTO observation (person_id, observation_concept_id, observation_date,
			value_as_number, value_as_string, value_as_concept_id, qualifier_source_value)
		VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING observation_id`,
		o.PersonID, o.ConceptID, o.Date,
		o.ValueAsNumber, o.ValueAsString, o.ValueAsConceptID, o.QualifierSourceValue,
	).Scan(&o.ObservationID)
}

func (w *writerPG) CreateTreatmentLine(ctx context.Context, t *TreatmentLine) error {
	return w.conn(ctx).QueryRow(ctx, `
		INSERT INTO treatment_line (person_id, line_number, regimen_name, intent, response,
			start_date, end_date, discontinuation_reason,
			is_platinum, is_immunotherapy, is_chemotherapy, is_targeted)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12) RETURNING treatment_line_id`,
		t.PersonID, t.LineNumber, t.RegimenName, t.Intent, t.Response,
		t.StartDate, t.EndDate, t.DiscontinuationReason,
		t.IsPlatinum, t.IsImmunotherapy, t.IsChemotherapy, t.IsTargeted,
	).Scan(&t.TreatmentLineID)
}

func (w *writerPG) CreateBiomarker(ctx context.Context, b *BiomarkerMeasurement) error {
	return w.conn(ctx).QueryRow(ctx, `
		INSERT INTO biomarker_measurement (person_id, biomarker_type, qualitative_result,
			quantitative_result, assay_method, measurement_date)
		VALUES ($1,$2,$3,$4,$5,$6) RETURNING biomarker_measurement_id`,
		b.PersonID, b.BiomarkerType, b.QualitativeResult, b.QuantitativeResult, b.AssayMethod, b.Date,
	).Scan(&b.BiomarkerMeasurementID)
}

func (w *writerPG) CreateSocialDeterminant(ctx context.Context, s *SocialDeterminant) error {
	return w.conn(ctx).QueryRow(ctx, `
		INSERT INTO social_determinant (person_id, category, value, assessment_date)
		VALUES ($1,$2,$3,$4) RETURNING social_determinant_id`,
		s.PersonID, s.Category, s.Value, s.Date,
	).Scan(&s.SocialDeterminantID)
}

func (w *writerPG) CreateHealthBehavior(ctx context.Context, h *HealthBehavior) error {
	return w.conn(ctx).QueryRow(ctx, `
		INSERT INTO health_behavior (person_id, behavior_type, status, details, pack_years, assessment_date)
		VALUES ($1,$2,$3,$4,$5,$6) RETURNING health_behavior_id`,
		h.PersonID, h.BehaviorType, h.Status, h.Details, h.PackYears, h.Date,
	).Scan(&h.HealthBehaviorID)
}

func (w *writerPG) CreateInfectionStatus(ctx context.Context, i *InfectionStatus) error {
	return w.conn(ctx).QueryRow(ctx, `
		INSERT INTO infection_status (person_id, infection_type, status, test_date)
		VALUES ($1,$2,$3,$4) RETURNING infection_status_id`,
		i.PersonID, i.InfectionType, i.Status, i.Date,
	).Scan(&i.InfectionStatusID)
}

func (w *writerPG) CreateTumorAssessment(ctx context.Context, t *TumorAssessment) error {
	return w.conn(ctx).QueryRow(ctx, `
		INSERT INTO tumor_assessment (person_id, assessment_date, overall_response, target_lesion_sum)
		VALUES ($1,$2,$3,$4) RETURNING tumor_assessment_id`,
		t.PersonID, t.Date, t.OverallResponse, t.TargetLesionSum,
	).Scan(&t.TumorAssessmentID)
}
