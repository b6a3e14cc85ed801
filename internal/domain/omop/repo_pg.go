package omop

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ctomop/ctomop/internal/platform/db"
)

// NewReadersPG wires every domain reader to the pool. Calls made with a
// context from db.TxRunner run inside that transaction.
func NewReadersPG(pool *pgxpool.Pool) Readers {
	base := pgBase{pool: pool}
	return Readers{
		Persons:            &personRepoPG{base},
		Conditions:         &conditionRepoPG{base},
		Measurements:       &measurementRepoPG{base},
		Observations:       &observationRepoPG{base},
		TreatmentLines:     &treatmentLineRepoPG{base},
		Biomarkers:         &biomarkerRepoPG{base},
		SocialDeterminants: &socialDeterminantRepoPG{base},
		HealthBehaviors:    &healthBehaviorRepoPG{base},
		Infections:         &infectionStatusRepoPG{base},
		TumorAssessments:   &tumorAssessmentRepoPG{base},
	}
}

type pgBase struct{ pool *pgxpool.Pool }

func (b pgBase) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, b.pool)
}

// collect scans every row with fn and closes rows.
func collect[T any](rows pgx.Rows, err error, fn func(pgx.Row) (*T, error)) ([]*T, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*T
	for rows.Next() {
		item, err := fn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// =========== Person ===========

type personRepoPG struct{ pgBase }

const personCols = `p.person_id, p.year_of_birth, p.month_of_birth, p.day_of_birth,
	p.gender_concept_id, p.race_concept_id, p.ethnicity_concept_id, p.location_id,
	p.primary_language, p.language_skill_level, p.person_source_value,
	g.concept_name, r.concept_name, e.concept_name,
	l.location_id, l.address_1, l.city, l.state, l.zip, l.country, l.latitude, l.longitude`

const personFrom = ` FROM person p
	LEFT JOIN concept g ON g.concept_id = p.gender_concept_id
	LEFT JOIN concept r ON r.concept_id = p.race_concept_id
	LEFT JOIN concept e ON e.concept_id = p.ethnicity_concept_id
	LEFT JOIN location l ON l.location_id = p.location_id`

func scanPerson(row pgx.Row) (*Person, error) {
	var p Person
	var locID *int64
	var l Location
	err := row.Scan(&p.PersonID, &p.YearOfBirth, &p.MonthOfBirth, &p.DayOfBirth,
		&p.GenderConceptID, &p.RaceConceptID, &p.EthnicityConceptID, &p.LocationID,
		&p.PrimaryLanguage, &p.LanguageSkillLevel, &p.PersonSourceValue,
		&p.GenderConceptName, &p.RaceConceptName, &p.EthnicityConceptName,
		&locID, &l.Address1, &l.City, &l.State, &l.Zip, &l.Country, &l.Latitude, &l.Longitude)
	if err != nil {
		return nil, err
	}
	if locID != nil {
		l.LocationID = *locID
		p.Location = &l
	}
	return &p, nil
}

func (r *personRepoPG) GetByID(ctx context.Context, personID int64) (*Person, error) {
	p, err := scanPerson(r.conn(ctx).QueryRow(ctx, `SELECT `+personCols+personFrom+` WHERE p.person_id = $1`, personID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get person %d: %w", personID, err)
	}
	return p, nil
}

func (r *personRepoPG) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT person_id FROM person ORDER BY person_id`)
	if err != nil {
		return nil, fmt.Errorf("list person ids: %w", err)
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// =========== Condition ===========

type conditionRepoPG struct{ pgBase }

const conditionCols = `co.condition_occurrence_id, co.person_id, co.condition_concept_id,
	c.concept_name, c.concept_code, co.condition_start_date, co.condition_end_date,
	co.clinical_stage_group, co.pathologic_stage_group,
	co.clinical_t, co.clinical_n, co.clinical_m, co.pathologic_t, co.pathologic_n, co.pathologic_m,
	co.histology, co.grade, co.primary_site`

func scanCondition(row pgx.Row) (*ConditionOccurrence, error) {
	var c ConditionOccurrence
	err := row.Scan(&c.ConditionOccurrenceID, &c.PersonID, &c.ConceptID,
		&c.ConceptName, &c.ConceptCode, &c.StartDate, &c.EndDate,
		&c.ClinicalStageGroup, &c.PathologicStageGroup,
		&c.ClinicalT, &c.ClinicalN, &c.ClinicalM, &c.PathologicT, &c.PathologicN, &c.PathologicM,
		&c.Histology, &c.Grade, &c.PrimarySite)
	return &c, err
}

func (r *conditionRepoPG) ListByPerson(ctx context.Context, personID int64) ([]*ConditionOccurrence, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+conditionCols+`
		FROM condition_occurrence co JOIN concept c ON c.concept_id = co.condition_concept_id
		WHERE co.person_id = $1
		ORDER BY co.condition_start_date DESC NULLS LAST, co.condition_occurrence_id DESC`, personID)
	out, err := collect(rows, err, scanCondition)
	if err != nil {
		return nil, fmt.Errorf("list conditions for person %d: %w", personID, err)
	}
	return out, nil
}

// =========== Measurement ===========

type measurementRepoPG struct{ pgBase }

const measurementCols = `m.measurement_id, m.person_id, m.measurement_concept_id,
	c.concept_name, c.concept_code, m.measurement_date,
	m.value_as_number, m.value_as_string, m.value_as_concept_id, m.unit_source_value,
	m.range_low, m.range_high, m.qualifier_concept_id, m.qualifier_source_value`

func scanMeasurement(row pgx.Row) (*Measurement, error) {
	var m Measurement
	err := row.Scan(&m.MeasurementID, &m.PersonID, &m.ConceptID,
		&m.ConceptName, &m.ConceptCode, &m.Date,
		&m.ValueAsNumber, &m.ValueAsString, &m.ValueAsConceptID, &m.UnitSourceValue,
		&m.RangeLow, &m.RangeHigh, &m.QualifierConceptID, &m.QualifierSourceValue)
	return &m, err
}

func (r *measurementRepoPG) ListByPerson(ctx context.Context, personID int64) ([]*Measurement, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+measurementCols+`
		FROM measurement m JOIN concept c ON c.concept_id = m.measurement_concept_id
		WHERE m.person_id = $1
		ORDER BY m.measurement_date DESC NULLS LAST, m.measurement_id DESC`, personID)
	out, err := collect(rows, err, scanMeasurement)
	if err != nil {
		return nil, fmt.Errorf("list measurements for person %d: %w", personID, err)
	}
	return out, nil
}

// =========== Observation ===========

type observationRepoPG struct{ pgBase }

const observationCols = `o.observation_id, o.person_id, o.observation_concept_id,
	c.concept_name, c.concept_code, o.observation_date,
	o.value_as_number, o.value_as_string, o.value_as_concept_id, o.qualifier_source_value`

func scanObservation(row pgx.Row) (*Observation, error) {
	var o Observation
	err := row.Scan(&o.ObservationID, &o.PersonID, &o.ConceptID,
		&o.ConceptName, &o.ConceptCode, &o.Date,
		&o.ValueAsNumber, &o.ValueAsString, &o.ValueAsConceptID, &o.QualifierSourceValue)
	return &o, err
}

func (r *observationRepoPG) ListByPerson(ctx context.Context, personID int64) ([]*Observation, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+observationCols+`
		FROM observation o JOIN concept c ON c.concept_id = o.observation_concept_id
		WHERE o.person_id = $1
		ORDER BY o.observation_date DESC NULLS LAST, o.observation_id DESC`, personID)
	out, err := collect(rows, err, scanObservation)
	if err != nil {
		return nil, fmt.Errorf("list observations for person %d: %w", personID, err)
	}
	return out, nil
}

// =========== Treatment line ===========

type treatmentLineRepoPG struct{ pgBase }

const treatmentLineCols = `treatment_line_id, person_id, line_number, regimen_name, intent, response,
	start_date, end_date, discontinuation_reason,
	is_platinum, is_immunotherapy, is_chemotherapy, is_targeted`

func scanTreatmentLine(row pgx.Row) (*TreatmentLine, error) {
	var t TreatmentLine
	err := row.Scan(&t.TreatmentLineID, &t.PersonID, &t.LineNumber, &t.RegimenName, &t.Intent, &t.Response,
		&t.StartDate, &t.EndDate, &t.DiscontinuationReason,
		&t.IsPlatinum, &t.IsImmunotherapy, &t.IsChemotherapy, &t.IsTargeted)
	return &t, err
}

func (r *treatmentLineRepoPG) ListByPerson(ctx context.Context, personID int64) ([]*TreatmentLine, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+treatmentLineCols+`
		FROM treatment_line WHERE person_id = $1 ORDER BY line_number`, personID)
	out, err := collect(rows, err, scanTreatmentLine)
	if err != nil {
		return nil, fmt.Errorf("list treatment lines for person %d: %w", personID, err)
	}
	return out, nil
}

// =========== Biomarker ===========

type biomarkerRepoPG struct{ pgBase }

const biomarkerCols = `biomarker_measurement_id, person_id, biomarker_type, qualitative_result,
	quantitative_result, assay_method, measurement_date`

func scanBiomarker(row pgx.Row) (*BiomarkerMeasurement, error) {
	var b BiomarkerMeasurement
	err := row.Scan(&b.BiomarkerMeasurementID, &b.PersonID, &b.BiomarkerType, &b.QualitativeResult,
		&b.QuantitativeResult, &b.AssayMethod, &b.Date)
	return &b, err
}

func (r *biomarkerRepoPG) ListByPerson(ctx context.Context, personID int64) ([]*BiomarkerMeasurement, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+biomarkerCols+`
		FROM biomarker_measurement WHERE person_id = $1
		ORDER BY measurement_date DESC NULLS LAST, biomarker_measurement_id DESC`, personID)
	out, err := collect(rows, err, scanBiomarker)
	if err != nil {
		return nil, fmt.Errorf("list biomarkers for person %d: %w", personID, err)
	}
	return out, nil
}

// =========== Social determinant ===========

type socialDeterminantRepoPG struct{ pgBase }

func scanSocialDeterminant(row pgx.Row) (*SocialDeterminant, error) {
	var s SocialDeterminant
	err := row.Scan(&s.SocialDeterminantID, &s.PersonID, &s.Category, &s.Value, &s.Date)
	return &s, err
}

func (r *socialDeterminantRepoPG) ListByPerson(ctx context.Context, personID int64) ([]*SocialDeterminant, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT social_determinant_id, person_id, category, value, assessment_date
		FROM social_determinant WHERE person_id = $1
		ORDER BY assessment_date DESC NULLS LAST, social_determinant_id DESC`, personID)
	out, err := collect(rows, err, scanSocialDeterminant)
	if err != nil {
		return nil, fmt.Errorf("list social determinants for person %d: %w", personID, err)
	}
	return out, nil
}

// =========== Health behavior ===========

type healthBehaviorRepoPG struct{ pgBase }

func scanHealthBehavior(row pgx.Row) (*HealthBehavior, error) {
	var h HealthBehavior
	err := row.Scan(&h.HealthBehaviorID, &h.PersonID, &h.BehaviorType, &h.Status, &h.Details, &h.PackYears, &h.Date)
	return &h, err
}

func (r *healthBehaviorRepoPG) ListByPerson(ctx context.Context, personID int64) ([]*HealthBehavior, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT health_behavior_id, person_id, behavior_type, status, details, pack_years, assessment_date
		FROM health_behavior WHERE person_id = $1
		ORDER BY assessment_date DESC NULLS LAST, health_behavior_id DESC`, personID)
	out, err := collect(rows, err, scanHealthBehavior)
	if err != nil {
		return nil, fmt.Errorf("list health behaviors for person %d: %w", personID, err)
	}
	return out, nil
}

// =========== Infection status ===========

type infectionStatusRepoPG struct{ pgBase }

func scanInfectionStatus(row pgx.Row) (*InfectionStatus, error) {
	var i InfectionStatus
	err := row.Scan(&i.InfectionStatusID, &i.PersonID, &i.InfectionType, &i.Status, &i.Date)
	return &i, err
}

func (r *infectionStatusRepoPG) ListByPerson(ctx context.Context, personID int64) ([]*InfectionStatus, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT infection_status_id, person_id, infection_type, status, test_date
		FROM infection_status WHERE person_id = $1
		ORDER BY test_date DESC NULLS LAST, infection_status_id DESC`, personID)
	out, err := collect(rows, err, scanInfectionStatus)
	if err != nil {
		return nil, fmt.Errorf("list infection statuses for person %d: %w", personID, err)
	}
	return out, nil
}

// =========== Tumor assessment ===========

type tumorAssessmentRepoPG struct{ pgBase }

func scanTumorAssessment(row pgx.Row) (*TumorAssessment, error) {
	var t TumorAssessment
	err := row.Scan(&t.TumorAssessmentID, &t.PersonID, &t.Date, &t.OverallResponse, &t.TargetLesionSum)
	return &t, err
}

func (r *tumorAssessmentRepoPG) ListByPerson(ctx context.Context, personID int64) ([]*TumorAssessment, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT tumor_assessment_id, person_id, assessment_date, overall_response, target_lesion_sum
		FROM tumor_assessment WHERE person_id = $1
		ORDER BY assessment_date DESC NULLS LAST, tumor_assessment_id DESC`, personID)
	out, err := collect(rows, err, scanTumorAssessment)
	if err != nil {
		return nil, fmt.Errorf("list tumor assessments for person %d: %w", personID, err)
	}
	return out, nil
}
