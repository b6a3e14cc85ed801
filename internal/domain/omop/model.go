package omop

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("omop: record not found")

// Concept is a row of the OMOP vocabulary.
type Concept struct {
	ConceptID    int64  `db:"concept_id" json:"concept_id"`
	ConceptName  string `db:"concept_name" json:"concept_name"`
	DomainID     string `db:"domain_id" json:"domain_id"`
	VocabularyID string `db:"vocabulary_id" json:"vocabulary_id"`
	ConceptCode  string `db:"concept_code" json:"concept_code"`
}

type Location struct {
	LocationID int64    `db:"location_id" json:"location_id"`
	Address1   *string  `db:"address_1" json:"address_1,omitempty"`
	City       *string  `db:"city" json:"city,omitempty"`
	State      *string  `db:"state" json:"state,omitempty"`
	Zip        *string  `db:"zip" json:"zip,omitempty"`
	Country    *string  `db:"country" json:"country,omitempty"`
	Latitude   *float64 `db:"latitude" json:"latitude,omitempty"`
	Longitude  *float64 `db:"longitude" json:"longitude,omitempty"`
}

// Person carries the demographic attributes plus the concept names the
// repository joins in, and the linked location when there is one.
type Person struct {
	PersonID             int64     `db:"person_id" json:"person_id"`
	YearOfBirth          int       `db:"year_of_birth" json:"year_of_birth"`
	MonthOfBirth         *int      `db:"month_of_birth" json:"month_of_birth,omitempty"`
	DayOfBirth           *int      `db:"day_of_birth" json:"day_of_birth,omitempty"`
	GenderConceptID      *int64    `db:"gender_concept_id" json:"gender_concept_id,omitempty"`
	RaceConceptID        *int64    `db:"race_concept_id" json:"race_concept_id,omitempty"`
	EthnicityConceptID   *int64    `db:"ethnicity_concept_id" json:"ethnicity_concept_id,omitempty"`
	LocationID           *int64    `db:"location_id" json:"location_id,omitempty"`
	PrimaryLanguage      *string   `db:"primary_language" json:"primary_language,omitempty"`
	LanguageSkillLevel   *string   `db:"language_skill_level" json:"language_skill_level,omitempty"`
	PersonSourceValue    *string   `db:"person_source_value" json:"person_source_value,omitempty"`
	GenderConceptName    *string   `db:"-" json:"gender_concept_name,omitempty"`
	RaceConceptName      *string   `db:"-" json:"race_concept_name,omitempty"`
	EthnicityConceptName *string   `db:"-" json:"ethnicity_concept_name,omitempty"`
	Location             *Location `db:"-" json:"location,omitempty"`
}

// ConditionOccurrence is a diagnosis with its staging attributes.
type ConditionOccurrence struct {
	ConditionOccurrenceID int64      `db:"condition_occurrence_id" json:"condition_occurrence_id"`
	PersonID              int64      `db:"person_id" json:"person_id"`
	ConceptID             int64      `db:"condition_concept_id" json:"condition_concept_id"`
	ConceptName           string     `db:"-" json:"concept_name"`
	ConceptCode           string     `db:"-" json:"concept_code"`
	StartDate             *time.Time `db:"condition_start_date" json:"condition_start_date,omitempty"`
	EndDate               *time.Time `db:"condition_end_date" json:"condition_end_date,omitempty"`
	ClinicalStageGroup    *string    `db:"clinical_stage_group" json:"clinical_stage_group,omitempty"`
	PathologicStageGroup  *string    `db:"pathologic_stage_group" json:"pathologic_stage_group,omitempty"`
	ClinicalT             *string    `db:"clinical_t" json:"clinical_t,omitempty"`
	ClinicalN             *string    `db:"clinical_n" json:"clinical_n,omitempty"`
	ClinicalM             *string    `db:"clinical_m" json:"clinical_m,omitempty"`
	PathologicT           *string    `db:"pathologic_t" json:"pathologic_t,omitempty"`
	PathologicN           *string    `db:"pathologic_n" json:"pathologic_n,omitempty"`
	PathologicM           *string    `db:"pathologic_m" json:"pathologic_m,omitempty"`
	Histology             *string    `db:"histology" json:"histology,omitempty"`
	Grade                 *string    `db:"grade" json:"grade,omitempty"`
	PrimarySite           *string    `db:"primary_site" json:"primary_site,omitempty"`
}

// Measurement covers labs, vitals and gene tests.
type Measurement struct {
	MeasurementID        int64      `db:"measurement_id" json:"measurement_id"`
	PersonID             int64      `db:"person_id" json:"person_id"`
	ConceptID            int64      `db:"measurement_concept_id" json:"measurement_concept_id"`
	ConceptName          string     `db:"-" json:"concept_name"`
	ConceptCode          string     `db:"-" json:"concept_code"`
	Date                 *time.Time `db:"measurement_date" json:"measurement_date,omitempty"`
	ValueAsNumber        *float64   `db:"value_as_number" json:"value_as_number,omitempty"`
	ValueAsString        *string    `db:"value_as_string" json:"value_as_string,omitempty"`
	ValueAsConceptID     *int64     `db:"value_as_concept_id" json:"value_as_concept_id,omitempty"`
	UnitSourceValue      *string    `db:"unit_source_value" json:"unit_source_value,omitempty"`
	RangeLow             *float64   `db:"range_low" json:"range_low,omitempty"`
	RangeHigh            *float64   `db:"range_high" json:"range_high,omitempty"`
	QualifierConceptID   *int64     `db:"qualifier_concept_id" json:"qualifier_concept_id,omitempty"`
	QualifierSourceValue *string    `db:"qualifier_source_value" json:"qualifier_source_value,omitempty"`
}

type Observation struct {
	ObservationID        int64      `db:"observation_id" json:"observation_id"`
	PersonID             int64      `db:"person_id" json:"person_id"`
	ConceptID            int64      `db:"observation_concept_id" json:"observation_concept_id"`
	ConceptName          string     `db:"-" json:"concept_name"`
	ConceptCode          string     `db:"-" json:"concept_code"`
	Date                 *time.Time `db:"observation_date" json:"observation_date,omitempty"`
	ValueAsNumber        *float64   `db:"value_as_number" json:"value_as_number,omitempty"`
	ValueAsString        *string    `db:"value_as_string" json:"value_as_string,omitempty"`
	ValueAsConceptID     *int64     `db:"value_as_concept_id" json:"value_as_concept_id,omitempty"`
	QualifierSourceValue *string    `db:"qualifier_source_value" json:"qualifier_source_value,omitempty"`
}

type TreatmentLine struct {
	TreatmentLineID       int64      `db:"treatment_line_id" json:"treatment_line_id"`
	PersonID              int64      `db:"person_id" json:"person_id"`
	LineNumber            int        `db:"line_number" json:"line_number"`
	RegimenName           *string    `db:"regimen_name" json:"regimen_name,omitempty"`
	Intent                *string    `db:"intent" json:"intent,omitempty"`
	Response              *string    `db:"response" json:"response,omitempty"`
	StartDate             *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate               *time.Time `db:"end_date" json:"end_date,omitempty"`
	DiscontinuationReason *string    `db:"discontinuation_reason" json:"discontinuation_reason,omitempty"`
	IsPlatinum            bool       `db:"is_platinum" json:"is_platinum"`
	IsImmunotherapy       bool       `db:"is_immunotherapy" json:"is_immunotherapy"`
	IsChemotherapy        bool       `db:"is_chemotherapy" json:"is_chemotherapy"`
	IsTargeted            bool       `db:"is_targeted" json:"is_targeted"`
}

type BiomarkerMeasurement struct {
	BiomarkerMeasurementID int64      `db:"biomarker_measurement_id" json:"biomarker_measurement_id"`
	PersonID               int64      `db:"person_id" json:"person_id"`
	BiomarkerType          string     `db:"biomarker_type" json:"biomarker_type"`
	QualitativeResult      *string    `db:"qualitative_result" json:"qualitative_result,omitempty"`
	QuantitativeResult     *float64   `db:"quantitative_result" json:"quantitative_result,omitempty"`
	AssayMethod            *string    `db:"assay_method" json:"assay_method,omitempty"`
	Date                   *time.Time `db:"measurement_date" json:"measurement_date,omitempty"`
}

type SocialDeterminant struct {
	SocialDeterminantID int64      `db:"social_determinant_id" json:"social_determinant_id"`
	PersonID            int64      `db:"person_id" json:"person_id"`
	Category            string     `db:"category" json:"category"`
	Value               *string    `db:"value" json:"value,omitempty"`
	Date                *time.Time `db:"assessment_date" json:"assessment_date,omitempty"`
}

type HealthBehavior struct {
	HealthBehaviorID int64      `db:"health_behavior_id" json:"health_behavior_id"`
	PersonID         int64      `db:"person_id" json:"person_id"`
	BehaviorType     string     `db:"behavior_type" json:"behavior_type"`
	Status           *string    `db:"status" json:"status,omitempty"`
	Details          *string    `db:"details" json:"details,omitempty"`
	PackYears        *float64   `db:"pack_years" json:"pack_years,omitempty"`
	Date             *time.Time `db:"assessment_date" json:"assessment_date,omitempty"`
}

type InfectionStatus struct {
	InfectionStatusID int64      `db:"infection_status_id" json:"infection_status_id"`
	PersonID          int64      `db:"person_id" json:"person_id"`
	InfectionType     string     `db:"infection_type" json:"infection_type"`
	Status            string     `db:"status" json:"status"`
	Date              *time.Time `db:"test_date" json:"test_date,omitempty"`
}

type TumorAssessment struct {
	TumorAssessmentID int64      `db:"tumor_assessment_id" json:"tumor_assessment_id"`
	PersonID          int64      `db:"person_id" json:"person_id"`
	Date              *time.Time `db:"assessment_date" json:"assessment_date,omitempty"`
	OverallResponse   *string    `db:"overall_response" json:"overall_response,omitempty"`
	TargetLesionSum   *float64   `db:"target_lesion_sum" json:"target_lesion_sum,omitempty"`
}

// Record bundles everything stored for one person. The aggregator loads it
// per patient and the synthetic generator produces it.
type Record struct {
	Person             *Person                 `json:"person"`
	Conditions         []*ConditionOccurrence  `json:"conditions,omitempty"`
	Measurements       []*Measurement          `json:"measurements,omitempty"`
	Observations       []*Observation          `json:"observations,omitempty"`
	TreatmentLines     []*TreatmentLine        `json:"treatment_lines,omitempty"`
	Biomarkers         []*BiomarkerMeasurement `json:"biomarkers,omitempty"`
	SocialDeterminants []*SocialDeterminant    `json:"social_determinants,omitempty"`
	HealthBehaviors    []*HealthBehavior       `json:"health_behaviors,omitempty"`
	Infections         []*InfectionStatus      `json:"infections,omitempty"`
	TumorAssessments   []*TumorAssessment      `json:"tumor_assessments,omitempty"`
}
