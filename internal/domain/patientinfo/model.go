package patientinfo

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("patient info not found")
	// ErrInvalidFilter wraps every rejected query parameter.
	ErrInvalidFilter = errors.New("invalid filter")
)

// PatientInfo is the denormalized per-patient summary. Each embedded section
// is filled by exactly one extractor, so sections never overlap. A nil
// pointer means the field could not be derived.
type PatientInfo struct {
	PersonID int64 `json:"person_id"`

	Demographics
	Geography
	Disease
	Treatment
	Vitals
	Biomarkers
	Social
	Behavior
	Infections
	Assessment
	Labs
	Performance

	GeneticMutations []GeneticMutation `json:"genetic_mutations"`
	LastUpdated      time.Time         `json:"last_updated"`
}

type Demographics struct {
	PatientAge         *int    `json:"patient_age,omitempty"`
	Gender             *string `json:"gender,omitempty"`
	Ethnicity          *string `json:"ethnicity,omitempty"`
	Languages          *string `json:"languages,omitempty"`
	LanguageSkillLevel *string `json:"language_skill_level,omitempty"`
}

type Geography struct {
	Country    *string  `json:"country,omitempty"`
	Region     *string  `json:"region,omitempty"`
	PostalCode *string  `json:"postal_code,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

type Disease struct {
	Disease                *string    `json:"disease,omitempty"`
	DiagnosisDate          *time.Time `json:"diagnosis_date,omitempty"`
	Stage                  *string    `json:"stage,omitempty"`
	TumorStage             *string    `json:"tumor_stage,omitempty"`
	NodesStage             *string    `json:"nodes_stage,omitempty"`
	DistantMetastasisStage *string    `json:"distant_metastasis_stage,omitempty"`
	HistologicType         *string    `json:"histologic_type,omitempty"`
	PrimarySite            *string    `json:"primary_site,omitempty"`
	TumorGrade             *int       `json:"tumor_grade,omitempty"`
	Metastatic             *bool      `json:"metastatic,omitempty"`
}

// Treatment summarizes therapy lines. Lines after the second are folded
// into the Later* fields, which loses per-line detail for 4+ lines.
type Treatment struct {
	FirstLineTherapy         *string    `json:"first_line_therapy,omitempty"`
	FirstLineDate            *time.Time `json:"first_line_date,omitempty"`
	FirstLineOutcome         *string    `json:"first_line_outcome,omitempty"`
	SecondLineTherapy        *string    `json:"second_line_therapy,omitempty"`
	SecondLineDate           *time.Time `json:"second_line_date,omitempty"`
	SecondLineOutcome        *string    `json:"second_line_outcome,omitempty"`
	LaterTherapy             *string    `json:"later_therapy,omitempty"`
	LaterDate                *time.Time `json:"later_date,omitempty"`
	LaterOutcome             *string    `json:"later_outcome,omitempty"`
	TherapyLinesCount        *int       `json:"therapy_lines_count,omitempty"`
	PriorTherapy             *string    `json:"prior_therapy,omitempty"`
	PriorPlatinum            *bool      `json:"prior_platinum,omitempty"`
	PriorImmunotherapy       *bool      `json:"prior_immunotherapy,omitempty"`
	PriorChemotherapy        *bool      `json:"prior_chemotherapy,omitempty"`
	PriorTargetedTherapy     *bool      `json:"prior_targeted_therapy,omitempty"`
	TherapyIntent            *string    `json:"therapy_intent,omitempty"`
	ReasonForDiscontinuation *string    `json:"reason_for_discontinuation,omitempty"`
}

type Vitals struct {
	SystolicBloodPressure  *int     `json:"systolic_blood_pressure,omitempty"`
	DiastolicBloodPressure *int     `json:"diastolic_blood_pressure,omitempty"`
	HeartRate              *int     `json:"heartrate,omitempty"`
	Weight                 *float64 `json:"weight,omitempty"`
	WeightUnits            *string  `json:"weight_units,omitempty"`
	Height                 *float64 `json:"height,omitempty"`
	HeightUnits            *string  `json:"height_units,omitempty"`
	BMI                    *float64 `json:"bmi,omitempty"`
	BodyTemperature        *float64 `json:"body_temperature,omitempty"`
}

type Biomarkers struct {
	PDL1TumorCells             *int     `json:"pd_l1_tumor_cells,omitempty"`
	PDL1Assay                  *string  `json:"pd_l1_assay,omitempty"`
	EstrogenReceptorStatus     *string  `json:"estrogen_receptor_status,omitempty"`
	ProgesteroneReceptorStatus *string  `json:"progesterone_receptor_status,omitempty"`
	HER2Status                 *string  `json:"her2_status,omitempty"`
	Ki67Percentage             *float64 `json:"ki67_percentage,omitempty"`
	TNBCStatus                 *bool    `json:"tnbc_status,omitempty"`
}

type Social struct {
	EmploymentStatus *string `json:"employment_status,omitempty"`
	InsuranceType    *string `json:"insurance_type,omitempty"`
	EducationLevel   *string `json:"education_level,omitempty"`
	MaritalStatus    *string `json:"marital_status,omitempty"`
}

type Behavior struct {
	TobaccoUseStatus   *string  `json:"tobacco_use_status,omitempty"`
	NoTobaccoUseStatus *bool    `json:"no_tobacco_use_status,omitempty"`
	TobaccoUseDetails  *string  `json:"tobacco_use_details,omitempty"`
	TobaccoPackYears   *float64 `json:"tobacco_pack_years,omitempty"`
	AlcoholUse         *string  `json:"alcohol_use,omitempty"`
}

// Infections holds paired flags. When set, X and NoX are always opposite.
type Infections struct {
	HIVStatus          *bool `json:"hiv_status,omitempty"`
	NoHIVStatus        *bool `json:"no_hiv_status,omitempty"`
	HepatitisBStatus   *bool `json:"hepatitis_b_status,omitempty"`
	NoHepatitisBStatus *bool `json:"no_hepatitis_b_status,omitempty"`
	HepatitisCStatus   *bool `json:"hepatitis_c_status,omitempty"`
	NoHepatitisCStatus *bool `json:"no_hepatitis_c_status,omitempty"`
}

type Assessment struct {
	BestResponse                    *string    `json:"best_response,omitempty"`
	ResponseDate                    *time.Time `json:"response_date,omitempty"`
	TumorLesionSum                  *float64   `json:"tumor_lesion_sum,omitempty"`
	MeasurableDiseaseByRECISTStatus *bool      `json:"measurable_disease_by_recist_status,omitempty"`
}

type Labs struct {
	HemoglobinLevel               *float64 `json:"hemoglobin_level,omitempty"`
	HemoglobinLevelUnits          *string  `json:"hemoglobin_level_units,omitempty"`
	PlateletCount                 *float64 `json:"platelet_count,omitempty"`
	PlateletCountUnits            *string  `json:"platelet_count_units,omitempty"`
	SerumCreatinineLevel          *float64 `json:"serum_creatinine_level,omitempty"`
	SerumCreatinineLevelUnits     *string  `json:"serum_creatinine_level_units,omitempty"`
	SerumCalciumLevel             *float64 `json:"serum_calcium_level,omitempty"`
	SerumCalciumLevelUnits        *string  `json:"serum_calcium_level_units,omitempty"`
	SerumBilirubinLevelTotal      *float64 `json:"serum_bilirubin_level_total,omitempty"`
	SerumBilirubinLevelTotalUnits *string  `json:"serum_bilirubin_level_total_units,omitempty"`
	AlbuminLevel                  *float64 `json:"albumin_level,omitempty"`
	AlbuminLevelUnits             *string  `json:"albumin_level_units,omitempty"`
}

type Performance struct {
	ECOGPerformanceStatus     *int `json:"ecog_performance_status,omitempty"`
	KarnofskyPerformanceScore *int `json:"karnofsky_performance_score,omitempty"`
}

// Filter narrows List. Empty fields match everything.
type Filter struct {
	PersonID       *int64
	Disease        string // case-insensitive substring
	Gene           string
	Origin         Origin
	Interpretation Interpretation
}
