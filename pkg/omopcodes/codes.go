// Package omopcodes holds the vocabulary codes and category tags the
// aggregator and the synthetic generator agree on.
package omopcodes

// Vocabulary identifiers as stored in concept.vocabulary_id.
const (
	VocabularyLOINC  = "LOINC"
	VocabularySNOMED = "SNOMED"
	VocabularyGender = "Gender"
	VocabularyRace   = "Race"
)

// Vital sign LOINC codes.
const (
	LOINCSystolicBP  = "8480-6"
	LOINCDiastolicBP = "8462-4"
	LOINCHeartRate   = "8867-4"
	LOINCBodyWeight  = "29463-7"
	LOINCBodyHeight  = "8302-2"
	LOINCTemperature = "8310-5"
)

// Therapy bookkeeping observations. Each treatment line has one intent
// observation; every line except the last has a discontinuation reason.
const (
	LOINCTherapyIntent         = "42804-5"
	LOINCDiscontinuationReason = "91379-3"
)

// Gene mutation LOINC codes, keyed to the gene symbol.
var GeneLOINC = map[string]string{
	"21636-6": "BRCA1",
	"21637-4": "BRCA2",
	"21667-1": "TP53",
	"48013-7": "KRAS",
	"62862-8": "EGFR",
	"62318-1": "PIK3CA",
}

// SNOMED concept ids qualifying a variant's origin.
const (
	ConceptGermline int64 = 255395001
	ConceptSomatic  int64 = 255461003
)

// SNOMED concept ids carrying a variant's clinical interpretation.
const (
	ConceptPathogenic int64 = 30166007
	ConceptBenign     int64 = 10828004
	ConceptVUS        int64 = 42425007
)

// Biomarker type tags (biomarker_measurement.biomarker_type).
const (
	BiomarkerPDL1 = "PD-L1"
	BiomarkerER   = "ER"
	BiomarkerPR   = "PR"
	BiomarkerHER2 = "HER2"
	BiomarkerKi67 = "KI67"
)

// Qualitative biomarker results.
const (
	ResultPositive  = "POSITIVE"
	ResultNegative  = "NEGATIVE"
	ResultEquivocal = "EQUIVOCAL"
)

// Social determinant categories.
const (
	SocialEmployment    = "EMPLOYMENT"
	SocialInsurance     = "INSURANCE"
	SocialEducation     = "EDUCATION"
	SocialMaritalStatus = "MARITAL_STATUS"
)

// Health behavior types and tobacco statuses.
const (
	BehaviorTobaccoUse = "TOBACCO_USE"
	BehaviorAlcoholUse = "ALCOHOL_USE"

	TobaccoNever   = "NEVER"
	TobaccoFormer  = "FORMER"
	TobaccoCurrent = "CURRENT"
)

// Infection types and statuses.
const (
	InfectionHIV        = "HIV"
	InfectionHepatitisB = "HEPATITIS_B"
	InfectionHepatitisC = "HEPATITIS_C"

	InfectionPositive      = "POSITIVE"
	InfectionNegative      = "NEGATIVE"
	InfectionIndeterminate = "INDETERMINATE"
	InfectionUnknown       = "UNKNOWN"
)

// RECIST overall response codes.
const (
	ResponseComplete     = "CR"
	ResponsePartial      = "PR"
	ResponseStable       = "SD"
	ResponseProgressive  = "PD"
	ResponseNotEvaluable = "NE"
)

// ResponseDisplay maps RECIST codes to their display names.
var ResponseDisplay = map[string]string{
	ResponseComplete:     "Complete Response",
	ResponsePartial:      "Partial Response",
	ResponseStable:       "Stable Disease",
	ResponseProgressive:  "Progressive Disease",
	ResponseNotEvaluable: "Not Evaluable",
}

// Treatment intents.
const (
	IntentCurative    = "curative"
	IntentPalliative  = "palliative"
	IntentAdjuvant    = "adjuvant"
	IntentNeoadjuvant = "neoadjuvant"
)
