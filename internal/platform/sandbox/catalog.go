package sandbox

import (
	"github.com/ctomop/ctomop/internal/domain/omop"
	"github.com/ctomop/ctomop/pkg/omopcodes"
)

// Concept ids at or above 2000000000 are local, per OMOP convention; the rest
// are standard vocabulary ids.
const (
	conceptMale   int64 = 8507
	conceptFemale int64 = 8532

	conceptWhite int64 = 8527
	conceptBlack int64 = 8516
	conceptAsian int64 = 8515

	conceptHispanic    int64 = 38003563
	conceptNotHispanic int64 = 38003564

	conceptECOG      int64 = 2000000101
	conceptKarnofsky int64 = 2000000102
	conceptIntent    int64 = 2000000103
	conceptDiscont   int64 = 2000000104
)

type labDef struct {
	conceptID int64
	code      string
	name      string
	unit      string
	low, high float64
}

type vitalDef struct {
	conceptID int64
	code      string
	name      string
}

type conditionDef struct {
	conceptID int64
	code      string
	name      string
	cancer    bool
	site      string
	histology string
}

var (
	vitals = []vitalDef{
		{3004249, omopcodes.LOINCSystolicBP, "Systolic blood pressure"},
		{3012888, omopcodes.LOINCDiastolicBP, "Diastolic blood pressure"},
		{3027018, omopcodes.LOINCHeartRate, "Heart rate"},
		{3025315, omopcodes.LOINCBodyWeight, "Body weight"},
		{3036277, omopcodes.LOINCBodyHeight, "Body height"},
		{3020891, omopcodes.LOINCTemperature, "Body temperature"},
	}

	labs = []labDef{
		{3000963, "718-7", "Hemoglobin [Mass/volume] in Blood", "g/dL", 9, 17},
		{3024929, "777-3", "Platelets [#/volume] in Blood by Automated count", "cells/uL", 120000, 420000},
		{3016723, "2160-0", "Creatinine [Mass/volume] in Serum or Plasma", "mg/dL", 0.5, 1.8},
		{3006906, "17861-6", "Calcium [Mass/volume] in Serum or Plasma", "mg/dL", 8.2, 10.6},
		{3024128, "1975-2", "Bilirubin.total [Mass/volume] in Serum or Plasma", "mg/dL", 0.2, 1.6},
		{3024561, "1751-7", "Albumin [Mass/volume] in Serum or Plasma", "g/dL", 2.8, 5.0},
	}

	conditions = []conditionDef{
		{4112853, "254837009", "Breast cancer", true, "Breast", "Invasive ductal carcinoma"},
		{4115276, "254637007", "Non-small cell lung cancer", true, "Lung", "Adenocarcinoma"},
		{4180790, "363406005", "Colorectal cancer", true, "Colon", "Adenocarcinoma"},
		{4163261, "399068003", "Prostate cancer", true, "Prostate", "Acinar adenocarcinoma"},
		{320128, "59621000", "Essential hypertension", false, "", ""},
		{201826, "44054006", "Type 2 diabetes mellitus", false, "", ""},
	}

	// geneConcepts follows omopcodes.GeneLOINC in a fixed order.
	geneConcepts = []struct {
		conceptID int64
		code      string
	}{
		{2000000201, "21636-6"},
		{2000000202, "21637-4"},
		{2000000203, "21667-1"},
		{2000000204, "48013-7"},
		{2000000205, "62862-8"},
		{2000000206, "62318-1"},
	}
)

// Catalog returns every concept generated records reference.
func Catalog() []*omop.Concept {
	c := []*omop.Concept{
		{ConceptID: conceptMale, ConceptName: "MALE", DomainID: "Gender", VocabularyID: omopcodes.VocabularyGender, ConceptCode: "M"},
		{ConceptID: conceptFemale, ConceptName: "FEMALE", DomainID: "Gender", VocabularyID: omopcodes.VocabularyGender, ConceptCode: "F"},
		{ConceptID: conceptWhite, ConceptName: "White", DomainID: "Race", VocabularyID: omopcodes.VocabularyRace, ConceptCode: "5"},
		{ConceptID: conceptBlack, ConceptName: "Black or African American", DomainID: "Race", VocabularyID: omopcodes.VocabularyRace, ConceptCode: "3"},
		{ConceptID: conceptAsian, ConceptName: "Asian", DomainID: "Race", VocabularyID: omopcodes.VocabularyRace, ConceptCode: "2"},
		{ConceptID: conceptHispanic, ConceptName: "Hispanic or Latino", DomainID: "Ethnicity", VocabularyID: "Ethnicity", ConceptCode: "Hispanic"},
		{ConceptID: conceptNotHispanic, ConceptName: "Not Hispanic or Latino", DomainID: "Ethnicity", VocabularyID: "Ethnicity", ConceptCode: "Not Hispanic"},
		{ConceptID: conceptECOG, ConceptName: "ECOG performance status", DomainID: "Observation", VocabularyID: omopcodes.VocabularyLOINC, ConceptCode: "89247-1"},
		{ConceptID: conceptKarnofsky, ConceptName: "Karnofsky performance status", DomainID: "Observation", VocabularyID: omopcodes.VocabularyLOINC, ConceptCode: "89243-0"},
		{ConceptID: conceptIntent, ConceptName: "Therapy intent", DomainID: "Observation", VocabularyID: omopcodes.VocabularyLOINC, ConceptCode: omopcodes.LOINCTherapyIntent},
		{ConceptID: conceptDiscont, ConceptName: "Reason for therapy discontinuation", DomainID: "Observation", VocabularyID: omopcodes.VocabularyLOINC, ConceptCode: omopcodes.LOINCDiscontinuationReason},

		// Variant origin qualifiers and interpretation values referenced by gene tests.
		{ConceptID: omopcodes.ConceptGermline, ConceptName: "Germline", DomainID: "Meas Value Operator", VocabularyID: omopcodes.VocabularySNOMED, ConceptCode: "255395001"},
		{ConceptID: omopcodes.ConceptSomatic, ConceptName: "Somatic", DomainID: "Meas Value Operator", VocabularyID: omopcodes.VocabularySNOMED, ConceptCode: "255461003"},
		{ConceptID: omopcodes.ConceptPathogenic, ConceptName: "Pathogenic", DomainID: "Meas Value", VocabularyID: omopcodes.VocabularySNOMED, ConceptCode: "30166007"},
		{ConceptID: omopcodes.ConceptBenign, ConceptName: "Benign", DomainID: "Meas Value", VocabularyID: omopcodes.VocabularySNOMED, ConceptCode: "10828004"},
		{ConceptID: omopcodes.ConceptVUS, ConceptName: "Variant of uncertain significance", DomainID: "Meas Value", VocabularyID: omopcodes.VocabularySNOMED, ConceptCode: "42425007"},
	}
	for _, v := range vitals {
		c = append(c, &omop.Concept{ConceptID: v.conceptID, ConceptName: v.name, DomainID: "Measurement", VocabularyID: omopcodes.VocabularyLOINC, ConceptCode: v.code})
	}
	for _, l := range labs {
		c = append(c, &omop.Concept{ConceptID: l.conceptID, ConceptName: l.name, DomainID: "Measurement", VocabularyID: omopcodes.VocabularyLOINC, ConceptCode: l.code})
	}
	for _, d := range conditions {
		c = append(c, &omop.Concept{ConceptID: d.conceptID, ConceptName: d.name, DomainID: "Condition", VocabularyID: omopcodes.VocabularySNOMED, ConceptCode: d.code})
	}
	for _, g := range geneConcepts {
		c = append(c, &omop.Concept{ConceptID: g.conceptID, ConceptName: omopcodes.GeneLOINC[g.code] + " gene mutation analysis", DomainID: "Measurement", VocabularyID: omopcodes.VocabularyLOINC, ConceptCode: g.code})
	}
	return c
}
