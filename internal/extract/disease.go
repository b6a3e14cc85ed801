package extract

import (
	"strings"
	"time"
	"unicode"

	"github.com/ctomop/ctomop/internal/domain/omop"
	"github.com/ctomop/ctomop/internal/domain/patientinfo"
)

// PrimaryCancer picks the diagnosis whose concept name mentions "cancer" with
// the most recent onset.
func PrimaryCancer(conds []*omop.ConditionOccurrence) (*omop.ConditionOccurrence, bool) {
	var cancers []*omop.ConditionOccurrence
	for _, c := range conds {
		if c != nil && strings.Contains(strings.ToLower(c.ConceptName), "cancer") {
			cancers = append(cancers, c)
		}
	}
	return Latest(cancers, func(c *omop.ConditionOccurrence) *time.Time { return c.StartDate })
}

func Disease(conds []*omop.ConditionOccurrence) patientinfo.Disease {
	var out patientinfo.Disease
	c, ok := PrimaryCancer(conds)
	if !ok {
		return out
	}

	out.Disease = ptr(c.ConceptName)
	if c.StartDate != nil {
		out.DiagnosisDate = ptr(*c.StartDate)
	}
	out.Stage = firstOf(c.ClinicalStageGroup, c.PathologicStageGroup)
	out.TumorStage = firstOf(c.ClinicalT, c.PathologicT)
	out.NodesStage = firstOf(c.ClinicalN, c.PathologicN)
	out.DistantMetastasisStage = firstOf(c.ClinicalM, c.PathologicM)
	out.HistologicType = copyStr(c.Histology)
	out.PrimarySite = copyStr(c.PrimarySite)

	if c.Grade != nil {
		if g, ok := ParseGrade(*c.Grade); ok {
			out.TumorGrade = ptr(g)
		}
	}
	if out.DistantMetastasisStage != nil {
		out.Metastatic = Metastatic(*out.DistantMetastasisStage)
	}
	return out
}

// firstOf returns a copy of the first non-empty value.
func firstOf(vals ...*string) *string {
	for _, v := range vals {
		if nonEmpty(v) {
			return copyStr(v)
		}
	}
	return nil
}

var romanGrades = map[string]int{"I": 1, "II": 2, "III": 3, "IV": 4}

// ParseGrade returns the first grade 1-4 written as a digit or a roman
// numeral. A leading "GRADE" or "G" and a sub-letter after a digit are
// ignored, so "G2", "Grade2", "G2b" and "Grade II" all yield 2.
func ParseGrade(s string) (int, bool) {
	tokens := strings.FieldsFunc(strings.ToUpper(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tok := range tokens {
		if rest, ok := strings.CutPrefix(tok, "GRADE"); ok {
			tok = rest
		} else if len(tok) > 1 && tok[0] == 'G' {
			tok = tok[1:]
		}
		if len(tok) == 2 && unicode.IsDigit(rune(tok[0])) && unicode.IsLetter(rune(tok[1])) {
			tok = tok[:1]
		}
		if len(tok) == 1 && tok[0] >= '1' && tok[0] <= '4' {
			return int(tok[0] - '0'), true
		}
		if g, ok := romanGrades[tok]; ok {
			return g, true
		}
	}
	return 0, false
}

// Metastatic reads an M category. M1 with any subcategory is true, M0 is
// false and anything else (MX, blank) is unknown. A c/p/yp prefix is ignored.
func Metastatic(m string) *bool {
	v := strings.ToUpper(strings.TrimSpace(m))
	v = strings.TrimPrefix(v, "Y")
	v = strings.TrimLeft(v, "CP")
	switch {
	case v == "M0" || strings.HasPrefix(v, "M0("):
		return ptr(false)
	case strings.HasPrefix(v, "M1"):
		return ptr(true)
	}
	return nil
}
