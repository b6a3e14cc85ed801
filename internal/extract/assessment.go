package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/ctomop/ctomop/internal/domain/omop"
	"github.com/ctomop/ctomop/internal/domain/patientinfo"
	"github.com/ctomop/ctomop/pkg/omopcodes"
)

func Assessment(as []*omop.TumorAssessment) patientinfo.Assessment {
	var out patientinfo.Assessment
	var present []*omop.TumorAssessment
	for _, a := range as {
		if a != nil {
			present = append(present, a)
		}
	}
	a, ok := Latest(present, func(a *omop.TumorAssessment) *time.Time { return a.Date })
	if !ok {
		return out
	}
	if nonEmpty(a.OverallResponse) {
		code := strings.ToUpper(strings.TrimSpace(*a.OverallResponse))
		if display, known := omopcodes.ResponseDisplay[code]; known {
			out.BestResponse = ptr(display)
		} else {
			out.BestResponse = ptr(code)
		}
	}
	out.ResponseDate = copyTime(a.Date)
	if a.TargetLesionSum != nil {
		out.TumorLesionSum = ptr(*a.TargetLesionSum)
		out.MeasurableDiseaseByRECISTStatus = ptr(true)
	}
	return out
}

// LabPanel is one keyword of the lab panel and the unit label stored with it.
type LabPanel struct {
	Keyword string
	Unit    string
}

// LabPanels is checked in order; a measurement belongs to the first keyword
// its concept name contains.
var LabPanels = []LabPanel{
	{Keyword: "hemoglobin", Unit: "G/DL"},
	{Keyword: "platelet", Unit: "CELLS/UL"},
	{Keyword: "creatinine", Unit: "MG/DL"},
	{Keyword: "calcium", Unit: "MG/DL"},
	{Keyword: "bilirubin", Unit: "MG/DL"},
	{Keyword: "albumin", Unit: "G/DL"},
}

// UnitMismatch reports a lab whose recorded unit differs from the fixed
// label the summary stores. The value is kept as recorded.
type UnitMismatch struct {
	MeasurementID int64
	Keyword       string
	SourceUnit    string
	StoredUnit    string
}

func (u UnitMismatch) Error() string {
	return fmt.Sprintf("measurement %d (%s): source unit %q stored as %q", u.MeasurementID, u.Keyword, u.SourceUnit, u.StoredUnit)
}

func labKeyword(name string) string {
	n := strings.ToLower(name)
	for _, p := range LabPanels {
		if strings.Contains(n, p.Keyword) {
			return p.Keyword
		}
	}
	return ""
}

// Labs keeps the most recent numeric measurement per panel keyword and
// attaches the panel's fixed unit. Recorded units that disagree are
// returned as mismatches for the caller to log.
func Labs(ms []*omop.Measurement) (patientinfo.Labs, []UnitMismatch) {
	var out patientinfo.Labs
	var numeric []*omop.Measurement
	for _, m := range ms {
		if m != nil && m.ValueAsNumber != nil {
			numeric = append(numeric, m)
		}
	}
	latest := latestBy(numeric,
		func(m *omop.Measurement) string { return labKeyword(m.ConceptName) },
		func(m *omop.Measurement) *time.Time { return m.Date })

	var mismatches []UnitMismatch
	for _, p := range LabPanels {
		m, ok := latest[p.Keyword]
		if !ok {
			continue
		}
		if src := strings.TrimSpace(deref(m.UnitSourceValue)); src != "" && !strings.EqualFold(src, p.Unit) {
			mismatches = append(mismatches, UnitMismatch{
				MeasurementID: m.MeasurementID,
				Keyword:       p.Keyword,
				SourceUnit:    src,
				StoredUnit:    p.Unit,
			})
		}
		value, label := ptr(*m.ValueAsNumber), ptr(p.Unit)
		switch p.Keyword {
		case "hemoglobin":
			out.HemoglobinLevel, out.HemoglobinLevelUnits = value, label
		case "platelet":
			out.PlateletCount, out.PlateletCountUnits = value, label
		case "creatinine":
			out.SerumCreatinineLevel, out.SerumCreatinineLevelUnits = value, label
		case "calcium":
			out.SerumCalciumLevel, out.SerumCalciumLevelUnits = value, label
		case "bilirubin":
			out.SerumBilirubinLevelTotal, out.SerumBilirubinLevelTotalUnits = value, label
		case "albumin":
			out.AlbuminLevel, out.AlbuminLevelUnits = value, label
		}
	}
	return out, mismatches
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Performance reads ECOG and Karnofsky scores from observations, each scale
// taking its own most recent value.
func Performance(obs []*omop.Observation) patientinfo.Performance {
	var out patientinfo.Performance
	var scored []*omop.Observation
	for _, o := range obs {
		if o != nil && o.ValueAsNumber != nil {
			scored = append(scored, o)
		}
	}
	latest := latestBy(scored,
		func(o *omop.Observation) string {
			n := strings.ToLower(o.ConceptName)
			switch {
			case strings.Contains(n, "ecog"):
				return "ecog"
			case strings.Contains(n, "karnofsky"):
				return "karnofsky"
			}
			return ""
		},
		func(o *omop.Observation) *time.Time { return o.Date })

	if o, ok := latest["ecog"]; ok {
		out.ECOGPerformanceStatus = ptr(roundInt(*o.ValueAsNumber))
	}
	if o, ok := latest["karnofsky"]; ok {
		out.KarnofskyPerformanceScore = ptr(roundInt(*o.ValueAsNumber))
	}
	return out
}
