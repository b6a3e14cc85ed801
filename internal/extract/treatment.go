package extract

import (
	"sort"
	"strings"

	"github.com/ctomop/ctomop/internal/domain/omop"
	"github.com/ctomop/ctomop/internal/domain/patientinfo"
)

const (
	priorPlatinumLabel = "Platinum-based chemotherapy"
	priorImmunoLabel   = "Immunotherapy"
	laterSeparator     = "; "
)

// Treatment maps line 1 and line 2 to their own fields and folds every line
// numbered above 2 into the later-line fields. The later regimen joins those
// regimens, the later date comes from the first of them and the later outcome
// from the last. Patients with four or more lines lose per-line detail.
func Treatment(lines []*omop.TreatmentLine) patientinfo.Treatment {
	var out patientinfo.Treatment
	sorted := make([]*omop.TreatmentLine, 0, len(lines))
	for _, l := range lines {
		if l != nil {
			sorted = append(sorted, l)
		}
	}
	if len(sorted) == 0 {
		return out
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].LineNumber < sorted[j].LineNumber })

	var later []*omop.TreatmentLine
	for _, l := range sorted {
		switch {
		case l.LineNumber == 1:
			out.FirstLineTherapy = copyStr(l.RegimenName)
			out.FirstLineDate = copyTime(l.StartDate)
			out.FirstLineOutcome = copyStr(l.Response)
		case l.LineNumber == 2:
			out.SecondLineTherapy = copyStr(l.RegimenName)
			out.SecondLineDate = copyTime(l.StartDate)
			out.SecondLineOutcome = copyStr(l.Response)
		case l.LineNumber > 2:
			later = append(later, l)
		}
	}
	if len(later) > 0 {
		var regimens []string
		for _, l := range later {
			if nonEmpty(l.RegimenName) {
				regimens = append(regimens, strings.TrimSpace(*l.RegimenName))
			}
		}
		if len(regimens) > 0 {
			out.LaterTherapy = ptr(strings.Join(regimens, laterSeparator))
		}
		out.LaterDate = copyTime(later[0].StartDate)
		out.LaterOutcome = copyStr(later[len(later)-1].Response)
	}

	out.TherapyLinesCount = ptr(len(sorted))

	var platinum, immuno, chemo, targeted bool
	for _, l := range sorted {
		platinum = platinum || l.IsPlatinum
		immuno = immuno || l.IsImmunotherapy
		chemo = chemo || l.IsChemotherapy
		targeted = targeted || l.IsTargeted
	}
	out.PriorPlatinum = ptr(platinum)
	out.PriorImmunotherapy = ptr(immuno)
	out.PriorChemotherapy = ptr(chemo)
	out.PriorTargetedTherapy = ptr(targeted)

	var prior []string
	if platinum {
		prior = append(prior, priorPlatinumLabel)
	}
	if immuno {
		prior = append(prior, priorImmunoLabel)
	}
	if len(prior) > 0 {
		out.PriorTherapy = ptr(strings.Join(prior, laterSeparator))
	}

	out.TherapyIntent = copyStr(sorted[len(sorted)-1].Intent)
	for i := len(sorted) - 1; i >= 0; i-- {
		if nonEmpty(sorted[i].DiscontinuationReason) {
			out.ReasonForDiscontinuation = copyStr(sorted[i].DiscontinuationReason)
			break
		}
	}
	return out
}
