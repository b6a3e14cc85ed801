package extract

import (
	"strings"
	"time"

	"github.com/ctomop/ctomop/internal/domain/omop"
	"github.com/ctomop/ctomop/internal/domain/patientinfo"
	"github.com/ctomop/ctomop/pkg/omopcodes"
)

func Biomarkers(bs []*omop.BiomarkerMeasurement) patientinfo.Biomarkers {
	var out patientinfo.Biomarkers
	latest := latestBy(bs,
		func(b *omop.BiomarkerMeasurement) string {
			if b == nil {
				return ""
			}
			return strings.ToUpper(strings.TrimSpace(b.BiomarkerType))
		},
		func(b *omop.BiomarkerMeasurement) *time.Time { return b.Date })

	if b, ok := latest[omopcodes.BiomarkerPDL1]; ok {
		if b.QuantitativeResult != nil {
			out.PDL1TumorCells = ptr(roundInt(*b.QuantitativeResult))
		}
		out.PDL1Assay = copyStr(b.AssayMethod)
	}
	out.EstrogenReceptorStatus = qualitative(latest, omopcodes.BiomarkerER)
	out.ProgesteroneReceptorStatus = qualitative(latest, omopcodes.BiomarkerPR)
	out.HER2Status = qualitative(latest, omopcodes.BiomarkerHER2)
	if b, ok := latest[omopcodes.BiomarkerKi67]; ok && b.QuantitativeResult != nil {
		out.Ki67Percentage = ptr(*b.QuantitativeResult)
	}

	// Triple negative needs all three receptors on record.
	er, pr, her2 := out.EstrogenReceptorStatus, out.ProgesteroneReceptorStatus, out.HER2Status
	if er != nil && pr != nil && her2 != nil {
		out.TNBCStatus = ptr(*er == omopcodes.ResultNegative &&
			*pr == omopcodes.ResultNegative &&
			*her2 == omopcodes.ResultNegative)
	}
	return out
}

func qualitative(latest map[string]*omop.BiomarkerMeasurement, tag string) *string {
	b, ok := latest[tag]
	if !ok || !nonEmpty(b.QualitativeResult) {
		return nil
	}
	return ptr(strings.ToUpper(strings.TrimSpace(*b.QualitativeResult)))
}
