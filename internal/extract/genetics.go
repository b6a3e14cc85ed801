package extract

import (
	"fmt"
	"strings"

	"github.com/ctomop/ctomop/internal/domain/omop"
	"github.com/ctomop/ctomop/internal/domain/patientinfo"
	"github.com/ctomop/ctomop/pkg/omopcodes"
)

var originByConcept = map[int64]patientinfo.Origin{
	omopcodes.ConceptGermline: patientinfo.OriginGermline,
	omopcodes.ConceptSomatic:  patientinfo.OriginSomatic,
}

var interpretationByConcept = map[int64]patientinfo.Interpretation{
	omopcodes.ConceptPathogenic: patientinfo.InterpretationPathogenic,
	omopcodes.ConceptBenign:     patientinfo.InterpretationBenign,
	omopcodes.ConceptVUS:        patientinfo.InterpretationVUS,
}

// GeneticMutations builds typed mutations from gene-test measurements. Rows
// without a variant string are not mutation results and are skipped. Rows
// that fail validation are dropped and returned as errors.
func GeneticMutations(ms []*omop.Measurement) ([]patientinfo.GeneticMutation, []error) {
	out := []patientinfo.GeneticMutation{}
	var errs []error
	for _, m := range ms {
		if m == nil {
			continue
		}
		gene, ok := omopcodes.GeneLOINC[m.ConceptCode]
		if !ok || !nonEmpty(m.ValueAsString) {
			continue
		}
		mut := patientinfo.GeneticMutation{
			Gene:        strings.ToLower(gene),
			Variant:     strings.TrimSpace(*m.ValueAsString),
			AssayMethod: copyStr(m.QualifierSourceValue),
		}
		if m.QualifierConceptID != nil {
			mut.Origin = originByConcept[*m.QualifierConceptID]
		}
		if m.ValueAsConceptID != nil {
			mut.Interpretation = interpretationByConcept[*m.ValueAsConceptID]
		}
		if m.Date != nil {
			mut.TestDate = patientinfo.NewDate(*m.Date)
		}
		if err := mut.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("measurement %d: %w", m.MeasurementID, err))
			continue
		}
		out = append(out, mut)
	}
	return out, errs
}
