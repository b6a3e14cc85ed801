package extract

import (
	"time"

	"github.com/ctomop/ctomop/internal/domain/omop"
	"github.com/ctomop/ctomop/internal/domain/patientinfo"
)

// Issues collects the non-fatal problems found while building a summary.
type Issues struct {
	Mutations []error
	Units     []UnitMismatch
}

func (i Issues) Empty() bool {
	return len(i.Mutations) == 0 && len(i.Units) == 0
}

// Build runs every extractor over one patient's record and merges the
// sections. LastUpdated is left zero for the caller to stamp.
func Build(rec *omop.Record, asOf time.Time) (*patientinfo.PatientInfo, Issues) {
	var issues Issues
	info := &patientinfo.PatientInfo{GeneticMutations: []patientinfo.GeneticMutation{}}
	if rec == nil || rec.Person == nil {
		return info, issues
	}
	p := rec.Person
	info.PersonID = p.PersonID

	info.Demographics = Demographics(p, asOf)
	info.Geography = Geography(p.Location)
	info.Disease = Disease(rec.Conditions)
	info.Treatment = Treatment(rec.TreatmentLines)
	info.Vitals = Vitals(rec.Measurements)
	info.Biomarkers = Biomarkers(rec.Biomarkers)
	info.Social = Social(rec.SocialDeterminants)
	info.Behavior = Behavior(rec.HealthBehaviors)
	info.Infections = Infections(rec.Infections)
	info.Assessment = Assessment(rec.TumorAssessments)
	info.Labs, issues.Units = Labs(rec.Measurements)
	info.Performance = Performance(rec.Observations)
	info.GeneticMutations, issues.Mutations = GeneticMutations(rec.Measurements)
	return info, issues
}
