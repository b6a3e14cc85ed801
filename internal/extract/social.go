package extract

import (
	"strings"
	"time"

	"github.com/ctomop/ctomop/internal/domain/omop"
	"github.com/ctomop/ctomop/internal/domain/patientinfo"
	"github.com/ctomop/ctomop/pkg/omopcodes"
)

func Social(ds []*omop.SocialDeterminant) patientinfo.Social {
	latest := latestBy(ds,
		func(d *omop.SocialDeterminant) string {
			if d == nil {
				return ""
			}
			return strings.ToUpper(strings.TrimSpace(d.Category))
		},
		func(d *omop.SocialDeterminant) *time.Time { return d.Date })

	value := func(cat string) *string {
		if d, ok := latest[cat]; ok {
			return copyStr(d.Value)
		}
		return nil
	}
	return patientinfo.Social{
		EmploymentStatus: value(omopcodes.SocialEmployment),
		InsuranceType:    value(omopcodes.SocialInsurance),
		EducationLevel:   value(omopcodes.SocialEducation),
		MaritalStatus:    value(omopcodes.SocialMaritalStatus),
	}
}

var tobaccoLabels = map[string]string{
	omopcodes.TobaccoNever:   "Never smoker",
	omopcodes.TobaccoFormer:  "Former smoker",
	omopcodes.TobaccoCurrent: "Current smoker",
}

// Behavior maps the latest tobacco assessment onto the status text and the
// no-tobacco flag. Only NEVER sets the flag true; an unrecognised status
// leaves both unset.
func Behavior(hs []*omop.HealthBehavior) patientinfo.Behavior {
	var out patientinfo.Behavior
	latest := latestBy(hs,
		func(h *omop.HealthBehavior) string {
			if h == nil {
				return ""
			}
			return strings.ToUpper(strings.TrimSpace(h.BehaviorType))
		},
		func(h *omop.HealthBehavior) *time.Time { return h.Date })

	if h, ok := latest[omopcodes.BehaviorTobaccoUse]; ok {
		status := ""
		if h.Status != nil {
			status = strings.ToUpper(strings.TrimSpace(*h.Status))
		}
		if label, known := tobaccoLabels[status]; known {
			out.TobaccoUseStatus = ptr(label)
			out.NoTobaccoUseStatus = ptr(status == omopcodes.TobaccoNever)
		}
		out.TobaccoUseDetails = copyStr(h.Details)
		if h.PackYears != nil {
			out.TobaccoPackYears = ptr(*h.PackYears)
		}
	}
	if h, ok := latest[omopcodes.BehaviorAlcoholUse]; ok {
		out.AlcoholUse = firstOf(h.Details, h.Status)
	}
	return out
}

// Infections reads the most recent result per infection. POSITIVE and
// NEGATIVE set both paired flags to opposite values. INDETERMINATE, UNKNOWN
// or any other status leaves the pair unset, even when an older record was
// conclusive.
func Infections(is []*omop.InfectionStatus) patientinfo.Infections {
	var out patientinfo.Infections
	latest := latestBy(is,
		func(i *omop.InfectionStatus) string {
			if i == nil {
				return ""
			}
			return strings.ToUpper(strings.TrimSpace(i.InfectionType))
		},
		func(i *omop.InfectionStatus) *time.Time { return i.Date })

	pair := func(typ string) (pos, neg *bool) {
		i, ok := latest[typ]
		if !ok {
			return nil, nil
		}
		switch strings.ToUpper(strings.TrimSpace(i.Status)) {
		case omopcodes.InfectionPositive:
			return ptr(true), ptr(false)
		case omopcodes.InfectionNegative:
			return ptr(false), ptr(true)
		}
		return nil, nil
	}
	out.HIVStatus, out.NoHIVStatus = pair(omopcodes.InfectionHIV)
	out.HepatitisBStatus, out.NoHepatitisBStatus = pair(omopcodes.InfectionHepatitisB)
	out.HepatitisCStatus, out.NoHepatitisCStatus = pair(omopcodes.InfectionHepatitisC)
	return out
}
