package extract

import (
	"strings"
	"time"

	"github.com/ctomop/ctomop/internal/domain/omop"
	"github.com/ctomop/ctomop/internal/domain/patientinfo"
)

const defaultLanguageSkill = "speak"

// Gender codes stored on the summary.
const (
	GenderFemale  = "F"
	GenderMale    = "M"
	GenderUnknown = "U"
)

// NormalizeGender maps a gender concept name to F, M or U. "female" is
// checked first since it contains "male".
func NormalizeGender(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "female"):
		return GenderFemale
	case strings.Contains(n, "male"):
		return GenderMale
	default:
		return GenderUnknown
	}
}

func Demographics(p *omop.Person, asOf time.Time) patientinfo.Demographics {
	var out patientinfo.Demographics
	if p == nil {
		return out
	}
	if p.YearOfBirth > 0 {
		out.PatientAge = ptr(Age(p.YearOfBirth, p.MonthOfBirth, p.DayOfBirth, asOf))
	}

	gender := GenderUnknown
	if p.GenderConceptName != nil {
		gender = NormalizeGender(*p.GenderConceptName)
	}
	out.Gender = ptr(gender)

	switch {
	case nonEmpty(p.RaceConceptName):
		out.Ethnicity = ptr(*p.RaceConceptName)
	case nonEmpty(p.EthnicityConceptName):
		out.Ethnicity = ptr(*p.EthnicityConceptName)
	}

	if nonEmpty(p.PrimaryLanguage) {
		out.Languages = ptr(*p.PrimaryLanguage)
		skill := defaultLanguageSkill
		if nonEmpty(p.LanguageSkillLevel) {
			skill = *p.LanguageSkillLevel
		}
		out.LanguageSkillLevel = ptr(skill)
	}
	return out
}

func Geography(loc *omop.Location) patientinfo.Geography {
	var out patientinfo.Geography
	if loc == nil {
		return out
	}
	out.Country = copyStr(loc.Country)
	out.Region = copyStr(loc.State)
	out.PostalCode = copyStr(loc.Zip)
	if loc.Latitude != nil {
		out.Latitude = ptr(*loc.Latitude)
	}
	if loc.Longitude != nil {
		out.Longitude = ptr(*loc.Longitude)
	}
	return out
}

func nonEmpty(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// copyStr returns a fresh pointer so summaries never alias source records.
func copyStr(s *string) *string {
	if !nonEmpty(s) {
		return nil
	}
	return ptr(strings.TrimSpace(*s))
}
