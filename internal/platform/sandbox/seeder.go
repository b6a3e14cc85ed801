// Package sandbox generates reproducible synthetic OMOP source records for
// demos and integration tests. Generated patients always satisfy the therapy
// rule: N treatment lines come with N intent observations and N-1
// discontinuation observations.
package sandbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/ctomop/ctomop/internal/domain/omop"
	"github.com/ctomop/ctomop/pkg/omopcodes"
)

// SeedConfig controls the volume and shape of generated data.
type SeedConfig struct {
	PatientCount int       `json:"patientCount"`
	MaxLines     int       `json:"maxLines"`
	MaxMutations int       `json:"maxMutations"`
	Seed         int64     `json:"seed"`
	Reference    time.Time `json:"reference"`
}

func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		PatientCount: 100,
		MaxLines:     4,
		MaxMutations: 2,
	}
}

// SeedResult summarizes a seed run.
type SeedResult struct {
	Patients         int           `json:"patients"`
	Concepts         int           `json:"concepts"`
	Conditions       int           `json:"conditions"`
	Measurements     int           `json:"measurements"`
	Observations     int           `json:"observations"`
	TreatmentLines   int           `json:"treatmentLines"`
	Biomarkers       int           `json:"biomarkers"`
	TumorAssessments int           `json:"tumorAssessments"`
	Duration         time.Duration `json:"duration"`
}

func (r *SeedResult) add(rec *omop.Record) {
	r.Patients++
	r.Conditions += len(rec.Conditions)
	r.Measurements += len(rec.Measurements)
	r.Observations += len(rec.Observations)
	r.TreatmentLines += len(rec.TreatmentLines)
	r.Biomarkers += len(rec.Biomarkers)
	r.TumorAssessments += len(rec.TumorAssessments)
}

type regimen struct {
	name                                     string
	platinum, immunotherapy, chemo, targeted bool
}

var (
	regimens = []regimen{
		{"Carboplatin + Paclitaxel", true, false, true, false},
		{"Cisplatin + Pemetrexed", true, false, true, false},
		{"Pembrolizumab", false, true, false, false},
		{"Nivolumab + Ipilimumab", false, true, false, false},
		{"Docetaxel", false, false, true, false},
		{"Osimertinib", false, false, false, true},
		{"FOLFOX", true, false, true, false},
		{"Trastuzumab + Pertuzumab", false, false, false, true},
		{"Capecitabine", false, false, true, false},
	}
	intents          = []string{omopcodes.IntentCurative, omopcodes.IntentPalliative, omopcodes.IntentAdjuvant, omopcodes.IntentNeoadjuvant}
	discontinuations = []string{"Disease progression", "Toxicity", "Patient preference", "Completed planned course"}
	responses        = []string{omopcodes.ResponseComplete, omopcodes.ResponsePartial, omopcodes.ResponseStable, omopcodes.ResponseProgressive, omopcodes.ResponseNotEvaluable}

	places = []struct {
		city, state, zip string
		lat, lon         float64
	}{
		{"Boston", "MA", "02115", 42.3398, -71.0892},
		{"Houston", "TX", "77030", 29.7079, -95.4010},
		{"Seattle", "WA", "98109", 47.6275, -122.3462},
		{"Rochester", "MN", "55905", 44.0225, -92.4668},
		{"Nashville", "TN", "37232", 36.1447, -86.8027},
	}
	languages     = []string{"English", "Spanish", "Mandarin", "Vietnamese"}
	skillLevels   = []string{"speak", "read", "write"}
	stageGroups   = []string{"I", "IIA", "IIB", "IIIA", "IIIB", "IV"}
	tCategories   = []string{"T1", "T2", "T3", "T4"}
	nCategories   = []string{"N0", "N1", "N2", "N3"}
	mCategories   = []string{"M0", "M0", "M1", "M1a", "MX"}
	gradeNames    = []string{"Grade 1 (well differentiated)", "Grade 2 (moderately differentiated)", "G3", "Grade III", "GX"}
	qualitative   = []string{omopcodes.ResultPositive, omopcodes.ResultNegative, omopcodes.ResultNegative, omopcodes.ResultEquivocal}
	pdl1Assays    = []string{"22C3", "SP263", "28-8"}
	employment    = []string{"Employed full-time", "Employed part-time", "Unemployed", "Retired", "Disabled"}
	insurance     = []string{"Commercial", "Medicare", "Medicaid", "Uninsured"}
	education     = []string{"High school", "Some college", "Bachelor's degree", "Graduate degree"}
	marital       = []string{"Married", "Single", "Divorced", "Widowed"}
	tobacco       = []string{omopcodes.TobaccoNever, omopcodes.TobaccoFormer, omopcodes.TobaccoCurrent}
	alcohol       = []string{"None", "Occasional", "Moderate", "Heavy"}
	infectionSt   = []string{omopcodes.InfectionNegative, omopcodes.InfectionNegative, omopcodes.InfectionNegative, omopcodes.InfectionPositive, omopcodes.InfectionIndeterminate, omopcodes.InfectionUnknown}
	variants      = []string{"c.68_69delAG", "c.5266dupC", "p.R175H", "p.G12C", "p.L858R", "p.E545K", "c.1A>G"}
	geneAssays    = []string{"NGS panel", "Sanger sequencing", "PCR"}
	originIDs     = []int64{omopcodes.ConceptGermline, omopcodes.ConceptSomatic}
	interpIDs     = []int64{omopcodes.ConceptPathogenic, omopcodes.ConceptBenign, omopcodes.ConceptVUS}
	infectionKeys = []string{omopcodes.InfectionHIV, omopcodes.InfectionHepatitisB, omopcodes.InfectionHepatitisC}
)

// DataGenerator produces deterministic synthetic OMOP records.
type DataGenerator struct {
	rng *rand.Rand
	cfg SeedConfig
}

// NewDataGenerator returns a generator seeded for reproducibility. A zero
// seed picks a time-based one; a zero reference date means now.
func NewDataGenerator(cfg SeedConfig) *DataGenerator {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Reference.IsZero() {
		cfg.Reference = time.Now().UTC()
	}
	if cfg.MaxLines <= 0 {
		cfg.MaxLines = 1
	}
	if cfg.MaxMutations < 0 {
		cfg.MaxMutations = 0
	}
	return &DataGenerator{rng: rand.New(rand.NewSource(cfg.Seed)), cfg: cfg}
}

func (g *DataGenerator) pick(pool []string) string {
	return pool[g.rng.Intn(len(pool))]
}

func (g *DataGenerator) chance(p float64) bool {
	return g.rng.Float64() < p
}

func (g *DataGenerator) between(low, high float64) float64 {
	return math.Round((low+g.rng.Float64()*(high-low))*10) / 10
}

// daysAgo returns a date between min and max days before the reference date.
func (g *DataGenerator) daysAgo(min, max int) *time.Time {
	d := g.cfg.Reference.AddDate(0, 0, -(min + g.rng.Intn(max-min+1)))
	t := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return &t
}

func str(s string) *string   { return &s }
func f64(f float64) *float64 { return &f }
func i64(i int64) *int64     { return &i }
func intp(i int) *int        { return &i }

// GenerateRecord builds one patient with every source domain populated.
func (g *DataGenerator) GenerateRecord() *omop.Record {
	rec := &omop.Record{Person: g.person()}
	diagnosis := g.conditions(rec)
	g.vitals(rec)
	g.labs(rec)
	g.performance(rec)
	g.therapy(rec, diagnosis)
	g.biomarkers(rec)
	g.genes(rec)
	g.lifestyle(rec)
	g.assessments(rec, diagnosis)
	return rec
}

func (g *DataGenerator) person() *omop.Person {
	ref := g.cfg.Reference
	p := &omop.Person{YearOfBirth: ref.Year() - 30 - g.rng.Intn(55)}
	if g.chance(0.9) {
		p.MonthOfBirth = intp(1 + g.rng.Intn(12))
		if g.chance(0.9) {
			p.DayOfBirth = intp(1 + g.rng.Intn(28))
		}
	}
	gender := []int64{conceptMale, conceptFemale}[g.rng.Intn(2)]
	p.GenderConceptID = i64(gender)
	p.RaceConceptID = i64([]int64{conceptWhite, conceptBlack, conceptAsian}[g.rng.Intn(3)])
	p.EthnicityConceptID = i64([]int64{conceptHispanic, conceptNotHispanic}[g.rng.Intn(2)])
	p.PrimaryLanguage = str(g.pick(languages))
	if g.chance(0.7) {
		p.LanguageSkillLevel = str(g.pick(skillLevels))
	}
	pl := places[g.rng.Intn(len(places))]
	p.Location = &omop.Location{
		Address1:  str(fmt.Sprintf("%d Main St", 100+g.rng.Intn(900))),
		City:      str(pl.city),
		State:     str(pl.state),
		Zip:       str(pl.zip),
		Country:   str("USA"),
		Latitude:  f64(pl.lat),
		Longitude: f64(pl.lon),
	}
	p.PersonSourceValue = str(fmt.Sprintf("SYN-%08x", g.rng.Uint32()))
	return p
}

// conditions adds one primary cancer and sometimes a comorbidity. It returns
// the diagnosis date.
func (g *DataGenerator) conditions(rec *omop.Record) time.Time {
	var cancers, other []conditionDef
	for _, c := range conditions {
		if c.cancer {
			cancers = append(cancers, c)
		} else {
			other = append(other, c)
		}
	}
	def := cancers[g.rng.Intn(len(cancers))]
	onset := g.daysAgo(365, 5*365)
	c := &omop.ConditionOccurrence{
		ConceptID:            def.conceptID,
		StartDate:            onset,
		Histology:            str(def.histology),
		PrimarySite:          str(def.site),
		Grade:                str(g.pick(gradeNames)),
		PathologicT:          str(g.pick(tCategories)),
		PathologicN:          str(g.pick(nCategories)),
		PathologicM:          str("p" + g.pick(mCategories)),
		PathologicStageGroup: str(g.pick(stageGroups)),
	}
	if g.chance(0.6) {
		c.ClinicalStageGroup = str(g.pick(stageGroups))
		c.ClinicalT = str("c" + g.pick(tCategories))
		c.ClinicalM = str("c" + g.pick(mCategories))
	}
	rec.Conditions = append(rec.Conditions, c)

	if g.chance(0.5) {
		o := other[g.rng.Intn(len(other))]
		rec.Conditions = append(rec.Conditions, &omop.ConditionOccurrence{ConceptID: o.conceptID, StartDate: g.daysAgo(30, 10*365)})
	}
	return *onset
}

func (g *DataGenerator) measurement(conceptID int64, v float64, unit string, date *time.Time) *omop.Measurement {
	return &omop.Measurement{ConceptID: conceptID, ValueAsNumber: f64(v), UnitSourceValue: str(unit), Date: date}
}

func (g *DataGenerator) vitals(rec *omop.Record) {
	visits := 1 + g.rng.Intn(3)
	for v := 0; v < visits; v++ {
		date := g.daysAgo(0, 365)
		weightKg := g.between(48, 120)
		heightCm := g.between(150, 195)
		rec.Measurements = append(rec.Measurements,
			g.measurement(vitals[0].conceptID, g.between(95, 170), "mm[Hg]", date),
			g.measurement(vitals[1].conceptID, g.between(55, 100), "mm[Hg]", date),
			g.measurement(vitals[2].conceptID, g.between(55, 110), "/min", date),
		)
		if g.chance(0.5) {
			rec.Measurements = append(rec.Measurements,
				g.measurement(vitals[3].conceptID, math.Round(weightKg/0.45359237*10)/10, "lb", date),
				g.measurement(vitals[4].conceptID, math.Round(heightCm/2.54*10)/10, "in", date))
		} else {
			rec.Measurements = append(rec.Measurements,
				g.measurement(vitals[3].conceptID, weightKg, "kg", date),
				g.measurement(vitals[4].conceptID, heightCm, "cm", date))
		}
		rec.Measurements = append(rec.Measurements, g.measurement(vitals[5].conceptID, g.between(36.1, 38.2), "Cel", date))
	}
}

func (g *DataGenerator) labs(rec *omop.Record) {
	for _, l := range labs {
		count := g.rng.Intn(3)
		for i := 0; i < count; i++ {
			m := g.measurement(l.conceptID, g.between(l.low, l.high), l.unit, g.daysAgo(0, 2*365))
			m.RangeLow, m.RangeHigh = f64(l.low), f64(l.high)
			rec.Measurements = append(rec.Measurements, m)
		}
	}
}

func (g *DataGenerator) performance(rec *omop.Record) {
	if g.chance(0.8) {
		rec.Observations = append(rec.Observations, &omop.Observation{
			ConceptID: conceptECOG, ValueAsNumber: f64(float64(g.rng.Intn(5))), Date: g.daysAgo(0, 365),
		})
	}
	if g.chance(0.4) {
		rec.Observations = append(rec.Observations, &omop.Observation{
			ConceptID: conceptKarnofsky, ValueAsNumber: f64(float64(40 + 10*g.rng.Intn(7))), Date: g.daysAgo(0, 365),
		})
	}
}

// therapy adds consecutive lines after the diagnosis, one intent
// observation per line and a discontinuation observation for every line
// except the current one.
func (g *DataGenerator) therapy(rec *omop.Record, diagnosis time.Time) {
	n := g.rng.Intn(g.cfg.MaxLines + 1)
	start := diagnosis.AddDate(0, 0, 14+g.rng.Intn(30))
	for i := 1; i <= n; i++ {
		r := regimens[g.rng.Intn(len(regimens))]
		s := start
		line := &omop.TreatmentLine{
			LineNumber:      i,
			RegimenName:     str(r.name),
			Intent:          str(g.pick(intents)),
			Response:        str(g.pick(responses)),
			StartDate:       &s,
			IsPlatinum:      r.platinum,
			IsImmunotherapy: r.immunotherapy,
			IsChemotherapy:  r.chemo,
			IsTargeted:      r.targeted,
		}
		rec.Observations = append(rec.Observations, &omop.Observation{
			ConceptID: conceptIntent, ValueAsString: str(*line.Intent), Date: &s,
		})
		if i < n {
			end := s.AddDate(0, 0, 90+g.rng.Intn(180))
			line.EndDate = &end
			line.DiscontinuationReason = str(g.pick(discontinuations))
			rec.Observations = append(rec.Observations, &omop.Observation{
				ConceptID: conceptDiscont, ValueAsString: str(*line.DiscontinuationReason), Date: &end,
			})
			start = end.AddDate(0, 0, 7+g.rng.Intn(21))
		}
		rec.TreatmentLines = append(rec.TreatmentLines, line)
	}
}

func (g *DataGenerator) biomarkers(rec *omop.Record) {
	date := g.daysAgo(30, 3*365)
	for _, typ := range []string{omopcodes.BiomarkerER, omopcodes.BiomarkerPR, omopcodes.BiomarkerHER2} {
		if g.chance(0.75) {
			rec.Biomarkers = append(rec.Biomarkers, &omop.BiomarkerMeasurement{
				BiomarkerType: typ, QualitativeResult: str(g.pick(qualitative)), AssayMethod: str("IHC"), Date: date,
			})
		}
	}
	if g.chance(0.6) {
		rec.Biomarkers = append(rec.Biomarkers, &omop.BiomarkerMeasurement{
			BiomarkerType: omopcodes.BiomarkerPDL1, QuantitativeResult: f64(float64(g.rng.Intn(101))),
			AssayMethod: str(g.pick(pdl1Assays)), Date: date,
		})
	}
	if g.chance(0.5) {
		rec.Biomarkers = append(rec.Biomarkers, &omop.BiomarkerMeasurement{
			BiomarkerType: omopcodes.BiomarkerKi67, QuantitativeResult: f64(g.between(2, 90)), Date: date,
		})
	}
}

func (g *DataGenerator) genes(rec *omop.Record) {
	count := g.rng.Intn(g.cfg.MaxMutations + 1)
	for i := 0; i < count; i++ {
		gc := geneConcepts[g.rng.Intn(len(geneConcepts))]
		rec.Measurements = append(rec.Measurements, &omop.Measurement{
			ConceptID:            gc.conceptID,
			Date:                 g.daysAgo(30, 3*365),
			ValueAsString:        str(g.pick(variants)),
			QualifierConceptID:   i64(originIDs[g.rng.Intn(len(originIDs))]),
			ValueAsConceptID:     i64(interpIDs[g.rng.Intn(len(interpIDs))]),
			QualifierSourceValue: str(g.pick(geneAssays)),
		})
	}
}

// lifestyle adds social determinants, health behaviors and infection results.
func (g *DataGenerator) lifestyle(rec *omop.Record) {
	date := g.daysAgo(0, 2*365)
	for _, sd := range []struct {
		category string
		pool     []string
	}{
		{omopcodes.SocialEmployment, employment},
		{omopcodes.SocialInsurance, insurance},
		{omopcodes.SocialEducation, education},
		{omopcodes.SocialMaritalStatus, marital},
	} {
		rec.SocialDeterminants = append(rec.SocialDeterminants, &omop.SocialDeterminant{Category: sd.category, Value: str(g.pick(sd.pool)), Date: date})
	}

	status := g.pick(tobacco)
	smoke := &omop.HealthBehavior{BehaviorType: omopcodes.BehaviorTobaccoUse, Status: str(status), Date: date}
	if status != omopcodes.TobaccoNever {
		smoke.PackYears = f64(g.between(1, 60))
		smoke.Details = str("Cigarettes")
	}
	rec.HealthBehaviors = append(rec.HealthBehaviors,
		smoke,
		&omop.HealthBehavior{BehaviorType: omopcodes.BehaviorAlcoholUse, Status: str(g.pick(alcohol)), Date: date},
	)

	for _, typ := range infectionKeys {
		if g.chance(0.8) {
			rec.Infections = append(rec.Infections, &omop.InfectionStatus{InfectionType: typ, Status: g.pick(infectionSt), Date: g.daysAgo(0, 3*365)})
		}
	}
}

func (g *DataGenerator) assessments(rec *omop.Record, diagnosis time.Time) {
	count := g.rng.Intn(4)
	for i := 0; i < count; i++ {
		d := diagnosis.AddDate(0, 2*(i+1), 0)
		a := &omop.TumorAssessment{Date: &d, OverallResponse: str(g.pick(responses))}
		if g.chance(0.8) {
			a.TargetLesionSum = f64(g.between(5, 150))
		}
		rec.TumorAssessments = append(rec.TumorAssessments, a)
	}
}

// Seeder writes generated records through the OMOP service.
type Seeder struct {
	svc       *omop.Service
	generator *DataGenerator
	config    SeedConfig
	logger    zerolog.Logger
}

func NewSeeder(svc *omop.Service, config SeedConfig, logger zerolog.Logger) *Seeder {
	return &Seeder{
		svc:       svc,
		generator: NewDataGenerator(config),
		config:    config,
		logger:    logger.With().Str("component", "sandbox").Logger(),
	}
}

// Generate stores the concept catalog and then PatientCount patients.
func (s *Seeder) Generate(ctx context.Context) (*SeedResult, error) {
	start := time.Now()
	result := &SeedResult{}

	catalog := Catalog()
	if err := s.svc.UpsertConcepts(ctx, catalog); err != nil {
		return nil, fmt.Errorf("seed concepts: %w", err)
	}
	result.Concepts = len(catalog)

	for i := 0; i < s.config.PatientCount; i++ {
		rec := s.generator.GenerateRecord()
		if err := s.svc.WriteRecord(ctx, rec); err != nil {
			return result, fmt.Errorf("seed patient %d: %w", i+1, err)
		}
		result.add(rec)
		s.logger.Debug().Int64("person_id", rec.Person.PersonID).Int("treatment_lines", len(rec.TreatmentLines)).Msg("patient seeded")
	}
	result.Duration = time.Since(start)
	s.logger.Info().Int("patients", result.Patients).Int("measurements", result.Measurements).
		Dur("duration", result.Duration).Msg("seed complete")
	return result, nil
}

// ExportNDJSON writes n generated records as newline-delimited JSON without
// touching the database.
func ExportNDJSON(w io.Writer, config SeedConfig) error {
	g := NewDataGenerator(config)
	enc := json.NewEncoder(w)
	for i := 0; i < config.PatientCount; i++ {
		if err := enc.Encode(g.GenerateRecord()); err != nil {
			return fmt.Errorf("encode record %d: %w", i+1, err)
		}
	}
	return nil
}
