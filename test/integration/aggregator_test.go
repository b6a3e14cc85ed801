package integration

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ctomop/ctomop/internal/aggregator"
	"github.com/ctomop/ctomop/internal/domain/omop"
	"github.com/ctomop/ctomop/internal/domain/patientinfo"
	"github.com/ctomop/ctomop/internal/extract"
	"github.com/ctomop/ctomop/internal/platform/db"
	"github.com/ctomop/ctomop/pkg/omopcodes"
)

var asOf = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func newAggregator() *aggregator.Aggregator {
	pool := globalDB.Pool
	return aggregator.New(omop.NewReadersPG(pool), patientinfo.NewRepoPG(pool), db.NewTxRunner(pool), zerolog.Nop())
}

func TestMigrations_AllApplied(t *testing.T) {
	statuses, err := db.NewMigrator(globalDB.Pool, globalDB.MigrationsDir, zerolog.Nop()).Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(statuses) == 0 {
		t.Fatal("no migrations found")
	}
	for _, s := range statuses {
		if !s.Applied {
			t.Errorf("migration %d %s not applied", s.Version, s.Name)
		}
	}
}

func TestTherapyObservations_SeededCohortConsistent(t *testing.T) {
	pool := globalDB.Pool
	svc := omop.NewService(omop.NewReadersPG(pool), omop.NewWriterPG(pool))
	checks, err := svc.CheckTherapy(context.Background(), nil)
	if err != nil {
		t.Fatalf("check therapy: %v", err)
	}
	if len(checks) != seededPatients {
		t.Fatalf("checked %d persons, want %d", len(checks), seededPatients)
	}
	for _, c := range checks {
		if !c.Consistent() {
			t.Errorf("person %d: %d lines, %d intents, %d discontinuations",
				c.PersonID, c.TreatmentLines, c.IntentObservations, c.DiscontinuationObservations)
		}
	}
}

// TestAggregator_Lifecycle runs the full populate cycle against the seeded
// cohort. Subtests share state and run in order.
func TestAggregator_Lifecycle(t *testing.T) {
	ctx := context.Background()
	agg := newAggregator()
	store := patientinfo.NewRepoPG(globalDB.Pool)
	readers := omop.NewReadersPG(globalDB.Pool)

	t.Run("first run creates every summary", func(t *testing.T) {
		report, err := agg.Run(ctx, aggregator.RunOptions{AsOf: asOf})
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if got := report.Counts[aggregator.OutcomeCreated]; got != seededPatients {
			t.Errorf("created = %d, want %d (counts %v)", got, seededPatients, report.Counts)
		}
		if report.Failed() {
			for _, r := range report.Results {
				if r.Err != nil {
					t.Errorf("person %d: %v", r.PersonID, r.Err)
				}
			}
		}
	})

	t.Run("second run skips existing", func(t *testing.T) {
		report, err := agg.Run(ctx, aggregator.RunOptions{AsOf: asOf})
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if got := report.Counts[aggregator.OutcomeSkipped]; got != seededPatients {
			t.Errorf("skipped = %d, want %d", got, seededPatients)
		}
	})

	t.Run("stored row matches extraction", func(t *testing.T) {
		ids, err := readers.Persons.ListIDs(ctx)
		if err != nil || len(ids) == 0 {
			t.Fatalf("list ids: %v", err)
		}
		for _, id := range ids[:5] {
			rec, err := readers.LoadRecord(ctx, id)
			if err != nil {
				t.Fatalf("load %d: %v", id, err)
			}
			want, _ := extract.Build(rec, asOf)
			got, err := store.GetByPersonID(ctx, id)
			if err != nil {
				t.Fatalf("get %d: %v", id, err)
			}
			if !equalInt(got.PatientAge, want.PatientAge) {
				t.Errorf("person %d age = %v, want %v", id, deref(got.PatientAge), deref(want.PatientAge))
			}
			if !equalInt(got.TherapyLinesCount, want.TherapyLinesCount) {
				t.Errorf("person %d lines = %v, want %v", id, deref(got.TherapyLinesCount), deref(want.TherapyLinesCount))
			}
			if len(got.GeneticMutations) != len(want.GeneticMutations) {
				t.Errorf("person %d mutations = %d, want %d", id, len(got.GeneticMutations), len(want.GeneticMutations))
			}
			if got.LastUpdated.IsZero() {
				t.Errorf("person %d last_updated not set", id)
			}
		}
	})

	t.Run("force update refreshes timestamp", func(t *testing.T) {
		ids, _ := readers.Persons.ListIDs(ctx)
		id := ids[0]
		before, err := store.GetByPersonID(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)

		report, err := agg.Run(ctx, aggregator.RunOptions{PersonIDs: []int64{id}, ForceUpdate: true, AsOf: asOf})
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if report.Counts[aggregator.OutcomeUpdated] != 1 {
			t.Errorf("counts = %v, want one update", report.Counts)
		}
		after, err := store.GetByPersonID(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if !after.LastUpdated.After(before.LastUpdated) {
			t.Errorf("last_updated did not advance: %v -> %v", before.LastUpdated, after.LastUpdated)
		}
	})

	t.Run("unknown person is reported not found", func(t *testing.T) {
		report, err := agg.Run(ctx, aggregator.RunOptions{PersonIDs: []int64{999999}, AsOf: asOf})
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if report.Counts[aggregator.OutcomeNotFound] != 1 {
			t.Errorf("counts = %v, want not_found", report.Counts)
		}
		if _, err := store.GetByPersonID(ctx, 999999); !errors.Is(err, patientinfo.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("query filters", func(t *testing.T) {
		all, total, err := store.List(ctx, patientinfo.Filter{}, 100, 0)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if total != seededPatients || len(all) != seededPatients {
			t.Fatalf("list = %d/%d, want %d", len(all), total, seededPatients)
		}

		var gene string
		for _, p := range all {
			if len(p.GeneticMutations) > 0 {
				gene = p.GeneticMutations[0].Gene
				break
			}
		}
		if gene == "" {
			t.Skip("seeded cohort has no mutations")
		}
		matched, n, err := store.List(ctx, patientinfo.Filter{Gene: gene}, 100, 0)
		if err != nil {
			t.Fatalf("list by gene: %v", err)
		}
		if n == 0 || n != len(matched) {
			t.Fatalf("gene %s matched %d (total %d)", gene, len(matched), n)
		}
		for _, p := range matched {
			found := false
			for _, m := range p.GeneticMutations {
				if m.Gene == gene {
					found = true
				}
			}
			if !found {
				t.Errorf("person %d returned for gene %s without that mutation", p.PersonID, gene)
			}
		}

		page, n, err := store.List(ctx, patientinfo.Filter{}, 10, 20)
		if err != nil {
			t.Fatal(err)
		}
		if n != seededPatients || len(page) != seededPatients-20 {
			t.Errorf("page = %d of %d, want %d", len(page), n, seededPatients-20)
		}
	})
}

// Source columns are copied verbatim into the summary, so values at the
// full width of their source column must still store.
func TestAggregator_FullWidthSourceValues(t *testing.T) {
	ctx := context.Background()
	pool := globalDB.Pool
	svc := omop.NewService(omop.NewReadersPG(pool), omop.NewWriterPG(pool))

	var ethnicityConcept int64 = 2000000999
	ethnicityName := strings.Repeat("e", 255)
	if err := svc.UpsertConcepts(ctx, []*omop.Concept{{
		ConceptID: ethnicityConcept, ConceptName: ethnicityName, DomainID: "Ethnicity",
		VocabularyID: "Ethnicity", ConceptCode: "wide",
	}}); err != nil {
		t.Fatalf("upsert concept: %v", err)
	}

	her2 := strings.Repeat("h", 50)
	er := "Positive (IHC 3+, FISH amplified)"
	alcohol := strings.Repeat("a", 255)
	tobacco := strings.Repeat("T", 30)
	date := asOf.AddDate(0, -1, 0)
	rec := &omop.Record{
		Person: &omop.Person{YearOfBirth: 1970, EthnicityConceptID: &ethnicityConcept},
		Biomarkers: []*omop.BiomarkerMeasurement{
			{BiomarkerType: omopcodes.BiomarkerHER2, QualitativeResult: &her2, Date: &date},
			{BiomarkerType: omopcodes.BiomarkerER, QualitativeResult: &er, Date: &date},
		},
		HealthBehaviors: []*omop.HealthBehavior{
			{BehaviorType: omopcodes.BehaviorAlcoholUse, Details: &alcohol, Date: &date},
			{BehaviorType: omopcodes.BehaviorTobaccoUse, Status: &tobacco, Details: &alcohol, Date: &date},
		},
	}
	if err := svc.WriteRecord(ctx, rec); err != nil {
		t.Fatalf("write record: %v", err)
	}
	id := rec.Person.PersonID
	t.Cleanup(func() {
		pool.Exec(context.Background(), `DELETE FROM person WHERE person_id = $1`, id)
		pool.Exec(context.Background(), `DELETE FROM concept WHERE concept_id = $1`, ethnicityConcept)
	})

	report, err := newAggregator().Run(ctx, aggregator.RunOptions{PersonIDs: []int64{id}, AsOf: asOf})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Counts[aggregator.OutcomeCreated] != 1 {
		for _, r := range report.Results {
			t.Logf("person %d: %s %v", r.PersonID, r.Outcome, r.Err)
		}
		t.Fatalf("counts = %v, want one created", report.Counts)
	}

	got, err := patientinfo.NewRepoPG(pool).GetByPersonID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	checks := []struct {
		name string
		got  *string
		want string
	}{
		{"ethnicity", got.Ethnicity, ethnicityName},
		{"her2_status", got.HER2Status, her2},
		{"estrogen_receptor_status", got.EstrogenReceptorStatus, er},
		{"alcohol_use", got.AlcoholUse, alcohol},
		{"tobacco_use_details", got.TobaccoUseDetails, alcohol},
	}
	for _, c := range checks {
		if c.got == nil || *c.got != c.want {
			t.Errorf("%s not stored in full (len %d)", c.name, len(derefStr(c.got)))
		}
	}
}

func derefStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func equalInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
