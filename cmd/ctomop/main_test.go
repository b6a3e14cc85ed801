package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/ctomop/ctomop/internal/aggregator"
	"github.com/ctomop/ctomop/internal/config"
	"github.com/ctomop/ctomop/internal/domain/omop"
	"github.com/ctomop/ctomop/internal/domain/patientinfo"
	"github.com/ctomop/ctomop/internal/domain/patientinfo/patientinfotest"
	"github.com/ctomop/ctomop/internal/platform/metrics"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCmd()
	want := []string{"serve", "migrate", "populate-patient-info", "query-patient-info", "check-therapy", "seed"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestPopulateCommand_Flags(t *testing.T) {
	cmd := populateCmd()
	if err := cmd.ParseFlags([]string{"--person-id", "1,2", "--person-id", "7", "--force-update", "--as-of", "2024-03-15"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	ids, err := cmd.Flags().GetInt64Slice("person-id")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 7 {
		t.Errorf("person ids = %v, want [1 2 7]", ids)
	}
	if force, _ := cmd.Flags().GetBool("force-update"); !force {
		t.Error("expected force-update")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"", time.Time{}},
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"03/15/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"March 15, 2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseDate(tt.in)
		if err != nil {
			t.Errorf("parseDate(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := parseDate("not a date"); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestWriteReport(t *testing.T) {
	started := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := &aggregator.Report{
		RunID:    "run-1",
		Started:  started,
		Finished: started.Add(1500 * time.Millisecond),
		Results: []aggregator.Result{
			{PersonID: 1, Outcome: aggregator.OutcomeCreated, Warnings: []string{"measurement 9: unknown origin"}},
			{PersonID: 2, Outcome: aggregator.OutcomeError, Err: errors.New("boom")},
		},
		Counts: map[aggregator.Outcome]int{aggregator.OutcomeCreated: 1, aggregator.OutcomeError: 1},
	}

	var quiet bytes.Buffer
	writeReport(&quiet, r, false)
	if strings.Contains(quiet.String(), "person 1") {
		t.Error("non-verbose report should not list patients")
	}
	if !strings.Contains(quiet.String(), "Processed 2 patient(s)") {
		t.Errorf("missing summary line:\n%s", quiet.String())
	}

	var loud bytes.Buffer
	writeReport(&loud, r, true)
	out := loud.String()
	for _, want := range []string{"person 1: created", "person 2: error: boom", "warning: measurement 9", "run-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("verbose report missing %q:\n%s", want, out)
		}
	}
}

func TestBuildFilter(t *testing.T) {
	f, err := buildFilter(true, 5, "lung", "egfr", "Somatic", "pathogenic")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.PersonID == nil || *f.PersonID != 5 {
		t.Errorf("person id = %v", f.PersonID)
	}
	if f.Origin != patientinfo.OriginSomatic || f.Interpretation != patientinfo.InterpretationPathogenic {
		t.Errorf("filter = %+v", f)
	}

	f, err = buildFilter(false, 0, "", "", "", "")
	if err != nil || f.PersonID != nil {
		t.Errorf("empty filter: %+v, %v", f, err)
	}

	if _, err := buildFilter(false, 0, "", "", "inherited", ""); err == nil {
		t.Error("expected error for invalid origin")
	}
	if _, err := buildFilter(false, 0, "", "", "", "likely"); err == nil {
		t.Error("expected error for invalid interpretation")
	}
}

func TestWriteTherapyChecks(t *testing.T) {
	checks := []omop.TherapyCheck{
		{PersonID: 1, TreatmentLines: 2, IntentObservations: 2, DiscontinuationObservations: 1},
		{PersonID: 2, TreatmentLines: 3, IntentObservations: 3, DiscontinuationObservations: 3},
	}
	var buf bytes.Buffer
	if n := writeTherapyChecks(&buf, checks); n != 1 {
		t.Errorf("violations = %d, want 1", n)
	}
	if !strings.Contains(buf.String(), "VIOLATION") {
		t.Errorf("output missing violation marker:\n%s", buf.String())
	}
}

func TestSeedCommand_DryRun(t *testing.T) {
	cmd := seedCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--dry-run", "--patients", "3", "--seed", "42", "--start", "2024-06-01"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("seed --dry-run: %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 3 {
		t.Errorf("got %d NDJSON lines, want 3", lines)
	}
}

type stubRefresher struct{}

func (stubRefresher) Refresh(_ context.Context, _ int64, _ bool) (string, error) {
	return string(aggregator.OutcomeUpdated), nil
}

func testServer(t *testing.T, cfg *config.Config) (*echo.Echo, *patientinfotest.Store) {
	t.Helper()
	store := patientinfotest.NewStore()
	svc := patientinfo.NewService(store, stubRefresher{})
	collector := metrics.NewCollector(prometheus.NewRegistry())
	health := func(c echo.Context) error { return c.JSON(http.StatusOK, map[string]string{"status": "ok"}) }
	return newServer(cfg, zerolog.Nop(), svc, collector, health), store
}

func TestNewServer_DevelopmentRoutes(t *testing.T) {
	srv, store := testServer(t, &config.Config{Env: "development", CORSOrigins: []string{"*"}})
	if err := store.Upsert(context.Background(), &patientinfo.PatientInfo{PersonID: 1, GeneticMutations: []patientinfo.GeneticMutation{}}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/v1/patient-info", http.StatusOK},
		{http.MethodGet, "/api/v1/patient-info/1", http.StatusOK},
		{http.MethodGet, "/api/v1/patient-info/99", http.StatusNotFound},
		{http.MethodGet, "/metrics", http.StatusOK},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "ctomop_http_requests_total") {
		t.Error("metrics endpoint does not expose request counter")
	}
}

func TestNewServer_ExternalAuthRequiresToken(t *testing.T) {
	srv, _ := testServer(t, &config.Config{Env: "production", AuthSigningKey: "secret"})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/patient-info", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}
}
