// Package aggregator rebuilds patient_info rows from the OMOP source tables,
// one patient and one transaction at a time.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ctomop/ctomop/internal/domain/omop"
	"github.com/ctomop/ctomop/internal/domain/patientinfo"
	"github.com/ctomop/ctomop/internal/extract"
	"github.com/ctomop/ctomop/internal/platform/metrics"
)

type Outcome string

const (
	OutcomeCreated  Outcome = "created"
	OutcomeUpdated  Outcome = "updated"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeError    Outcome = "error"
	OutcomeNotFound Outcome = "not_found"
)

// Outcomes lists every outcome in report order.
var Outcomes = []Outcome{OutcomeCreated, OutcomeUpdated, OutcomeSkipped, OutcomeNotFound, OutcomeError}

// TxRunner scopes one patient's reads and upsert to a transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Aggregator struct {
	sources omop.Readers
	store   patientinfo.Repository
	tx      TxRunner
	logger  zerolog.Logger
	metrics *metrics.Collector
	now     func() time.Time
}

type Option func(*Aggregator)

// WithMetrics records outcomes and per-patient latency on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(a *Aggregator) { a.metrics = c }
}

// WithClock overrides the clock used for LastUpdated and the default as-of date.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

func New(sources omop.Readers, store patientinfo.Repository, tx TxRunner, logger zerolog.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		sources: sources,
		store:   store,
		tx:      tx,
		logger:  logger.With().Str("component", "aggregator").Logger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type RunOptions struct {
	// PersonIDs limits the run to these patients. Empty means every person.
	PersonIDs   []int64
	ForceUpdate bool
	// AsOf is the reference date for age. Zero means the current time.
	AsOf time.Time
}

type Result struct {
	PersonID int64
	Outcome  Outcome
	Err      error
	Warnings []string
}

type Report struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Results  []Result
	Counts   map[Outcome]int
}

func (r *Report) Total() int { return len(r.Results) }

// Failed reports whether any patient ended in error.
func (r *Report) Failed() bool { return r.Counts[OutcomeError] > 0 }

// Run processes the requested patients sequentially. A failure for one
// patient is logged and recorded in the report without stopping the loop.
// The returned error is non-nil only when the patient list cannot be loaded
// or ctx is cancelled between patients.
func (a *Aggregator) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	report := &Report{
		RunID:   uuid.NewString(),
		Started: a.now(),
		Counts:  make(map[Outcome]int, len(Outcomes)),
	}
	log := a.logger.With().Str("run_id", report.RunID).Logger()
	if a.metrics != nil {
		a.metrics.RunStarted()
	}

	ids := opts.PersonIDs
	if len(ids) == 0 {
		var err error
		ids, err = a.sources.Persons.ListIDs(ctx)
		if err != nil {
			return report, fmt.Errorf("list persons: %w", err)
		}
	}
	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = a.now()
	}

	log.Info().Int("patients", len(ids)).Bool("force_update", opts.ForceUpdate).
		Time("as_of", asOf).Msg("aggregation started")

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			a.finish(report, log)
			return report, err
		}
		res := a.process(ctx, log, id, opts.ForceUpdate, asOf)
		report.Results = append(report.Results, res)
		report.Counts[res.Outcome]++
	}

	a.finish(report, log)
	return report, nil
}

func (a *Aggregator) finish(report *Report, log zerolog.Logger) {
	report.Finished = a.now()
	if a.metrics != nil {
		a.metrics.RunFinished(report.Finished)
	}
	ev := log.Info()
	for _, o := range Outcomes {
		ev = ev.Int(string(o), report.Counts[o])
	}
	ev.Dur("duration", report.Finished.Sub(report.Started)).Msg("aggregation finished")
}

// Refresh recomputes a single patient. It satisfies patientinfo.Refresher.
func (a *Aggregator) Refresh(ctx context.Context, personID int64, force bool) (string, error) {
	log := a.logger.With().Str("run_id", uuid.NewString()).Logger()
	res := a.process(ctx, log, personID, force, a.now())
	return string(res.Outcome), res.Err
}

func (a *Aggregator) process(ctx context.Context, log zerolog.Logger, personID int64, force bool, asOf time.Time) (res Result) {
	res.PersonID = personID
	start := time.Now()
	log = log.With().Int64("person_id", personID).Logger()

	defer func() {
		if p := recover(); p != nil {
			res.Outcome = OutcomeError
			res.Err = fmt.Errorf("panic: %v", p)
		}
		switch res.Outcome {
		case OutcomeError:
			log.Error().Err(res.Err).Msg("patient aggregation failed")
		case OutcomeNotFound:
			log.Warn().Msg("person not found")
		default:
			log.Debug().Str("outcome", string(res.Outcome)).Msg("patient processed")
		}
		if a.metrics != nil {
			a.metrics.ObservePatient(string(res.Outcome), time.Since(start))
		}
	}()

	err := a.tx.WithTx(ctx, func(ctx context.Context) error {
		exists, err := a.store.Exists(ctx, personID)
		if err != nil {
			return fmt.Errorf("check existing summary: %w", err)
		}
		if exists && !force {
			res.Outcome = OutcomeSkipped
			return nil
		}

		rec, err := a.sources.LoadRecord(ctx, personID)
		if errors.Is(err, omop.ErrNotFound) {
			res.Outcome = OutcomeNotFound
			return nil
		}
		if err != nil {
			return fmt.Errorf("load source records: %w", err)
		}

		info, issues := extract.Build(rec, asOf)
		for _, e := range issues.Mutations {
			log.Warn().Err(e).Msg("genetic mutation dropped")
			res.Warnings = append(res.Warnings, e.Error())
		}
		for _, u := range issues.Units {
			log.Warn().Int64("measurement_id", u.MeasurementID).Str("lab", u.Keyword).
				Str("source_unit", u.SourceUnit).Str("stored_unit", u.StoredUnit).
				Msg("lab unit differs from stored label")
			res.Warnings = append(res.Warnings, u.Error())
		}

		info.PersonID = personID
		info.LastUpdated = a.now().UTC()
		if err := a.store.Upsert(ctx, info); err != nil {
			return fmt.Errorf("upsert patient info: %w", err)
		}
		if exists {
			res.Outcome = OutcomeUpdated
		} else {
			res.Outcome = OutcomeCreated
		}
		return nil
	})
	if err != nil {
		res.Outcome = OutcomeError
		res.Err = err
	}
	return res
}
