package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ctomop/ctomop/internal/aggregator"
	"github.com/ctomop/ctomop/internal/domain/omop"
	"github.com/ctomop/ctomop/internal/domain/patientinfo"
	"github.com/ctomop/ctomop/internal/platform/db"
)

func populateCmd() *cobra.Command {
	var (
		personIDs   []int64
		forceUpdate bool
		verbose     bool
		asOf        string
		failOnError bool
	)

	cmd := &cobra.Command{
		Use:   "populate-patient-info",
		Short: "Build or refresh patient summaries from OMOP source tables",
		Long: `Aggregates each person's OMOP records into one patient_info row.

Without --person-id every person in the person table is processed. Existing
summaries are skipped unless --force-update is given. A failure for one
patient is reported and the run continues.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			date, err := parseDate(asOf)
			if err != nil {
				return err
			}

			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()
			if verbose {
				e.logger = e.logger.Level(zerolog.DebugLevel)
			}

			agg := aggregator.New(omop.NewReadersPG(e.pool), patientinfo.NewRepoPG(e.pool),
				db.NewTxRunner(e.pool), e.logger)
			report, err := agg.Run(ctx, aggregator.RunOptions{
				PersonIDs:   personIDs,
				ForceUpdate: forceUpdate,
				AsOf:        date,
			})
			if err != nil {
				return err
			}
			writeReport(cmd.OutOrStdout(), report, verbose)
			if failOnError && report.Failed() {
				return fmt.Errorf("%d patient(s) failed", report.Counts[aggregator.OutcomeError])
			}
			return nil
		},
	}

	cmd.Flags().Int64SliceVar(&personIDs, "person-id", nil, "Process only these person ids (repeatable or comma-separated)")
	cmd.Flags().BoolVar(&forceUpdate, "force-update", false, "Rebuild summaries that already exist")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print one line per patient and enable debug logging")
	cmd.Flags().StringVar(&asOf, "as-of", "", "Reference date for age calculation (default: today)")
	cmd.Flags().BoolVar(&failOnError, "fail-on-error", false, "Exit non-zero if any patient failed")
	return cmd
}
