package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ctomop/ctomop/internal/domain/omop"
	"github.com/ctomop/ctomop/internal/platform/db"
	"github.com/ctomop/ctomop/internal/platform/sandbox"
)

func seedCmd() *cobra.Command {
	var (
		patients     int
		seed         int64
		start        string
		maxLines     int
		maxMutations int
		dryRun       bool
	)

	defaults := sandbox.DefaultSeedConfig()
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load synthetic OMOP patients for demos and testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseDate(start)
			if err != nil {
				return err
			}
			cfg := sandbox.SeedConfig{
				PatientCount: patients,
				MaxLines:     maxLines,
				MaxMutations: maxMutations,
				Seed:         seed,
				Reference:    ref,
			}

			if dryRun {
				return sandbox.ExportNDJSON(cmd.OutOrStdout(), cfg)
			}

			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()
			if !cmd.Flags().Changed("seed") && e.cfg.Seed != 0 {
				cfg.Seed = e.cfg.Seed
			}

			svc := omop.NewService(omop.NewReadersPG(e.pool), omop.NewWriterPG(e.pool))
			seeder := sandbox.NewSeeder(svc, cfg, e.logger)

			var result *sandbox.SeedResult
			err = db.NewTxRunner(e.pool).WithTx(ctx, func(ctx context.Context) error {
				var err error
				result, err = seeder.Generate(ctx)
				return err
			})
			if err != nil {
				return err
			}
			writeSeedResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().IntVar(&patients, "patients", defaults.PatientCount, "Number of patients to generate")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed (defaults to SEED when set)")
	cmd.Flags().StringVar(&start, "start", "", "Reference date that generated dates count back from (default: today)")
	cmd.Flags().IntVar(&maxLines, "max-lines", defaults.MaxLines, "Maximum treatment lines per patient")
	cmd.Flags().IntVar(&maxMutations, "max-mutations", defaults.MaxMutations, "Maximum genetic mutations per patient")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Write generated records as NDJSON to stdout without touching the database")
	return cmd
}
