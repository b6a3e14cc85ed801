package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ctomop/ctomop/internal/domain/omop"
)

func checkTherapyCmd() *cobra.Command {
	var personIDs []int64

	cmd := &cobra.Command{
		Use:   "check-therapy",
		Short: "Verify intent and discontinuation observations against treatment lines",
		Long: `For each person with N treatment lines there must be N treatment intent
observations and N-1 discontinuation reason observations. Exits non-zero
when any person violates the rule.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			svc := omop.NewService(omop.NewReadersPG(e.pool), omop.NewWriterPG(e.pool))
			checks, err := svc.CheckTherapy(ctx, personIDs)
			if err != nil {
				return err
			}
			if n := writeTherapyChecks(cmd.OutOrStdout(), checks); n > 0 {
				return fmt.Errorf("%d person(s) violate the therapy observation rule", n)
			}
			return nil
		},
	}
	cmd.Flags().Int64SliceVar(&personIDs, "person-id", nil, "Check only these person ids")
	return cmd
}
