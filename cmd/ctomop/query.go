package main

import (
	"github.com/spf13/cobra"

	"github.com/ctomop/ctomop/internal/domain/patientinfo"
)

func queryCmd() *cobra.Command {
	var (
		personID       int64
		disease        string
		gene           string
		origin         string
		interpretation string
		limit          int
		offset         int
	)

	cmd := &cobra.Command{
		Use:   "query-patient-info",
		Short: "List stored patient summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := buildFilter(cmd.Flags().Changed("person-id"), personID, disease, gene, origin, interpretation)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			e, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			svc := patientinfo.NewService(patientinfo.NewRepoPG(e.pool), nil)
			items, total, err := svc.Query(ctx, f, limit, offset)
			if err != nil {
				return err
			}
			writePatientInfo(cmd.OutOrStdout(), items, total)
			return nil
		},
	}

	cmd.Flags().Int64Var(&personID, "person-id", 0, "Only this person")
	cmd.Flags().StringVar(&disease, "disease", "", "Case-insensitive disease substring")
	cmd.Flags().StringVar(&gene, "gene", "", "Patients carrying a mutation in this gene")
	cmd.Flags().StringVar(&origin, "origin", "", "Mutation origin: germline or somatic")
	cmd.Flags().StringVar(&interpretation, "interpretation", "", "Mutation interpretation: pathogenic, benign or vus")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum rows to print")
	cmd.Flags().IntVar(&offset, "offset", 0, "Rows to skip")
	return cmd
}

func buildFilter(hasPerson bool, personID int64, disease, gene, origin, interpretation string) (patientinfo.Filter, error) {
	f := patientinfo.Filter{Disease: disease, Gene: gene}
	if hasPerson {
		f.PersonID = &personID
	}
	if origin != "" {
		o, err := patientinfo.ParseOrigin(origin)
		if err != nil {
			return f, err
		}
		f.Origin = o
	}
	if interpretation != "" {
		i, err := patientinfo.ParseInterpretation(interpretation)
		if err != nil {
			return f, err
		}
		f.Interpretation = i
	}
	return f, nil
}
