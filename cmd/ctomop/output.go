package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ctomop/ctomop/internal/aggregator"
	"github.com/ctomop/ctomop/internal/domain/omop"
	"github.com/ctomop/ctomop/internal/domain/patientinfo"
	"github.com/ctomop/ctomop/internal/platform/db"
	"github.com/ctomop/ctomop/internal/platform/sandbox"
)

func writeMigrationStatus(w io.Writer, statuses []db.MigrationStatus) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tNAME\tSTATUS\tAPPLIED AT")
	for _, s := range statuses {
		status, appliedAt := "pending", ""
		if s.Applied {
			status = "applied"
			if s.AppliedAt != nil {
				appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Version, s.Name, status, appliedAt)
	}
	tw.Flush()
}

// writeReport prints per-patient lines when verbose, then the counts.
func writeReport(w io.Writer, r *aggregator.Report, verbose bool) {
	if verbose {
		for _, res := range r.Results {
			switch {
			case res.Err != nil:
				fmt.Fprintf(w, "person %d: %s: %v\n", res.PersonID, res.Outcome, res.Err)
			default:
				fmt.Fprintf(w, "person %d: %s\n", res.PersonID, res.Outcome)
			}
			for _, warn := range res.Warnings {
				fmt.Fprintf(w, "  warning: %s\n", warn)
			}
		}
	}
	fmt.Fprintf(w, "Processed %d patient(s) in %s (run %s)\n",
		r.Total(), r.Finished.Sub(r.Started).Round(1e6), r.RunID)
	for _, o := range aggregator.Outcomes {
		fmt.Fprintf(w, "  %-10s %d\n", o, r.Counts[o])
	}
}

func str(p *string) string {
	if p == nil {
		return "-"
	}
	return *p
}

func writePatientInfo(w io.Writer, items []*patientinfo.PatientInfo, total int) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PERSON\tAGE\tGENDER\tDISEASE\tSTAGE\tLINES\tMUTATIONS\tUPDATED")
	for _, p := range items {
		age, lines := "-", "-"
		if p.PatientAge != nil {
			age = fmt.Sprint(*p.PatientAge)
		}
		if p.TherapyLinesCount != nil {
			lines = fmt.Sprint(*p.TherapyLinesCount)
		}
		var genes []string
		for _, m := range p.GeneticMutations {
			genes = append(genes, m.Gene+":"+m.Variant)
		}
		mutations := "-"
		if len(genes) > 0 {
			mutations = fmt.Sprint(genes)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.PersonID, age, str(p.Gender), str(p.Disease.Disease), str(p.Stage), lines, mutations,
			p.LastUpdated.Format("2006-01-02 15:04"))
	}
	tw.Flush()
	fmt.Fprintf(w, "%d of %d summaries\n", len(items), total)
}

func writeTherapyChecks(w io.Writer, checks []omop.TherapyCheck) int {
	violations := 0
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PERSON\tLINES\tINTENTS\tDISCONTINUATIONS\tSTATUS")
	for _, c := range checks {
		status := "ok"
		if !c.Consistent() {
			status = "VIOLATION"
			violations++
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\n", c.PersonID, c.TreatmentLines, c.IntentObservations, c.DiscontinuationObservations, status)
	}
	tw.Flush()
	fmt.Fprintf(w, "%d person(s) checked, %d violation(s)\n", len(checks), violations)
	return violations
}

func writeSeedResult(w io.Writer, r *sandbox.SeedResult) {
	fmt.Fprintf(w, "Seeded %d patient(s) in %s\n", r.Patients, r.Duration.Round(1e6))
	fmt.Fprintf(w, "  concepts          %d\n", r.Concepts)
	fmt.Fprintf(w, "  conditions        %d\n", r.Conditions)
	fmt.Fprintf(w, "  measurements      %d\n", r.Measurements)
	fmt.Fprintf(w, "  observations      %d\n", r.Observations)
	fmt.Fprintf(w, "  treatment lines   %d\n", r.TreatmentLines)
	fmt.Fprintf(w, "  biomarkers        %d\n", r.Biomarkers)
	fmt.Fprintf(w, "  tumor assessments %d\n", r.TumorAssessments)
}
