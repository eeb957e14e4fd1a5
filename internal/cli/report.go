package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yasserrrr2025/rasd2/internal/model"
	"github.com/yasserrrr2025/rasd2/internal/service/report"
	"github.com/yasserrrr2025/rasd2/internal/util"
)

var reportKinds = []string{"overview", "ranking", "teachers", "incomplete", "heatmap", "tracking"}

func newReportCmd(e *env) *cobra.Command {
	var (
		period string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:       "report <" + strings.Join(reportKinds, "|") + ">",
		Short:     "Print a completion report",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: reportKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := model.ParsePeriodFilter(period)
			summary, roster := e.app.State.Summary(), e.app.State.Roster()
			out := cmd.OutOrStdout()

			var data any
			switch args[0] {
			case "overview":
				data = report.Overview(summary, roster, f)
			case "ranking":
				data = report.ClassRanking(summary, f)
			case "teachers":
				data = report.TeacherStats(summary, roster, f)
			case "incomplete":
				data = report.IncompleteStudents(summary, f)
			case "heatmap":
				data = report.Heatmap(summary, e.app.State.Snapshot(), f)
			case "tracking":
				data = report.Tracking(summary, f)
			}
			if asJSON {
				return writeJSON(out, data)
			}
			return printReport(out, data)
		},
	}
	cmd.Flags().StringVar(&period, "period", "both", "first, second or both")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

// printReport tabular rendering; reports without one fall back to JSON
func printReport(w io.Writer, data any) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	switch v := data.(type) {
	case report.OverviewReport:
		fmt.Fprintf(tw, "recorded\t%d\n", v.Completed)
		fmt.Fprintf(tw, "not recorded\t%d\n", v.Pending)
		fmt.Fprintf(tw, "total\t%d\n", v.Total)
		fmt.Fprintf(tw, "completion\t%s\n", util.FormatPercent(v.Percentage))
		fmt.Fprintf(tw, "students\t%d\n", v.Students)
		fmt.Fprintf(tw, "subjects\t%d\n", v.Subjects)
		fmt.Fprintf(tw, "teachers\t%d\n", v.Teachers)
	case []report.ClassRank:
		fmt.Fprintln(tw, "CLASS\tRECORDED\tPENDING\tCOMPLETION")
		for _, r := range v {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", r.Label, r.Completed, r.Pending, util.FormatPercent(r.Percentage))
		}
	case []report.TeacherStat:
		fmt.Fprintln(tw, "TEACHER\tRECORDED\tPENDING\tCOMPLETION\tSUBJECTS")
		for _, s := range v {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", s.Teacher, s.Completed, s.Pending,
				util.FormatPercent(s.CompletionPercentage), strings.Join(s.Details, report.TeacherSeparator))
		}
	case []report.IncompleteStudent:
		fmt.Fprintln(tw, "CLASS\tSTUDENT\tPENDING\tSUBJECTS")
		for _, s := range v {
			var parts []string
			for _, p := range model.AllPeriods {
				if subjects := s.Periods[p]; len(subjects) > 0 {
					parts = append(parts, string(p)+": "+strings.Join(subjects, ", "))
				}
			}
			fmt.Fprintf(tw, "%s - %s\t%s\t%d\t%s\n", s.Grade, s.Section, s.Name, s.Count, strings.Join(parts, "; "))
		}
	default:
		return writeJSON(w, data)
	}
	return nil
}
