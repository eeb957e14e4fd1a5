package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/yasserrrr2025/rasd2/internal/model"
	"github.com/yasserrrr2025/rasd2/internal/service/excel"
	"github.com/yasserrrr2025/rasd2/internal/service/report"
)

func newExportCmd(e *env) *cobra.Command {
	var (
		output string
		period string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the summary workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := model.ParsePeriodFilter(period)
			rows := report.ExportRows(e.app.State.Summary(), e.app.State.Roster(), f)
			file, err := excel.ExportSummary(rows)
			if err != nil {
				return err
			}
			defer file.Close()

			if output == "" {
				output = filepath.Join(e.app.ExportDir(), "rasd-summary-"+time.Now().Format("20060102")+".xlsx")
			}
			if err := file.SaveAs(output); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows written to %s\n", len(rows), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <data>/exports/rasd-summary-<date>.xlsx)")
	cmd.Flags().StringVar(&period, "period", "both", "first, second or both")
	return cmd
}
