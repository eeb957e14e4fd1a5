package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yasserrrr2025/rasd2/internal/importer"
	"github.com/yasserrrr2025/rasd2/internal/parser"
)

func newRosterCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "roster <file.xlsx>",
		Short: "Replace the teacher roster (teacher, grade, subject, section)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := e.app.Importer.ImportRoster(importer.FileInput{Path: args[0]})
			if err != nil {
				if errors.Is(err, parser.ErrRosterEmpty) {
					return fmt.Errorf("%s: %w; previous roster kept", args[0], err)
				}
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "roster replaced: %d of %d rows accepted across %d grade(s)\n",
				res.Report.Accepted, res.Report.DataRows, res.Grades)
			if len(res.Report.Skipped) > 0 {
				fmt.Fprintf(out, "skipped rows: %v\n", res.Report.Skipped)
			}
			return nil
		},
	}
}
