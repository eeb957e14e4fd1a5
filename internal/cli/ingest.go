package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yasserrrr2025/rasd2/internal/importer"
)

func newIngestCmd(e *env) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "ingest <file.xlsx>...",
		Short: "Merge status-report workbooks into the summary",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := make([]importer.FileInput, len(args))
			for i, path := range args {
				files[i] = importer.FileInput{Path: path}
			}
			report := e.app.Importer.Run(importer.ImportOptions{Files: files})
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			printImportReport(cmd.OutOrStdout(), report)
			if report.CommitError != "" {
				return fmt.Errorf("summary not saved: %s", report.CommitError)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the import report as JSON")
	return cmd
}

func printImportReport(w io.Writer, r *importer.ImportReport) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tSTATUS\tGRADE\tSECTION\tRECORDS\tNOTE")
	for _, f := range r.Files {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n", f.Filename, f.Status, f.Grade, f.Section, f.Records, f.Error)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d imported, %d skipped, %d failed; %d records in %d buckets\n",
		r.ImportedFiles, r.SkippedFiles, r.ErrorFiles, r.Records, r.Buckets)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
