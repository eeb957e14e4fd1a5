package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newResetCmd(e *env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the summary, roster and baseline snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset clears all stored data; pass --yes to confirm")
			}
			backup, err := e.app.State.Reset()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if backup != "" {
				fmt.Fprintf(out, "previous state saved to %s\n", backup)
			}
			fmt.Fprintln(out, "all data cleared")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func newSnapshotCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Make the current summary the heatmap baseline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.app.State.TakeSnapshot(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "baseline snapshot saved")
			return nil
		},
	}
}

func newStatusCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := e.app.State.Stats()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer tw.Flush()
			fmt.Fprintf(tw, "data dir\t%s\n", e.app.DataDir)
			fmt.Fprintf(tw, "classes\t%d\n", st.Classes)
			fmt.Fprintf(tw, "buckets\t%d\n", st.Buckets)
			fmt.Fprintf(tw, "roster\t%t\n", st.HasRoster)
			fmt.Fprintf(tw, "baseline\t%t\n", st.HasSnapshot)
			if !st.UpdatedAt.IsZero() {
				fmt.Fprintf(tw, "updated\t%s\n", st.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
			}
			if e.app.Store != nil {
				if at, ok, err := e.app.Store.LastImportAt(); err == nil && ok {
					fmt.Fprintf(tw, "last import\t%s\n", at.Local().Format("2006-01-02 15:04:05"))
				}
			}
			return nil
		},
	}
}
