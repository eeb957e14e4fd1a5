// Package cli implements rasdctl, the command-line front end over the same
// ingestion pipeline and reports the server exposes.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yasserrrr2025/rasd2/internal/app"
	"github.com/yasserrrr2025/rasd2/internal/config"
	"github.com/yasserrrr2025/rasd2/internal/logger"
)

// Version is set at build time via ldflags.
var Version = "dev"

type rootOptions struct {
	configPath string
	dbPath     string
	dataDir    string
	memory     bool
	logLevel   string
}

// env state shared by the subcommands once the root pre-run has assembled it
type env struct {
	opts rootOptions
	app  *app.App
}

// NewRootCmd builds the rasdctl command tree. Callers that execute it
// directly own closing the app; Run does that for them.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&env{})
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "rasdctl",
		Short: "Grade-recording status tracker",
		Long: `rasdctl ingests exported grade-recording status sheets, keeps the
merged per-class summary, and prints the completion reports.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.open(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&e.opts.configPath, "config", "", "config file (default: config.toml next to the executable)")
	flags.StringVar(&e.opts.dbPath, "db", "", "sqlite database file (overrides the config file)")
	flags.StringVar(&e.opts.dataDir, "data-dir", "", "data directory (overrides the config file)")
	flags.BoolVar(&e.opts.memory, "memory", false, "keep state in memory only")
	flags.StringVar(&e.opts.logLevel, "log-level", "warn", "log level written to stderr")

	root.AddCommand(
		newIngestCmd(e),
		newRosterCmd(e),
		newReportCmd(e),
		newExportCmd(e),
		newResetCmd(e),
		newStatusCmd(e),
		newSnapshotCmd(e),
	)
	return root
}

// Execute runs rasdctl with os.Args
func Execute() error {
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes rasdctl with args. The app opened by the pre-run is closed
// whether the command succeeds or fails.
func Run(args []string, stdout, stderr io.Writer) error {
	return execute(&env{}, args, stdout, stderr)
}

func execute(e *env, args []string, stdout, stderr io.Writer) (err error) {
	root := newRootCmd(e)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	defer func() {
		err = errors.Join(err, e.close())
	}()
	return root.Execute()
}

func (e *env) open(cmd *cobra.Command) error {
	path := e.opts.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, _, err := config.LoadFile(path)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	if e.opts.dataDir != "" {
		cfg.Data.DataDir = e.opts.dataDir
	}

	log, err := logger.NewConsole(cmd.ErrOrStderr(), e.opts.logLevel)
	if err != nil {
		return err
	}

	a, err := app.New(cfg, app.Options{
		BaseDir: filepath.Dir(path),
		DBPath:  e.opts.dbPath,
		Memory:  e.opts.memory,
		Logger:  log,
	})
	if err != nil {
		return err
	}
	e.app = a
	return nil
}

func (e *env) close() error {
	if e.app == nil {
		return nil
	}
	err := e.app.Close()
	e.app = nil
	return err
}
