// Package app wires configuration, storage, state and ingestion for the
// server and the command-line tool.
package app

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/yasserrrr2025/rasd2/internal/config"
	"github.com/yasserrrr2025/rasd2/internal/importer"
	"github.com/yasserrrr2025/rasd2/internal/metrics"
	"github.com/yasserrrr2025/rasd2/internal/service/state"
	"github.com/yasserrrr2025/rasd2/internal/store"
)

// Options bootstrap overrides
type Options struct {
	// BaseDir anchors relative data paths; empty means the executable's directory
	BaseDir string
	// DBPath overrides the configured sqlite file
	DBPath string
	// Memory keeps all state in memory; nothing is written to disk except backups
	Memory bool
	Logger *zap.Logger
}

// App assembled components. Store is nil in memory mode.
type App struct {
	Config   *config.AppConfig
	DataDir  string
	Log      *zap.Logger
	Store    *store.Store
	State    *state.Manager
	Importer *importer.Coordinator
	Metrics  *metrics.Metrics
}

// New builds the component graph for cfg
func New(cfg *config.AppConfig, opts Options) (*App, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	dataDir, err := config.EnsureDataDir(cfg, opts.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	a := &App{
		Config:  cfg,
		DataDir: dataDir,
		Log:     log,
		Metrics: metrics.New(),
	}

	var kv store.KV
	if opts.Memory {
		kv = store.NewMemoryKV()
		log.Info("using in-memory storage")
	} else {
		dbPath := opts.DBPath
		if dbPath == "" {
			dbPath = config.DBPath(cfg, dataDir)
		}
		st, err := store.New(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		a.Store = st
		kv = st
		log.Info("database opened", zap.String("path", dbPath))
	}

	a.State, err = state.NewManager(kv, state.Options{
		BackupDir:  filepath.Join(dataDir, config.DirBackups),
		AutoBackup: cfg.Data.AutoBackup,
		Logger:     log.Named("state"),
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	importOpts := importer.Options{
		Profile: cfg.Parser.Profile(),
		Metrics: a.Metrics,
		Logger:  log.Named("importer"),
	}
	if a.Store != nil {
		importOpts.Logs = a.Store
	}
	a.Importer = importer.NewCoordinator(a.State, importOpts)
	return a, nil
}

// ExportDir directory receiving saved exports
func (a *App) ExportDir() string {
	return filepath.Join(a.DataDir, config.DirExports)
}

// Close releases the database
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}
