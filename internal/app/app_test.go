package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yasserrrr2025/rasd2/internal/config"
)

func TestNewWithSQLite(t *testing.T) {
	base := t.TempDir()
	cfg := config.DefaultConfig()

	a, err := New(cfg, Options{BaseDir: base})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if a.Store == nil {
		t.Fatalf("expected a sqlite store")
	}
	if _, err := os.Stat(filepath.Join(base, "data", "rasd.db")); err != nil {
		t.Fatalf("db file: %v", err)
	}
	if _, err := os.Stat(a.ExportDir()); err != nil {
		t.Fatalf("exports dir: %v", err)
	}
	if a.State.Stats().HasData {
		t.Fatalf("fresh state should be empty")
	}
}

func TestNewInMemory(t *testing.T) {
	a, err := New(config.DefaultConfig(), Options{BaseDir: t.TempDir(), Memory: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.Store != nil {
		t.Fatalf("memory mode must not open sqlite")
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
