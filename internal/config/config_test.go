package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/yasserrrr2025/rasd2/internal/model"
)

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvLogLevel, "")

	cfg, info, err := LoadFile(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if info.FromFile || info.PortSpecified {
		t.Fatalf("info=%+v", info)
	}
	if cfg.Server.Port != DefaultConfig().Server.Port || cfg.Data.DBFile != "rasd.db" {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestLoadFileOverridesAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[server]
port = 9000

[data]
auto_backup = false

[parser]
header_window = 60
grade_keywords = ["Level"]
first_period = ["Term 1"]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv(EnvDataDir, "/srv/rasd")
	t.Setenv(EnvLogLevel, "debug")

	cfg, info, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !info.FromFile || !info.PortSpecified {
		t.Fatalf("info=%+v", info)
	}
	if cfg.Server.Port != 9000 || cfg.Data.AutoBackup {
		t.Fatalf("server/data=%+v %+v", cfg.Server, cfg.Data)
	}
	if cfg.Data.DataDir != "/srv/rasd" || cfg.Log.Level != "debug" {
		t.Fatalf("env overrides not applied: %+v %+v", cfg.Data, cfg.Log)
	}
	// untouched keys keep their defaults
	if cfg.Parser.MinNameLength != 4 || cfg.Log.MaxBackups != 5 {
		t.Fatalf("defaults lost: %+v", cfg.Parser)
	}

	p := cfg.Parser.Profile()
	if p.HeaderWindow != 60 || p.MetadataWindow != 20 {
		t.Fatalf("windows=%d/%d", p.HeaderWindow, p.MetadataWindow)
	}
	if !slices.Contains(p.Grade.Keywords, "Level") || !slices.Contains(p.Grade.Keywords, "Grade") {
		t.Fatalf("grade keywords=%v", p.Grade.Keywords)
	}
	for _, alias := range p.Periods {
		if alias.Period == model.PeriodFirst && !slices.Contains(alias.Aliases, "Term 1") {
			t.Fatalf("first aliases=%v", alias.Aliases)
		}
	}
}

func TestLoadFileInvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	_ = os.WriteFile(path, []byte("[server\nport ="), 0644)
	if _, _, err := LoadFile(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestEnsureDataDir(t *testing.T) {
	base := t.TempDir()
	cfg := DefaultConfig()

	dir, err := EnsureDataDir(cfg, base)
	if err != nil {
		t.Fatalf("EnsureDataDir: %v", err)
	}
	if dir != filepath.Join(base, "data") {
		t.Fatalf("dir=%s", dir)
	}
	for _, sub := range []string{DirExports, DirBackups} {
		if st, err := os.Stat(filepath.Join(dir, sub)); err != nil || !st.IsDir() {
			t.Fatalf("missing %s: %v", sub, err)
		}
	}
	if got := DBPath(cfg, dir); got != filepath.Join(dir, "rasd.db") {
		t.Fatalf("DBPath=%s", got)
	}
}

func TestProfileDoesNotAliasDefaults(t *testing.T) {
	c := ParserConfig{GradeKeywords: []string{"Level"}}
	_ = c.Profile()
	p := ParserConfig{}.Profile()
	if slices.Contains(p.Grade.Keywords, "Level") {
		t.Fatalf("extra keywords leaked into defaults")
	}
}
