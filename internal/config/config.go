package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/yasserrrr2025/rasd2/internal/model"
	"github.com/yasserrrr2025/rasd2/internal/parser"
)

// Environment overrides
const (
	EnvDataDir  = "RASD_DATA_DIR"
	EnvLogLevel = "RASD_LOG_LEVEL"
)

// AppConfig application configuration
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Log    LogConfig    `toml:"log"`
	Parser ParserConfig `toml:"parser"`
}

// ServerConfig http server
type ServerConfig struct {
	Port        int  `toml:"port"`
	DevMode     bool `toml:"dev_mode"`
	OpenBrowser bool `toml:"open_browser"`
}

// DataConfig storage locations
type DataConfig struct {
	DataDir    string `toml:"data_dir"`
	DBFile     string `toml:"db_file"`
	AutoBackup bool   `toml:"auto_backup"`
}

// LogConfig zap + lumberjack settings
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Console    bool   `toml:"console"`
}

// ParserConfig scan bounds and extra keywords appended to the built-in sets
type ParserConfig struct {
	MetadataWindow int    `toml:"metadata_window"`
	HeaderWindow   int    `toml:"header_window"`
	MinNameLength  int    `toml:"min_name_length"`
	DefaultGrade   string `toml:"default_grade"`
	DefaultSection string `toml:"default_section"`

	GradeKeywords   []string `toml:"grade_keywords"`
	SectionKeywords []string `toml:"section_keywords"`
	SectionReject   []string `toml:"section_reject"`
	IdentityHeaders []string `toml:"identity_headers"`
	PeriodHeaders   []string `toml:"period_headers"`
	FirstPeriod     []string `toml:"first_period"`
	SecondPeriod    []string `toml:"second_period"`
	ExcludeHeaders  []string `toml:"exclude_headers"`
}

// LoadConfigInfo where the configuration came from
type LoadConfigInfo struct {
	Path          string
	FromFile      bool
	PortSpecified bool
}

// DefaultConfig built-in defaults
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        20262,
			DevMode:     false,
			OpenBrowser: true,
		},
		Data: DataConfig{
			DataDir:    "data",
			DBFile:     "rasd.db",
			AutoBackup: true,
		},
		Log: LogConfig{
			Level:      "info",
			File:       "logs/rasd.log",
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Console:    true,
		},
		Parser: ParserConfig{
			MetadataWindow: 20,
			HeaderWindow:   40,
			MinNameLength:  4,
			DefaultGrade:   model.DefaultGradeLabel,
			DefaultSection: model.DefaultSectionLabel,
		},
	}
}

// Profile parser profile: built-in keyword sets extended with the configured ones
func (c ParserConfig) Profile() parser.Profile {
	p := parser.DefaultProfile()
	if c.MetadataWindow > 0 {
		p.MetadataWindow = c.MetadataWindow
	}
	if c.HeaderWindow > 0 {
		p.HeaderWindow = c.HeaderWindow
	}
	if c.MinNameLength > 0 {
		p.MinNameLength = c.MinNameLength
	}
	if c.DefaultGrade != "" {
		p.DefaultGrade = c.DefaultGrade
	}
	if c.DefaultSection != "" {
		p.DefaultSection = c.DefaultSection
	}

	p.Grade.Keywords = appendNonEmpty(p.Grade.Keywords, c.GradeKeywords)
	p.Section.Keywords = appendNonEmpty(p.Section.Keywords, c.SectionKeywords)
	p.Section.Reject = appendNonEmpty(p.Section.Reject, c.SectionReject)
	p.Identity = appendNonEmpty(p.Identity, c.IdentityHeaders)
	p.PeriodHeader = appendNonEmpty(p.PeriodHeader, c.PeriodHeaders)
	p.ExcludeContains = appendNonEmpty(p.ExcludeContains, c.ExcludeHeaders)
	for i := range p.Periods {
		switch p.Periods[i].Period {
		case model.PeriodFirst:
			p.Periods[i].Aliases = appendNonEmpty(p.Periods[i].Aliases, c.FirstPeriod)
		case model.PeriodSecond:
			p.Periods[i].Aliases = appendNonEmpty(p.Periods[i].Aliases, c.SecondPeriod)
		}
	}
	return p
}

func appendNonEmpty(dst, extra []string) []string {
	out := append([]string(nil), dst...)
	for _, s := range extra {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}
	serverMap, ok := raw["server"].(map[string]any)
	if !ok {
		return false
	}
	_, ok = serverMap["port"]
	return ok
}

// GetExeDir directory of the running executable
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

func exeDirOrDot() string {
	dir, err := GetExeDir()
	if err != nil || dir == "" {
		return "."
	}
	return dir
}

// DefaultPath config.toml next to the executable
func DefaultPath() string {
	return filepath.Join(exeDirOrDot(), "config.toml")
}

// LoadFile loads path (defaults when the file does not exist) and applies env overrides
func LoadFile(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.FromFile = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, err
		}
	case os.IsNotExist(err):
	default:
		return nil, info, err
	}

	applyEnv(config)
	return config, info, nil
}

// LoadConfigWithInfo loads config.toml from the executable's directory
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadFile(DefaultPath())
}

// LoadConfig loads config.toml from the executable's directory
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

func applyEnv(config *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		config.Data.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		config.Log.Level = v
	}
}

// SaveConfig writes the configuration to path
func SaveConfig(config *AppConfig, path string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Subdirectories created under the data directory
const (
	DirExports = "exports"
	DirBackups = "backups"
)

// ResolveDataDir absolute data directory; relative paths hang off baseDir
func ResolveDataDir(config *AppConfig, baseDir string) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	if baseDir == "" {
		baseDir = exeDirOrDot()
	}
	return filepath.Join(baseDir, config.Data.DataDir)
}

// EnsureDataDir creates the data directory and its subdirectories
func EnsureDataDir(config *AppConfig, baseDir string) (string, error) {
	dataDir := ResolveDataDir(config, baseDir)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	for _, subdir := range []string{DirExports, DirBackups} {
		if err := os.MkdirAll(filepath.Join(dataDir, subdir), 0755); err != nil {
			return "", err
		}
	}
	return dataDir, nil
}

// DBPath sqlite file inside the data directory
func DBPath(config *AppConfig, dataDir string) string {
	if filepath.IsAbs(config.Data.DBFile) {
		return config.Data.DBFile
	}
	return filepath.Join(dataDir, config.Data.DBFile)
}
