package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/budgetviz/budgetviz/internal/importer"
	"github.com/budgetviz/budgetviz/internal/logger"
	"github.com/budgetviz/budgetviz/internal/model"
	"github.com/budgetviz/budgetviz/internal/store"
)

// FileName is the config file name inside a project directory.
const FileName = "budgetviz.yaml"

// Config represents the top-level budgetviz.yaml configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Import ImportConfig `yaml:"import"`
	Log    LogConfig    `yaml:"log"`
}

// StoreConfig selects the transaction store backend.
type StoreConfig struct {
	Driver string `yaml:"driver"` // json, sqlite, or memory
	Path   string `yaml:"path"`   // relative to the project directory
}

// ImportConfig controls file ingestion.
type ImportConfig struct {
	SheetName       string `yaml:"sheet_name"`
	DefaultCategory string `yaml:"default_category"`
	Dir             string `yaml:"dir"` // scanned by `import` with no arguments
}

// LogConfig controls logging output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a budgetviz.yaml file from disk. Fields missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads dir/budgetviz.yaml, or returns defaults if it does not exist.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Driver: store.DriverJSON,
			Path:   filepath.Join("data", "db.json"),
		},
		Import: ImportConfig{
			SheetName:       importer.PassbookSheet,
			DefaultCategory: model.DefaultCategory,
			Dir:             "import",
		},
		Log: LogConfig{
			Level:  "info",
			Format: logger.FormatConsole,
		},
	}
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	if !slices.Contains(store.Drivers, c.Store.Driver) {
		return fmt.Errorf("store.driver %q must be one of %v", c.Store.Driver, store.Drivers)
	}
	if c.Store.Driver != store.DriverMemory && c.Store.Path == "" {
		return errors.New("store.path is required")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q must be debug, info, warn, or error", c.Log.Level)
	}
	switch c.Log.Format {
	case logger.FormatConsole, logger.FormatJSON:
	default:
		return fmt.Errorf("log.format %q must be console or json", c.Log.Format)
	}
	return nil
}

// StorePath resolves the store path against the project directory.
func (c *Config) StorePath(dir string) string {
	if filepath.IsAbs(c.Store.Path) {
		return c.Store.Path
	}
	return filepath.Join(dir, c.Store.Path)
}

// ImportDir resolves the import directory against the project directory.
func (c *Config) ImportDir(dir string) string {
	if filepath.IsAbs(c.Import.Dir) {
		return c.Import.Dir
	}
	return filepath.Join(dir, c.Import.Dir)
}
