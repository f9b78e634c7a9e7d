package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/openfroyo/todostore/pkg/stores"
	"github.com/openfroyo/todostore/pkg/telemetry"
)

// Config is the configuration file layout.
type Config struct {
	// Store selects and configures the persistence backend.
	Store stores.Config `yaml:"store"`

	// Telemetry configures logging, tracing and metrics.
	Telemetry telemetry.Config `yaml:"telemetry"`
}

// Default returns the configuration used when no file is given: a file
// backend under ./data/todos.
func Default() *Config {
	return &Config{
		Store: stores.Config{
			Backend: stores.BackendFile,
			File: stores.FileConfig{
				Dir: filepath.Join("data", "todos"),
			},
			SQLite: stores.SQLiteConfig{
				Path: filepath.Join("data", "todo.db"),
			},
		},
		Telemetry: *telemetry.DefaultConfig(),
	}
}

// Load reads a YAML configuration file over the defaults and validates the
// result. An empty path yields the validated defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the store section with struct tags and the telemetry
// section with its own rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	return c.Telemetry.Validate()
}

// Write serializes the configuration to path. It refuses to replace an
// existing file unless overwrite is set.
func (c *Config) Write(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateStoreConfig, stores.Config{})
	return v
}

// validateStoreConfig requires the location of the selected backend.
func validateStoreConfig(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(stores.Config)

	switch cfg.Backend {
	case stores.BackendFile:
		if cfg.File.Dir == "" {
			sl.ReportError(cfg.File.Dir, "Dir", "dir", "required_for_backend", cfg.Backend)
		}
	case stores.BackendSQLite:
		if cfg.SQLite.Path == "" {
			sl.ReportError(cfg.SQLite.Path, "Path", "path", "required_for_backend", cfg.Backend)
		}
	}
}
