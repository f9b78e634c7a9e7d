package stores

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config selects and configures a backend.
type Config struct {
	Backend string       `yaml:"backend" validate:"required,oneof=file sqlite"`
	File    FileConfig   `yaml:"file"`
	SQLite  SQLiteConfig `yaml:"sqlite"`
}

// New builds the backend named by cfg.Backend without initializing it.
func New(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendFile:
		return NewFileStore(cfg.File)
	case BackendSQLite:
		return NewSQLiteStore(cfg.SQLite)
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.Backend)
	}
}

// Open builds and initializes the backend named by cfg.Backend. The caller
// owns the returned store and must Close it. An initialization failure is a
// startup error.
func Open(ctx context.Context, cfg Config) (Store, error) {
	store, err := New(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.Init(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	return store, nil
}
