package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/openfroyo/todostore/pkg/config"
	"github.com/openfroyo/todostore/pkg/stores"
	"github.com/openfroyo/todostore/pkg/telemetry"
)

// session is an opened, instrumented store plus the telemetry behind it.
type session struct {
	cfg     *config.Config
	store   stores.Store
	backend stores.Store
	tel     *telemetry.Telemetry
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	if opts.backend != "" {
		cfg.Store.Backend = opts.backend
	}
	if opts.verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openSession builds the configured backend, wraps it with telemetry and
// initializes it. A failed initialization is fatal for the command.
func openSession(ctx context.Context, opts *globalOptions) (context.Context, *session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return ctx, nil, err
	}

	tel, err := telemetry.NewTelemetry(&cfg.Telemetry)
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	ctx = tel.WithContext(ctx)

	backend, err := stores.New(cfg.Store)
	if err != nil {
		_ = tel.Shutdown(ctx)
		return ctx, nil, err
	}

	store := stores.Instrument(backend, cfg.Store.Backend, tel)
	if err := store.Init(ctx); err != nil {
		_ = store.Close()
		_ = tel.Shutdown(ctx)
		return ctx, nil, fmt.Errorf("failed to initialize %s store: %w", cfg.Store.Backend, err)
	}

	log.Debug().Str("backend", cfg.Store.Backend).Msg("Store opened")

	return ctx, &session{
		cfg:     cfg,
		store:   store,
		backend: backend,
		tel:     tel,
	}, nil
}

// Close releases the store and flushes telemetry.
func (s *session) Close(ctx context.Context) {
	if err := s.store.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close store")
	}
	if err := s.tel.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to shut down telemetry")
	}
}
