package main

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/haukened/zonekeeper/internal/dns/common/clock"
	"github.com/haukened/zonekeeper/internal/dns/common/log"
	"github.com/haukened/zonekeeper/internal/dns/config"
	"github.com/haukened/zonekeeper/internal/dns/domain"
	"github.com/haukened/zonekeeper/internal/dns/repos/namefilter"
	"github.com/haukened/zonekeeper/internal/dns/repos/rendercache"
	"github.com/haukened/zonekeeper/internal/dns/repos/store"
	"github.com/haukened/zonekeeper/internal/dns/repos/store/bolt"
	"github.com/haukened/zonekeeper/internal/dns/repos/store/memory"
	"github.com/haukened/zonekeeper/internal/dns/repos/store/sqlite"
	"github.com/haukened/zonekeeper/internal/dns/services/recordstore"
	"github.com/haukened/zonekeeper/internal/dns/services/zoneimport"
	"github.com/haukened/zonekeeper/internal/dns/services/zoneregistry"
	"github.com/haukened/zonekeeper/internal/dns/services/zonerender"
)

// Application holds the wired zone management components.
type Application struct {
	config   *config.AppConfig
	store    store.Store
	zones    *zoneregistry.Registry
	records  *recordstore.Store
	renderer *zonerender.Renderer
	importer *zoneimport.Importer
}

// Close releases the persistence backend.
func (a *Application) Close() error {
	return a.store.Close()
}

type repositories struct {
	store store.Store
	names *namefilter.Filter
	cache rendercache.Cache
}

// loadApplication reads configuration from the environment and an optional
// .env file, configures global logging and builds the application.
func loadApplication() (*Application, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if err := log.Configure(cfg.Env, cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("logging configuration error: %w", err)
	}
	log.Debug(map[string]any{
		"version":       version,
		"env":           cfg.Env,
		"log_level":     cfg.Log.Level,
		"store_backend": cfg.Store.Backend,
		"store_path":    cfg.Store.Path,
		"serial_policy": cfg.Serial.Policy,
		"cache_size":    cfg.Render.CacheSize,
	}, "Starting "+appName)
	return buildApplication(cfg)
}

// buildApplication constructs all components and wires them together
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	clk := clock.RealClock{}
	logger := log.GetLogger()

	policy, err := domain.ParseSerialPolicy(cfg.Serial.Policy)
	if err != nil {
		return nil, err
	}
	mode, err := zonerender.ParseDisabledZoneMode(cfg.Render.DisabledZone)
	if err != nil {
		return nil, err
	}

	repos, err := buildRepositories(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build repositories: %w", err)
	}

	zones, err := zoneregistry.New(zoneregistry.Options{
		Store:        repos.store,
		Clock:        clk,
		Logger:       logger.With(map[string]any{"component": "zoneregistry"}),
		SerialPolicy: policy,
		Names:        repos.names,
		Cache:        repos.cache,
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to build zone registry: %w", err), repos.store.Close())
	}
	records, err := recordstore.New(recordstore.Options{
		Store:  repos.store,
		Clock:  clk,
		Logger: logger.With(map[string]any{"component": "recordstore"}),
		Cache:  repos.cache,
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to build record store: %w", err), repos.store.Close())
	}
	renderer, err := zonerender.New(zonerender.Options{
		Store:        repos.store,
		DisabledZone: mode,
		Cache:        repos.cache,
		Logger:       logger.With(map[string]any{"component": "zonerender"}),
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to build renderer: %w", err), repos.store.Close())
	}

	return &Application{
		config:   cfg,
		store:    repos.store,
		zones:    zones,
		records:  records,
		renderer: renderer,
		importer: zoneimport.New(zones, records, logger.With(map[string]any{"component": "zoneimport"})),
	}, nil
}

func buildRepositories(cfg *config.AppConfig) (*repositories, error) {
	cache, err := rendercache.New(cfg.Render.CacheSize)
	if err != nil {
		return nil, err
	}

	var st store.Store
	switch cfg.Store.Backend {
	case "memory":
		st = memory.New()
	case "bolt":
		st, err = bolt.New(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
	case "sqlite":
		st, err = sqlite.New(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	return &repositories{
		store: st,
		names: namefilter.New(cfg.Names.Capacity, cfg.Names.FPRate),
		cache: cache,
	}, nil
}
