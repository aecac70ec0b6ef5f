package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/haukened/zonekeeper/internal/dns/domain"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	Log    LogConfig    `koanf:"log"`
	Store  StoreConfig  `koanf:"store"`
	Serial SerialConfig `koanf:"serial"`
	Render RenderConfig `koanf:"render"`
	Names  NamesConfig  `koanf:"names"`
}

// LogConfig controls log verbosity: "debug", "info", "warn", or "error".
type LogConfig struct {
	Level string `koanf:"level" validate:"required,oneof=debug info warn error"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend string `koanf:"backend" validate:"required,oneof=bolt sqlite memory"`
	// Path is the database file; required unless the backend is memory.
	Path string `koanf:"path" validate:"required_unless=Backend memory"`
}

// SerialConfig selects how the initial SOA serial of a new zone is chosen.
type SerialConfig struct {
	Policy string `koanf:"policy" validate:"required,serial_policy"`
}

// RenderConfig controls zone file export.
type RenderConfig struct {
	// DisabledZone is "soa" (header and SOA only) or "empty".
	DisabledZone string `koanf:"disabled_zone" validate:"required,oneof=soa empty"`
	// CacheSize is the number of rendered zones kept in memory. 0 disables the cache.
	CacheSize int `koanf:"cache_size" validate:"gte=0"`
}

// NamesConfig sizes the zone name bloom filter.
type NamesConfig struct {
	Capacity uint    `koanf:"capacity" validate:"required,gte=1"`
	FPRate   float64 `koanf:"fp_rate" validate:"gt=0,lt=1"`
}

// DEFAULT_APP_CONFIG defines the default application configuration settings.
var DEFAULT_APP_CONFIG = AppConfig{
	Env: "prod",
	Log: LogConfig{
		Level: "info",
	},
	Store: StoreConfig{
		Backend: "bolt",
		Path:    "/var/lib/zonekeeper/zones.db",
	},
	Serial: SerialConfig{
		Policy: "date",
	},
	Render: RenderConfig{
		DisabledZone: "soa",
		CacheSize:    256,
	},
	Names: NamesConfig{
		Capacity: 10000,
		FPRate:   0.01,
	},
}

// validSerialPolicy accepts the serial policies understood by the domain package.
func validSerialPolicy(fl validator.FieldLevel) bool {
	_, err := domain.ParseSerialPolicy(fl.Field().String())
	return err == nil
}

// envKey maps DNS_SECTION_SOME_KEY to section.some_key. Only the first
// underscore after the prefix separates the section from the key.
func envKey(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, "DNS_"))
	return strings.Replace(key, "_", ".", 1)
}

// envLoader loads environment variables with the prefix "DNS_".
// It can be replaced in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "DNS_",
		TransformFunc: func(key, value string) (string, any) {
			return envKey(key), strings.TrimSpace(value)
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG using the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// registerValidation registers the custom "serial_policy" tag.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("serial_policy", validSerialPolicy)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
