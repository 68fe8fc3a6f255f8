package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/goliatone/go-config/cfgx"

	"github.com/goliatone/go-binding/pkg/typereg"
)

// Config captures module-level configuration knobs. Feature packages
// (typereg, binding) pull from these nested structs.
type Config struct {
	Resolver ResolverConfig `mapstructure:"resolver" json:"resolver"`
	Observer ObserverConfig `mapstructure:"observer" json:"observer"`
}

// ResolverConfig bounds the symbolic type resolution cache.
type ResolverConfig struct {
	CacheCapacity int `mapstructure:"cache_capacity" json:"cache_capacity"`
}

// ObserverConfig toggles observation diagnostics.
type ObserverConfig struct {
	LogSeeds bool `mapstructure:"log_seeds" json:"log_seeds"`
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		Resolver: ResolverConfig{
			CacheCapacity: typereg.DefaultCacheCapacity,
		},
		Observer: ObserverConfig{
			LogSeeds: false,
		},
	}
}

// Validate ensures required fields are present and sane.
func (c *Config) Validate() error {
	if c.Resolver.CacheCapacity <= 0 {
		return errors.New("resolver.cache_capacity must be > 0")
	}
	return nil
}

// Load decodes arbitrary input (struct, pointer, map) into a Config via
// cfgx. Inputs cfgx cannot decode go through a lightweight fallback
// decoder, then defaults are applied and the result validated.
func Load(input any, opts ...LoadOption) (Config, error) {
	settings := loadOptions{}
	for _, opt := range opts {
		opt(&settings)
	}

	cfg, err := cfgx.Build(input, settings.buildOpts...)
	if err != nil {
		return Config{}, err
	}

	if isZero(cfg) {
		if err := decodeFallback(input, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg = cfg.withDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadOption lets callers amend cfgx build options.
type LoadOption func(*loadOptions)

type loadOptions struct {
	buildOpts []cfgx.Option[Config]
}

// WithBuildOptions forwards cfgx options (duration hooks, preprocessors, etc.).
func WithBuildOptions(opts ...cfgx.Option[Config]) LoadOption {
	return func(lo *loadOptions) {
		lo.buildOpts = append(lo.buildOpts, opts...)
	}
}

func (c Config) withDefaults() Config {
	defaults := Defaults()

	if c.Resolver.CacheCapacity == 0 {
		c.Resolver.CacheCapacity = defaults.Resolver.CacheCapacity
	}
	return c
}

func isZero(cfg Config) bool {
	return reflect.DeepEqual(cfg, Config{})
}

func decodeFallback(input any, cfg *Config) error {
	switch v := input.(type) {
	case nil:
		return nil
	case Config:
		*cfg = v
		return nil
	case *Config:
		if v != nil {
			*cfg = *v
		}
		return nil
	case map[string]any:
		return decodeMap(v, cfg)
	default:
		return fmt.Errorf("unsupported config input type: %T", input)
	}
}

func decodeMap(input map[string]any, cfg *Config) error {
	if input == nil {
		return nil
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, cfg)
}
