// Package config loads CLI settings from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/unkn0wn-root/wlserial"
	"github.com/unkn0wn-root/wlserial/codec"
	"github.com/unkn0wn-root/wlserial/symbols"
)

// Config is the environment-backed CLI configuration. Flags override it.
type Config struct {
	Mode          string `env:"WLSERIAL_MODE" envDefault:"standard"`
	Symbols       string `env:"WLSERIAL_SYMBOLS"` // dataset file; empty => redis snapshot
	SymbolsFormat string `env:"WLSERIAL_SYMBOLS_FORMAT" envDefault:"json"`
	LogLevel      string `env:"WLSERIAL_LOG_LEVEL" envDefault:"warn"`

	// Cache backs the decode cache: none, ristretto or bigcache.
	Cache       string `env:"WLSERIAL_CACHE" envDefault:"none"`
	// CacheFormat encodes cached items: msgpack, cbor or proto.
	CacheFormat string `env:"WLSERIAL_CACHE_FORMAT" envDefault:"msgpack"`
	// RedisAddr enables symbol snapshots published to and fetched from redis.
	RedisAddr   string `env:"WLSERIAL_REDIS_ADDR"`
	RedisPrefix string `env:"WLSERIAL_REDIS_PREFIX" envDefault:"wlserial:"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ParseMap is ParseEnv over an explicit environment.
func ParseMap(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// DatasetCodec returns the record codec matching SymbolsFormat.
func (c Config) DatasetCodec() (codec.Codec[symbols.Dataset], error) {
	switch strings.ToLower(c.SymbolsFormat) {
	case "", "json":
		return codec.JSON[symbols.Dataset]{Strict: true}, nil
	case "msgpack":
		return codec.Msgpack[symbols.Dataset]{}, nil
	case "cbor":
		c, err := codec.NewCBOR[symbols.Dataset](true)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("config: unknown symbols format %q", c.SymbolsFormat)
}

// ItemCodec returns the record codec matching CacheFormat.
func (c Config) ItemCodec() (codec.Codec[wlserial.Item], error) {
	switch strings.ToLower(c.CacheFormat) {
	case "", "msgpack":
		return codec.Msgpack[wlserial.Item]{}, nil
	case "cbor":
		return codec.MustCBOR[wlserial.Item](false), nil
	case "proto":
		return wlserial.StructRecords(), nil
	}
	return nil, fmt.Errorf("config: unknown cache format %q", c.CacheFormat)
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch strings.ToLower(c.Cache) {
	case "", "none", "ristretto", "bigcache":
	default:
		return fmt.Errorf("config: unknown cache %q", c.Cache)
	}
	if c.Symbols == "" && c.RedisAddr == "" {
		return fmt.Errorf("config: WLSERIAL_SYMBOLS or WLSERIAL_REDIS_ADDR is required")
	}
	if _, err := c.ItemCodec(); err != nil {
		return err
	}
	_, err := c.DatasetCodec()
	return err
}
