// Package config loads the antnest configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/antnest/config.toml (or the
// platform equivalent of ~/.config). Every key is optional:
//
//	[sim]
//	max_steps = 0              # 0 derives a bound from the nest size
//	suppress_regressive = false
//
//	[cache]
//	backend = "file"           # file | redis | none
//	ttl = "168h"
//	redis_addr = "localhost:6379"
//
//	[archive]
//	backend = "file"           # file | mongo | none
//	mongo_uri = "mongodb://localhost:27017"
//	mongo_database = "antnest"
//
//	[serve]
//	addr = ":8080"
//
// Command-line flags override file values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Backend names.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config is the parsed configuration file.
type Config struct {
	Sim     Sim     `toml:"sim"`
	Cache   Cache   `toml:"cache"`
	Archive Archive `toml:"archive"`
	Serve   Serve   `toml:"serve"`
}

// Sim holds simulation defaults.
type Sim struct {
	MaxSteps           int  `toml:"max_steps"`
	SuppressRegressive bool `toml:"suppress_regressive"`
}

// Cache selects the solve cache backend.
type Cache struct {
	Backend   string   `toml:"backend"`
	TTL       Duration `toml:"ttl"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
}

// Archive selects the run archive backend.
type Archive struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Serve configures the HTTP server.
type Serve struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a Go duration string ("168h").
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Cache: Cache{
			Backend:   BackendFile,
			TTL:       Duration(7 * 24 * time.Hour),
			RedisAddr: "localhost:6379",
		},
		Archive: Archive{
			Backend:       BackendFile,
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "antnest",
		},
		Serve: Serve{Addr: ":8080"},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "antnest", "config.toml"), nil
}

// Load reads path on top of Default. An empty path selects DefaultPath.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("parse %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks backend names and numeric ranges.
func (c Config) Validate() error {
	if c.Sim.MaxSteps < 0 {
		return fmt.Errorf("sim.max_steps must not be negative, got %d", c.Sim.MaxSteps)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %s", time.Duration(c.Cache.TTL))
	}
	if !slices.Contains([]string{BackendFile, BackendRedis, BackendNone}, c.Cache.Backend) {
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if !slices.Contains([]string{BackendFile, BackendMongo, BackendNone}, c.Archive.Backend) {
		return fmt.Errorf("archive.backend: unknown backend %q", c.Archive.Backend)
	}
	return nil
}

// Write encodes c as TOML to path, creating parent directories.
func Write(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
