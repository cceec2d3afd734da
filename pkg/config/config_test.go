package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
[sim]
max_steps = 500
suppress_regressive = true

[cache]
backend = "redis"
ttl = "24h"
redis_addr = "cache:6379"

[archive]
backend = "none"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Sim.MaxSteps != 500 || !cfg.Sim.SuppressRegressive {
		t.Errorf("Sim = %+v", cfg.Sim)
	}
	if cfg.Cache.Backend != BackendRedis || time.Duration(cfg.Cache.TTL) != 24*time.Hour || cfg.Cache.RedisAddr != "cache:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Archive.Backend != BackendNone {
		t.Errorf("Archive.Backend = %q, want %q", cfg.Archive.Backend, BackendNone)
	}
	// untouched sections keep defaults
	if cfg.Serve.Addr != ":8080" || cfg.Archive.MongoDatabase != "antnest" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[sim\n", "parse"},
		{"unknown key", "[sim]\nmax_stepz = 3\n", "unknown keys: sim.max_stepz"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", "cache.backend"},
		{"bad archive", "[archive]\nbackend = \"redis\"\n", "archive.backend"},
		{"negative steps", "[sim]\nmax_steps = -1\n", "sim.max_steps"},
		{"bad duration", "[cache]\nttl = \"soon\"\n", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := Default()
	want.Sim.MaxSteps = 42
	want.Cache.TTL = Duration(90 * time.Minute)

	if err := Write(path, want); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}
