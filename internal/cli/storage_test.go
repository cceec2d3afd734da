package cli

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/matzehuels/antnest/pkg/archive"
	"github.com/matzehuels/antnest/pkg/cache"
	"github.com/matzehuels/antnest/pkg/config"
)

func TestCacheDirResolution(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name      string
		configDir string
		xdg       string
		want      string
	}{
		{"config wins", "/srv/antnest/cache", "/xdg", "/srv/antnest/cache"},
		{"xdg", "", "/xdg", filepath.Join("/xdg", appName)},
		{"home fallback", "", "", filepath.Join(home, ".cache", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			c := New(io.Discard, LogInfo)
			c.Config.Cache.Dir = tt.configDir

			got, err := c.cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewCacheBackends(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run() error = %v", err)
	}
	t.Cleanup(mr.Close)
	ctx := context.Background()

	t.Run("file", func(t *testing.T) {
		c := New(io.Discard, LogInfo)
		ch, err := c.newCache(ctx, false)
		if err != nil {
			t.Fatal(err)
		}
		fc, ok := ch.(*cache.FileCache)
		if !ok {
			t.Fatalf("newCache() = %T, want *cache.FileCache", ch)
		}
		if want := filepath.Join(xdg, appName); fc.Dir() != want {
			t.Errorf("Dir() = %q, want %q", fc.Dir(), want)
		}
	})

	t.Run("redis", func(t *testing.T) {
		c := New(io.Discard, LogInfo)
		c.Config.Cache.Backend = config.BackendRedis
		c.Config.Cache.RedisAddr = mr.Addr()
		ch, err := c.newCache(ctx, false)
		if err != nil {
			t.Fatal(err)
		}
		defer ch.Close()
		if _, ok := ch.(*cache.RedisCache); !ok {
			t.Errorf("newCache() = %T, want *cache.RedisCache", ch)
		}
	})

	disabled := []struct {
		name    string
		backend string
		addr    string
		noCache bool
	}{
		{"no-cache flag", config.BackendFile, "", true},
		{"backend none", config.BackendNone, "", false},
		{"redis unreachable", config.BackendRedis, "127.0.0.1:1", false},
	}
	for _, tt := range disabled {
		t.Run(tt.name, func(t *testing.T) {
			c := New(io.Discard, LogInfo)
			c.Config.Cache.Backend = tt.backend
			c.Config.Cache.RedisAddr = tt.addr
			ch, err := c.newCache(ctx, tt.noCache)
			if err != nil {
				t.Fatal(err)
			}
			if _, ok := ch.(cache.NullCache); !ok {
				t.Errorf("newCache() = %T, want cache.NullCache", ch)
			}
		})
	}
}

func TestNewArchiveLayout(t *testing.T) {
	configHome := testEnv(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		backend string
		dir     string
		want    string
	}{
		{"default dir", config.BackendFile, "", filepath.Join(configHome, appName, "runs")},
		{"configured dir", config.BackendFile, filepath.Join(configHome, "elsewhere"), filepath.Join(configHome, "elsewhere")},
		{"disabled", config.BackendNone, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(io.Discard, LogInfo)
			c.Config.Archive.Backend = tt.backend
			c.Config.Archive.Dir = tt.dir

			store, err := c.newArchive(ctx)
			if err != nil {
				t.Fatalf("newArchive() error = %v", err)
			}
			if tt.want == "" {
				if store != nil {
					t.Errorf("newArchive() = %T, want nil", store)
				}
				return
			}
			fs, ok := store.(*archive.FileStore)
			if !ok {
				t.Fatalf("newArchive() = %T, want *archive.FileStore", store)
			}
			if fs.Path() != tt.want {
				t.Errorf("Path() = %q, want %q", fs.Path(), tt.want)
			}
		})
	}
}
