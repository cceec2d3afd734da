package cache

import (
	"context"
	"time"

	"github.com/matzehuels/antnest/pkg/observability"
)

type instrumented struct {
	Cache
}

// Instrument reports every Get and Set on c to the registered
// [observability.CacheHooks]. The key type is taken from the key itself
// (see [KeyType]). Clear is forwarded when c supports it.
func Instrument(c Cache) Cache {
	if _, ok := c.(*instrumented); ok {
		return c
	}
	return &instrumented{Cache: c}
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if err != nil {
		return data, ok, err
	}
	if ok {
		observability.Cache().OnCacheHit(ctx, KeyType(key))
	} else {
		observability.Cache().OnCacheMiss(ctx, KeyType(key))
	}
	return data, ok, nil
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, KeyType(key), len(data))
	return nil
}

func (c *instrumented) Clear(ctx context.Context) error {
	if cl, ok := c.Cache.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return nil
}

// Unwrap returns the wrapped backend.
func Unwrap(c Cache) Cache {
	if ic, ok := c.(*instrumented); ok {
		return ic.Cache
	}
	return c
}
