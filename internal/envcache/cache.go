// Package envcache memoizes the probed environment for the whole process.
package envcache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"shellenv/internal/logutil"
	"shellenv/internal/model"
	"shellenv/internal/pathutil"
	"shellenv/internal/probe"
)

// Cache holds the current environment snapshot. Snapshots are replaced
// wholesale, never mutated, so a caller holding an old map keeps a
// consistent view.
type Cache struct {
	prober probe.Prober
	flavor pathutil.Flavor
	host   func() model.EnvMap

	group singleflight.Group

	mu  sync.Mutex
	env model.EnvMap
	gen uint64
}

// New returns an empty cache that probes with p.
func New(p probe.Prober, f pathutil.Flavor) *Cache {
	return &Cache{prober: p, flavor: f, host: probe.HostEnv}
}

// WithHost overrides where the fallback environment comes from.
func (c *Cache) WithHost(host func() model.EnvMap) *Cache {
	c.host = host
	return c
}

// Get returns the cached environment, probing on first use. Concurrent
// callers share one probe.
func (c *Cache) Get(ctx context.Context) model.EnvMap {
	c.mu.Lock()
	env, gen := c.env, c.gen
	c.mu.Unlock()
	if env != nil {
		return env
	}
	return c.load(ctx, gen)
}

// Refresh drops the cached environment and probes again.
func (c *Cache) Refresh(ctx context.Context) model.EnvMap {
	c.mu.Lock()
	c.gen++
	c.env = nil
	gen := c.gen
	c.mu.Unlock()
	logutil.Debug("environment cache refresh", "generation", gen)
	return c.load(ctx, gen)
}

// Peek returns the cached environment without probing.
func (c *Cache) Peek() (model.EnvMap, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.env, c.env != nil
}

func (c *Cache) load(ctx context.Context, gen uint64) model.EnvMap {
	// The probe is shared, so one caller going away must not cancel it.
	shared := context.WithoutCancel(ctx)
	v, _, _ := c.group.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		c.mu.Lock()
		if c.gen == gen && c.env != nil {
			env := c.env
			c.mu.Unlock()
			return env, nil
		}
		c.mu.Unlock()

		env := c.probe(shared)

		c.mu.Lock()
		defer c.mu.Unlock()
		// A Refresh that started meanwhile owns the cache now.
		if c.gen == gen {
			c.env = env
		}
		return env, nil
	})
	return v.(model.EnvMap)
}

func (c *Cache) probe(ctx context.Context) model.EnvMap {
	start := time.Now()
	env, err := c.prober.Probe(ctx)
	if err != nil || len(env) == 0 {
		logutil.Warn("environment probe failed, using host environment",
			"flavor", c.flavor.String(), "err", err, "elapsed", time.Since(start))
		return probe.FallbackEnv(c.host(), c.flavor)
	}
	logutil.Debug("environment probed", "flavor", c.flavor.String(), "vars", len(env), "elapsed", time.Since(start))
	return env
}
