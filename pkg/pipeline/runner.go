package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/antnest/pkg/analysis"
	"github.com/matzehuels/antnest/pkg/archive"
	"github.com/matzehuels/antnest/pkg/cache"
	"github.com/matzehuels/antnest/pkg/graph"
	"github.com/matzehuels/antnest/pkg/nest"
	"github.com/matzehuels/antnest/pkg/sim"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, archive and logger - it
// doesn't store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Archive archive.Store // nil disables archiving
	Logger  *log.Logger

	// TTL overrides the lifetime of cache entries when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, store archive.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Archive: store,
		Logger:  logger,
	}
}

// Execute runs the complete load → solve → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	n, err := Load(opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Nest = n
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Rooms = n.NodeCount()
	result.Stats.Tunnels = n.EdgeCount()

	r.Logger.Info("loaded nest",
		"nest", n.Name(),
		"ants", n.Agents(),
		"rooms", n.NodeCount(),
		"tunnels", n.EdgeCount(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Solve
	solveStart := time.Now()
	res, report, hit, err := r.SolveWithCacheInfo(ctx, n, opts)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	result.Run = res
	result.Report = report
	result.Stats.SolveTime = time.Since(solveStart)
	result.CacheInfo.SolveHit = hit

	r.Logger.Info("solved",
		"outcome", res.Outcome,
		"steps", res.Steps,
		"delivered", res.Delivered,
		"cached", hit,
		"duration", result.Stats.SolveTime)

	// Stage 3: Archive
	if opts.Archive && r.Archive != nil {
		run := archive.NewRun(report)
		if err := r.Archive.Save(ctx, run); err != nil {
			return nil, fmt.Errorf("archive: %w", err)
		}
		result.RunID = run.ID
		r.Logger.Info("archived run", "id", run.ID)
	}

	// Stage 4: View + Render
	renderStart := time.Now()
	view, err := SelectView(n, res.Recorder, opts.Step)
	if err != nil {
		return nil, fmt.Errorf("view: %w", err)
	}
	result.View = view
	if opts.Highlight {
		a := analysis.Analyze(n)
		result.Analysis = &a
	}

	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"step", view.Step,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// SolveWithCacheInfo simulates n, or restores the run from the cache, and
// reports whether it was a cache hit.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, n *nest.Nest, opts Options) (*sim.Result, graph.Report, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSolve(); err != nil {
		return nil, graph.Report{}, false, err
	}

	cacheKey := r.Keyer.SolveKey(n.Hash(), opts.SolveKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if report, res, ok := restore(data, n); ok {
				return res, report, true, nil
			}
			r.Logger.Debug("discarding unreadable cache entry", "key", cacheKey)
		} else if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
	}

	res, err := sim.Run(ctx, n, opts.SimOptions())
	if err != nil {
		return nil, graph.Report{}, false, err
	}
	report := graph.FromResult(n, res)

	if data, err := graph.MarshalReport(report); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLSolve)); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		}
	}

	return res, report, false, nil
}

// restore decodes a cached report for n. The nest name is not part of the
// cache key, so the report is renamed to match n.
func restore(data []byte, n *nest.Nest) (graph.Report, *sim.Result, bool) {
	report, err := graph.UnmarshalReport(data)
	if err != nil || report.Validate() != nil {
		return graph.Report{}, nil, false
	}
	report.Nest.Name = n.Name()
	cached, res, err := report.Result()
	if err != nil || cached.Hash() != n.Hash() {
		return graph.Report{}, nil, false
	}
	return report, res, true
}

// Solve is a convenience wrapper that calls SolveWithCacheInfo and discards the cache hit info.
func (r *Runner) Solve(ctx context.Context, n *nest.Nest, opts Options) (*sim.Result, graph.Report, error) {
	res, report, _, err := r.SolveWithCacheInfo(ctx, n, opts)
	return res, report, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// result must carry the nest, run, report and view.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, result *Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	solveKey := r.Keyer.SolveKey(result.Nest.Hash(), opts.SolveKeyOpts())
	step := result.View.Step

	// Solution text and reports carry the nest name, which is not part of
	// the key, so only diagrams are cached.
	allCached := true
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		if !cacheable(format) {
			allCached = false
			break
		}
		key := r.Keyer.RenderKey(solveKey, opts.RenderKeyOpts(format, step))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered, err := Render(ctx, result.Nest, result.Run, result.Report, result.View, result.Analysis, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		if !cacheable(format) {
			continue
		}
		key := r.Keyer.RenderKey(solveKey, opts.RenderKeyOpts(format, step))
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLRender)); err != nil {
			r.Logger.Warn("render cache write failed", "format", format, "err", err)
		}
	}

	return rendered, false, nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

func cacheable(format string) bool {
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
		return true
	}
	return false
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var cerr, aerr error
	if r.Cache != nil {
		cerr = r.Cache.Close()
	}
	if r.Archive != nil {
		aerr = r.Archive.Close()
	}
	if cerr != nil {
		return cerr
	}
	return aerr
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
