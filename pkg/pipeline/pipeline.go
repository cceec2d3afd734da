// Package pipeline provides the core simulation pipeline for antnest.
//
// This package implements the complete load → solve → render pipeline that
// is shared by the CLI and the HTTP server, so both entry points cache,
// archive and render runs the same way.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: parse a nest description from a file or raw text
//  2. Solve: simulate the colony, reusing a cached report when the nest and
//     simulation options are unchanged
//  3. View: select a step and compute its occupancy and pheromone trails
//  4. Render: produce the requested artifacts (solution text, reports,
//     DOT and images)
//
// Solved runs can additionally be saved to a run archive.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:    "nests/simple.txt",
//	    Formats: []string{pipeline.FormatText, pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(result.Artifacts[pipeline.FormatText])
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/antnest/pkg/analysis"
	"github.com/matzehuels/antnest/pkg/cache"
	"github.com/matzehuels/antnest/pkg/errors"
	"github.com/matzehuels/antnest/pkg/graph"
	"github.com/matzehuels/antnest/pkg/nest"
	"github.com/matzehuels/antnest/pkg/sim"
)

// Format constants for output formats.
const (
	FormatText = "txt"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats lists the supported output formats in display order.
var ValidFormats = []string{FormatText, FormatJSON, FormatYAML, FormatDOT, FormatSVG, FormatPNG, FormatPDF}

// DefaultPNGScale is the rasterization scale for PNG output.
const DefaultPNGScale = 2.0

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options. Exactly one of Path and Source is required.
	Path   string `json:"-"`
	Source string `json:"source,omitempty"`
	Name   string `json:"name,omitempty"` // defaults to the file stem, or "nest"

	// Solve options
	MaxSteps           int  `json:"max_steps,omitempty"`
	SuppressRegressive bool `json:"suppress_regressive,omitempty"`
	Refresh            bool `json:"refresh,omitempty"` // ignore cached runs
	Strict             bool `json:"strict,omitempty"`  // reject nests whose sink is unreachable

	// Archive saves the run when the runner has an archive store.
	Archive bool `json:"archive,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Step      int      `json:"step,omitempty"` // 1-based; zero or out of range selects the last step
	Highlight bool     `json:"highlight,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Nest is the loaded nest.
	Nest *nest.Nest

	// Run is the simulation outcome, rebuilt from the cache on a hit.
	Run *sim.Result

	// Report is the serializable form of Run.
	Report graph.Report

	// View is the rendered step.
	View View

	// Analysis is set when Options.Highlight is true.
	Analysis *analysis.Analysis

	// RunID is the archive id, empty when the run was not archived.
	RunID string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rooms      int
	Tunnels    int
	LoadTime   time.Duration
	SolveTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SolveHit  bool // Whether the run came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, ValidFormats)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForSolve(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the nest input.
func (o *Options) ValidateForLoad() error {
	switch {
	case o.Path == "" && o.Source == "":
		return errors.New(errors.ErrCodeInvalidInput, "path or source is required")
	case o.Path != "" && o.Source != "":
		return errors.New(errors.ErrCodeInvalidInput, "path and source are mutually exclusive")
	}
	if o.Path != "" {
		if err := errors.ValidatePath(o.Path); err != nil {
			return err
		}
	}
	if o.Name != "" {
		if err := errors.ValidateName(o.Name); err != nil {
			return err
		}
	}
	o.setLogger()
	return nil
}

// ValidateForSolve checks simulation options.
func (o *Options) ValidateForSolve() error {
	if o.MaxSteps < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max steps must not be negative, got %d", o.MaxSteps)
	}
	o.setLogger()
	return nil
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatText}
	}
	if o.Step < 0 {
		o.Step = 0
	}
	o.setLogger()
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SimOptions returns the simulator configuration.
func (o *Options) SimOptions() sim.Options {
	return sim.Options{
		MaxSteps:           o.MaxSteps,
		SuppressRegressive: o.SuppressRegressive,
		Logger:             o.Logger,
	}
}

// SolveKeyOpts returns cache key options for the solve stage.
func (o *Options) SolveKeyOpts() cache.SolveKeyOpts {
	return cache.SolveKeyOpts{
		MaxSteps:           o.MaxSteps,
		SuppressRegressive: o.SuppressRegressive,
	}
}

// RenderKeyOpts returns cache key options for one artifact.
func (o *Options) RenderKeyOpts(format string, step int) cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		Step:      step,
		Format:    format,
		Highlight: o.Highlight,
	}
}

// NeedsDiagram reports whether any requested format is drawn from DOT.
func (o *Options) NeedsDiagram() bool {
	for _, f := range o.Formats {
		switch f {
		case FormatDOT, FormatSVG, FormatPNG, FormatPDF:
			return true
		}
	}
	return false
}
