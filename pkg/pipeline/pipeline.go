// Package pipeline orchestrates the import → lower → render flow.
//
// This package ties the lowering core to its collaborators: graph import,
// the cache, the renderer, and the serializer. CLI and server both run
// through the same Runner so caching and logging behave identically at
// every entry point.
//
// # Stages
//
//  1. Import: read the design graph from JSON (or accept a pre-built one)
//  2. Lower: build the block tree and scope links (pkg/view)
//  3. Render: serialize to JSON and optionally draw DOT/SVG diagrams
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    GraphPath: "design.json",
//	    Root:      "blinky",
//	    Formats:   []string{"json", "svg"},
//	})
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hdlview/hdlview/pkg/model"
	"github.com/hdlview/hdlview/pkg/view"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// ValidateFormat checks that a single format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that every format is supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options configures a pipeline run.
type Options struct {
	// GraphPath is the JSON design graph to import. Ignored when Graph is
	// set directly.
	GraphPath string `json:"graph_path,omitempty"`

	// Root is the dotted path of the vertex to lower from. Required.
	Root string `json:"root"`

	// Formats selects the rendered artifacts. Defaults to ["json"].
	Formats []string `json:"formats,omitempty"`

	// Detailed includes block types and instance paths in diagram labels.
	Detailed bool `json:"detailed,omitempty"`

	// Refresh bypasses the cache for this run.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Graph  *model.Graph `json:"-"`
	Logger *log.Logger  `json:"-"`

	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Idempotent: calling it repeatedly has the effect of calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Root == "" {
		return fmt.Errorf("root is required")
	}
	if o.Graph == nil && o.GraphPath == "" {
		return fmt.Errorf("graph or graph_path is required")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this pipeline execution in logs.
	RunID string

	// Graph is the imported design graph.
	Graph *model.Graph

	// GraphHash is the content hash of the serialized graph, used for
	// cache keys and change detection.
	GraphHash string

	// View is the lowered block tree.
	View *view.Block

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains size and timing information.
	Stats Stats

	// CacheInfo tracks which stages were served from cache.
	CacheInfo CacheInfo
}

// Stats describes a run's sizes and stage timings.
type Stats struct {
	VertexCount int
	EdgeCount   int
	BlockCount  int
	PinCount    int
	LinkCount   int

	LowerTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits per stage.
type CacheInfo struct {
	ViewHit   bool // lowered view came from cache
	RenderHit bool // all artifacts came from cache
}
