package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/hdlview/hdlview/pkg/cache"
	apperrors "github.com/hdlview/hdlview/pkg/errors"
	hdlio "github.com/hdlview/hdlview/pkg/io"
	"github.com/hdlview/hdlview/pkg/model"
	"github.com/hdlview/hdlview/pkg/observability"
	"github.com/hdlview/hdlview/pkg/render"
	"github.com/hdlview/hdlview/pkg/view"
)

// Runner executes the lowering pipeline with caching. It is stateless
// apart from the cache and logger, so a single Runner can serve multiple
// goroutines with different options; each run builds its own view state.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching (null backend),
// a nil keyer selects the default keyer, a nil logger selects the default
// logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Close releases the cache backend.
func (r *Runner) Close() error { return r.Cache.Close() }

// Execute runs import → lower → render and returns all outputs.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid options")
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	g, err := r.importGraph(opts)
	if err != nil {
		return nil, importError(err)
	}
	result.Graph = g
	result.GraphHash = graphHash(g)
	result.Stats.VertexCount = g.VertexCount()
	result.Stats.EdgeCount = g.EdgeCount()

	lowerStart := time.Now()
	root, viewHit, err := r.lowerWithCache(ctx, g, result.GraphHash, opts)
	if err != nil {
		return nil, lowerError(err)
	}
	result.View = root
	result.Stats.LowerTime = time.Since(lowerStart)
	result.Stats.BlockCount = root.BlockCount()
	result.Stats.PinCount = root.PinCount()
	result.Stats.LinkCount = root.LinkCount()
	result.CacheInfo.ViewHit = viewHit

	r.Logger.Info("lowered design",
		"run", result.RunID,
		"root", opts.Root,
		"blocks", result.Stats.BlockCount,
		"pins", result.Stats.PinCount,
		"links", result.Stats.LinkCount,
		"duration", result.Stats.LowerTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.renderWithCache(ctx, root, result.GraphHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"run", result.RunID,
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Lower imports (if needed) and lowers without rendering artifacts.
func (r *Runner) Lower(ctx context.Context, opts Options) (*view.Block, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid options")
	}
	g, err := r.importGraph(opts)
	if err != nil {
		return nil, importError(err)
	}
	root, _, err := r.lowerWithCache(ctx, g, graphHash(g), opts)
	if err != nil {
		return nil, lowerError(err)
	}
	return root, nil
}

func (r *Runner) importGraph(opts Options) (*model.Graph, error) {
	if opts.Graph != nil {
		return opts.Graph, nil
	}
	return hdlio.ImportGraph(opts.GraphPath)
}

// lowerWithCache runs the lowering pass, caching the serialized view by
// graph hash and root. A cached view round-trips through JSON, which is
// lossless for the output tree.
func (r *Runner) lowerWithCache(ctx context.Context, g *model.Graph, hash string, opts Options) (*view.Block, bool, error) {
	key := r.Keyer.ViewKey(hash, opts.Root)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var root view.Block
			if err := json.Unmarshal(data, &root); err == nil {
				observability.Cache().OnCacheHit(ctx, "view")
				return &root, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "view")
	}

	start := time.Now()
	observability.Pipeline().OnLowerStart(ctx, opts.Root, g.VertexCount())
	root, err := view.Lower(g, opts.Root, opts.Logger)
	if err != nil {
		observability.Pipeline().OnLowerComplete(ctx, opts.Root, 0, 0, time.Since(start), err)
		return nil, false, err
	}
	observability.Pipeline().OnLowerComplete(ctx, opts.Root, root.BlockCount(), root.LinkCount(), time.Since(start), nil)

	if data, err := json.Marshal(root); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLView); err == nil {
			observability.Cache().OnCacheSet(ctx, "view", len(data))
		}
	}
	return root, false, nil
}

// renderWithCache produces the requested artifacts, reusing cached ones
// where possible. RenderHit is reported only when every format hit.
func (r *Runner) renderWithCache(ctx context.Context, root *view.Block, hash string, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := len(opts.Formats) > 0

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)

	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.Root, format)

		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		allHit = false

		data, err := r.renderFormat(ctx, root, format, opts)
		if err != nil {
			observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data

		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, allHit, nil
}

func (r *Runner) renderFormat(ctx context.Context, root *view.Block, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return hdlio.MarshalView(root)
	case FormatDOT:
		return []byte(render.ToDOT(root, render.Options{Detailed: opts.Detailed})), nil
	case FormatSVG:
		dot := render.ToDOT(root, render.Options{Detailed: opts.Detailed})
		return render.ToSVG(ctx, dot)
	default:
		return nil, ValidateFormat(format)
	}
}

// importError categorizes a graph import failure.
func importError(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "design graph not found")
	}
	return apperrors.Wrap(apperrors.ErrCodeInvalidGraph, err, "import design graph")
}

// lowerError categorizes a lowering failure.
func lowerError(err error) error {
	switch {
	case errors.Is(err, view.ErrRootNotFound):
		return apperrors.Wrap(apperrors.ErrCodeRootNotFound, err, "lower design")
	case errors.Is(err, view.ErrUnexpectedVertex):
		return apperrors.Wrap(apperrors.ErrCodeUnexpectedVertex, err, "lower design")
	default:
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "lower design")
	}
}

// graphHash fingerprints a graph by walking its vertices and edges in
// insertion order. Two graphs with identical structure hash identically.
func graphHash(g *model.Graph) string {
	var doc struct {
		Vertices []string     `json:"v"`
		Edges    []model.Edge `json:"e"`
	}
	for i := 0; i < g.VertexCount(); i++ {
		v, _ := g.VertexByIndex(i)
		doc.Vertices = append(doc.Vertices, v.Path+":"+v.Type.String())
	}
	for _, t := range []model.EdgeType{model.EdgePartOf, model.EdgeInstanceOf, model.EdgeConnectsTo} {
		doc.Edges = append(doc.Edges, g.EdgesOfType(t)...)
	}
	data, _ := json.Marshal(doc)
	return cache.Hash(data)
}
