package view

import (
	"errors"
	"fmt"
	"io"
	"maps"

	"github.com/charmbracelet/log"

	"github.com/hdlview/hdlview/pkg/model"
)

var (
	// ErrRootNotFound is returned by [Lower] when the root path does not
	// resolve to a vertex. This is a precondition failure: no partial tree
	// is produced.
	ErrRootNotFound = errors.New("root vertex not found")

	// ErrUnexpectedVertex is returned when the traversal reaches a vertex
	// whose type has no visitation rule in the current position (e.g., a
	// file vertex nested inside a module). This indicates a malformed graph
	// and fails the whole build rather than being skipped.
	ErrUnexpectedVertex = errors.New("unexpected vertex type in traversal")
)

// builder holds the per-build traversal state: the visited-vertex registry
// used to filter connection edges, and the path-keyed block directory used
// by the link pass. A builder is used for exactly one build; concurrent
// builds over a shared graph each get their own.
type builder struct {
	graph     *model.Graph
	logger    *log.Logger
	visited   map[int]struct{}
	directory map[string]*Block
}

// Lower builds the hierarchical block tree rooted at the vertex with the
// given dotted path, then scopes every eligible electrical connection onto
// it. The graph is only read, never mutated; repeated calls over the same
// graph yield structurally identical trees.
//
// The returned root block's instance_of is set to the root vertex's own
// path: the root of a build is "this design", not an instance of anything
// else, but the field is populated for API uniformity.
//
// A nil logger discards warnings.
func Lower(g *model.Graph, rootPath string, logger *log.Logger) (*Block, error) {
	root, ok := g.VertexByPath(rootPath)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, rootPath)
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	b := &builder{
		graph:     g,
		logger:    logger,
		visited:   make(map[int]struct{}),
		directory: make(map[string]*Block),
	}

	blk, err := b.buildBlock(root)
	if err != nil {
		return nil, err
	}
	blk.InstanceOf = root.Path

	if err := b.resolveLinks(); err != nil {
		return nil, err
	}
	return blk, nil
}

// buildBlock applies the generic block rule to a file, module or component
// vertex: recurse into block-typed children, flatten terminal children into
// the pin list, resolve instance_of, and index the result by path.
func (b *builder) buildBlock(v *model.Vertex) (*Block, error) {
	switch v.Type {
	case model.VertexFile, model.VertexModule, model.VertexComponent:
	default:
		return nil, fmt.Errorf("%w: %s at %s", ErrUnexpectedVertex, v.Type, v.Path)
	}
	b.visit(v)

	children := []*Block{}
	for _, child := range b.graph.Adjacent(v, model.EdgePartOf, model.In, model.VertexComponent, model.VertexModule) {
		blk, err := b.buildBlock(child)
		if err != nil {
			return nil, err
		}
		children = append(children, blk)
	}

	pins, err := b.collectPins(v)
	if err != nil {
		return nil, err
	}

	var instanceOf string
	if templates := b.graph.Adjacent(v, model.EdgeInstanceOf, model.Out); len(templates) > 0 {
		if len(templates) > 1 {
			b.logger.Warn("block is an instance of multiple templates, using first",
				"block", v.Path, "templates", len(templates))
		}
		instanceOf = templates[0].Path
	}

	blk := &Block{
		Name:       v.Ref(),
		Type:       v.Type.String(),
		Fields:     maps.Clone(v.Fields),
		Blocks:     children,
		Pins:       pins,
		Links:      []*Link{},
		InstanceOf: instanceOf,
	}
	b.directory[v.Path] = blk
	return blk, nil
}

// collectPins gathers the pins exposed by the terminal children of v:
// pins (subject to elision), signals (always kept), and interfaces, whose
// own pins are flattened in recursively under hyphen-prefixed names.
func (b *builder) collectPins(v *model.Vertex) ([]*Pin, error) {
	terminals := b.graph.Adjacent(v, model.EdgePartOf, model.In,
		model.VertexPin, model.VertexSignal, model.VertexInterface)

	pins := []*Pin{}
	for _, t := range terminals {
		switch t.Type {
		case model.VertexPin:
			b.visit(t)
			if b.elided(t) {
				continue
			}
			pins = append(pins, newPin(t))
		case model.VertexSignal:
			b.visit(t)
			pins = append(pins, newPin(t))
		case model.VertexInterface:
			b.visit(t)
			nested, err := b.collectPins(t)
			if err != nil {
				return nil, err
			}
			for _, p := range nested {
				p.Name = t.Ref() + "-" + p.Name
			}
			pins = append(pins, nested...)
		default:
			return nil, fmt.Errorf("%w: %s at %s", ErrUnexpectedVertex, t.Type, t.Path)
		}
	}
	return pins, nil
}

// elided reports whether a pin is a trivial pass-through: exactly one
// connects_to edge in total, whose other endpoint is a signal living in the
// same immediate container. Such pins only alias an internal net and are
// dropped from the visible surface. Signals are never elided.
func (b *builder) elided(pin *model.Vertex) bool {
	in := b.graph.EdgesAt(pin, model.EdgeConnectsTo, model.In)
	out := b.graph.EdgesAt(pin, model.EdgeConnectsTo, model.Out)
	if len(in)+len(out) != 1 {
		return false
	}

	var otherIdx int
	if len(in) == 1 {
		otherIdx = in[0].Source
	} else {
		otherIdx = out[0].Target
	}
	other, ok := b.graph.VertexByIndex(otherIdx)
	if !ok {
		return false
	}
	return other.Type == model.VertexSignal && other.ParentPath() == pin.ParentPath()
}

func newPin(v *model.Vertex) *Pin {
	return &Pin{Name: v.Ref(), Fields: maps.Clone(v.Fields)}
}

func (b *builder) visit(v *model.Vertex) {
	b.visited[v.Index] = struct{}{}
}

func (b *builder) wasVisited(idx int) bool {
	_, ok := b.visited[idx]
	return ok
}
