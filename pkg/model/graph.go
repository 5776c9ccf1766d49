// Package model holds the typed design graph consumed by the lowering pass.
//
// The graph is a directed, typed multigraph: vertices carry one of a closed
// set of type tags plus an opaque field map, and edges carry a type tag.
// Containment (part_of), instantiation (instance_of), and electrical
// connectivity (connects_to) all live in the same structure; which edges
// define hierarchy and which merely reference other vertices is decided by
// the consumer, not the graph.
//
// A Graph is built once by the front end (or [github.com/hdlview/hdlview/pkg/io])
// and is read-only afterwards. All query methods are safe for concurrent use
// as long as no AddVertex/AddEdge calls race with them; the lowering pass
// relies on this to share one graph across independent builds.
package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyPath is returned by [Graph.AddVertex] when the path is empty.
	ErrEmptyPath = errors.New("vertex path must not be empty")

	// ErrDuplicatePath is returned by [Graph.AddVertex] when a vertex with
	// the same path already exists. Paths are unique across the graph.
	ErrDuplicatePath = errors.New("duplicate vertex path")

	// ErrUnknownParent is returned by [Graph.AddVertex] when a non-root
	// path's parent prefix does not resolve to an existing vertex. Vertices
	// must be added top-down so every path has a well-defined parent.
	ErrUnknownParent = errors.New("unknown parent vertex")

	// ErrUnknownVertex is returned by [Graph.AddEdge], [Graph.VertexByPath]
	// and path operations when a referenced vertex does not exist.
	ErrUnknownVertex = errors.New("unknown vertex")

	// ErrNoCommonAncestor is returned by [Graph.Relation] when two vertices
	// share no containment ancestor (they live under different roots).
	ErrNoCommonAncestor = errors.New("no common ancestor")

	// ErrNotDescendant is returned by [Graph.PathBetween] when the second
	// vertex is not contained (transitively) within the first.
	ErrNotDescendant = errors.New("vertex is not a descendant of ancestor")
)

// Graph is the flat, typed design graph. The zero value is not usable;
// use [New].
type Graph struct {
	vertices []*Vertex
	byPath   map[string]*Vertex
	edges    []Edge
	outgoing map[int][]int // vertex index -> indices into edges where vertex is source
	incoming map[int][]int // vertex index -> indices into edges where vertex is target
}

// New creates an empty design graph.
func New() *Graph {
	return &Graph{
		byPath:   make(map[string]*Vertex),
		outgoing: make(map[int][]int),
		incoming: make(map[int][]int),
	}
}

// AddVertex inserts a vertex with the given dotted path, type and fields,
// and returns it. The fields map may be nil, in which case an empty map is
// attached. For a non-root path (one containing a dot) the parent prefix
// must already exist; this keeps parent-path derivation well-defined for
// every vertex in the graph.
func (g *Graph) AddVertex(path string, t VertexType, fields Fields) (*Vertex, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if _, exists := g.byPath[path]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicatePath, path)
	}
	if i := strings.LastIndex(path, "."); i >= 0 {
		if _, ok := g.byPath[path[:i]]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownParent, path[:i])
		}
	}
	if fields == nil {
		fields = Fields{}
	}
	v := &Vertex{Index: len(g.vertices), Path: path, Type: t, Fields: fields}
	g.vertices = append(g.vertices, v)
	g.byPath[path] = v
	return v, nil
}

// AddChild inserts a vertex as a child of parent (path = parent.Path + "." +
// ref) and records the corresponding part_of edge from the child to the
// parent. This is the usual way front ends grow the containment hierarchy.
func (g *Graph) AddChild(parent *Vertex, ref string, t VertexType, fields Fields) (*Vertex, error) {
	v, err := g.AddVertex(parent.Path+"."+ref, t, fields)
	if err != nil {
		return nil, err
	}
	if err := g.AddEdge(EdgePartOf, v, parent); err != nil {
		return nil, err
	}
	return v, nil
}

// AddEdge records a directed, typed edge from src to dst. Both vertices
// must already belong to the graph. Parallel edges are allowed.
func (g *Graph) AddEdge(t EdgeType, src, dst *Vertex) error {
	if src == nil || g.vertexByIndex(src.Index) != src {
		return fmt.Errorf("%w: edge source", ErrUnknownVertex)
	}
	if dst == nil || g.vertexByIndex(dst.Index) != dst {
		return fmt.Errorf("%w: edge target", ErrUnknownVertex)
	}
	idx := len(g.edges)
	g.edges = append(g.edges, Edge{Type: t, Source: src.Index, Target: dst.Index})
	g.outgoing[src.Index] = append(g.outgoing[src.Index], idx)
	g.incoming[dst.Index] = append(g.incoming[dst.Index], idx)
	return nil
}

// Connect records a connects_to edge between two pin-like vertices.
func (g *Graph) Connect(a, b *Vertex) error {
	return g.AddEdge(EdgeConnectsTo, a, b)
}

// VertexByPath resolves a vertex by its dotted path.
func (g *Graph) VertexByPath(path string) (*Vertex, bool) {
	v, ok := g.byPath[path]
	return v, ok
}

// VertexByIndex resolves a vertex by its integer index.
// Returns false if the index is out of range.
func (g *Graph) VertexByIndex(i int) (*Vertex, bool) {
	v := g.vertexByIndex(i)
	return v, v != nil
}

func (g *Graph) vertexByIndex(i int) *Vertex {
	if i < 0 || i >= len(g.vertices) {
		return nil
	}
	return g.vertices[i]
}

// VertexCount returns the number of vertices in the graph.
func (g *Graph) VertexCount() int { return len(g.vertices) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Adjacent returns the vertices reachable from v over edges of type t in
// the given direction, optionally filtered to a set of vertex types. With
// dir == In the returned vertices are the sources of edges targeting v;
// with dir == Out they are the targets of edges leaving v. Order follows
// edge insertion order, which is stable for a fixed graph.
func (g *Graph) Adjacent(v *Vertex, t EdgeType, dir Direction, types ...VertexType) []*Vertex {
	var out []*Vertex
	for _, e := range g.EdgesAt(v, t, dir) {
		other := e.Target
		if dir == In {
			other = e.Source
		}
		ov := g.vertices[other]
		if len(types) > 0 && !containsType(types, ov.Type) {
			continue
		}
		out = append(out, ov)
	}
	return out
}

// EdgesAt returns the edges of type t incident to v in the given direction,
// in edge insertion order.
func (g *Graph) EdgesAt(v *Vertex, t EdgeType, dir Direction) []Edge {
	idxs := g.outgoing[v.Index]
	if dir == In {
		idxs = g.incoming[v.Index]
	}
	var out []Edge
	for _, i := range idxs {
		if g.edges[i].Type == t {
			out = append(out, g.edges[i])
		}
	}
	return out
}

// EdgesOfType enumerates every edge of the given type in the whole graph,
// in insertion order. The order is deterministic for a fixed graph, which
// makes repeated lowering passes produce identical output.
func (g *Graph) EdgesOfType(t EdgeType) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func containsType(types []VertexType, t VertexType) bool {
	for _, c := range types {
		if c == t {
			return true
		}
	}
	return false
}
