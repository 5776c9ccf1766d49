package model

import (
	"fmt"
	"strings"
)

// VertexType classifies a vertex in the design graph. The set is closed:
// every vertex produced by the front end carries exactly one of these tags,
// and the lowering pass dispatches on them exhaustively.
type VertexType int

const (
	// VertexFile is a source file, the root of a containment hierarchy.
	VertexFile VertexType = iota
	// VertexModule is a reusable grouping of components and signals.
	VertexModule
	// VertexComponent is a concrete part with pins.
	VertexComponent
	// VertexInterface is a named bundle of pins. Interfaces are flattened
	// into their enclosing block during lowering, never materialized.
	VertexInterface
	// VertexPin is an electrically terminal point on a component boundary.
	VertexPin
	// VertexSignal is an internal net exposed as a named electrical point.
	VertexSignal
)

var vertexTypeNames = map[VertexType]string{
	VertexFile:      "file",
	VertexModule:    "module",
	VertexComponent: "component",
	VertexInterface: "interface",
	VertexPin:       "pin",
	VertexSignal:    "signal",
}

var vertexTypeFromName = map[string]VertexType{
	"file":      VertexFile,
	"module":    VertexModule,
	"component": VertexComponent,
	"interface": VertexInterface,
	"pin":       VertexPin,
	"signal":    VertexSignal,
}

// String returns the wire name of the vertex type (e.g., "module").
func (t VertexType) String() string {
	if s, ok := vertexTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("VertexType(%d)", int(t))
}

// ParseVertexType resolves a wire name to a VertexType.
// Returns false if the name is not one of the closed set.
func ParseVertexType(s string) (VertexType, bool) {
	t, ok := vertexTypeFromName[s]
	return t, ok
}

// EdgeType classifies a directed edge in the design graph.
type EdgeType int

const (
	// EdgePartOf encodes containment: the edge points from a child vertex
	// to its container. A container discovers its children by querying
	// inbound part_of edges.
	EdgePartOf EdgeType = iota
	// EdgeInstanceOf marks a vertex as a concrete instantiation of a
	// template vertex. At most one per vertex is expected.
	EdgeInstanceOf
	// EdgeConnectsTo is an electrical connection between two pin-like
	// vertices anywhere in the graph, independent of containment.
	EdgeConnectsTo
)

var edgeTypeNames = map[EdgeType]string{
	EdgePartOf:     "part_of",
	EdgeInstanceOf: "instance_of",
	EdgeConnectsTo: "connects_to",
}

var edgeTypeFromName = map[string]EdgeType{
	"part_of":     EdgePartOf,
	"instance_of": EdgeInstanceOf,
	"connects_to": EdgeConnectsTo,
}

// String returns the wire name of the edge type (e.g., "part_of").
func (t EdgeType) String() string {
	if s, ok := edgeTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("EdgeType(%d)", int(t))
}

// ParseEdgeType resolves a wire name to an EdgeType.
// Returns false if the name is unknown.
func ParseEdgeType(s string) (EdgeType, bool) {
	t, ok := edgeTypeFromName[s]
	return t, ok
}

// Direction selects which end of an edge an adjacency query follows.
type Direction int

const (
	// In follows edges pointing into the vertex (the vertex is the target).
	In Direction = iota
	// Out follows edges leaving the vertex (the vertex is the source).
	Out
)

// Fields is the opaque key-value payload attached to a vertex during
// parsing. The lowering pass copies it verbatim into the output; downstream
// consumers own its schema.
type Fields map[string]any

// Vertex is a node in the design graph. Vertices are identified both by a
// dense integer index (assigned at insertion) and by a dotted hierarchical
// path. Vertices are read-only once the graph is built.
type Vertex struct {
	Index  int
	Path   string
	Type   VertexType
	Fields Fields
}

// Ref returns the vertex's local name: the last segment of its path.
func (v *Vertex) Ref() string {
	if i := strings.LastIndex(v.Path, "."); i >= 0 {
		return v.Path[i+1:]
	}
	return v.Path
}

// ParentPath returns the path of the vertex's immediate container, or ""
// for a root vertex. Every non-root vertex has a parent path that is a
// strict prefix of its own path.
func (v *Vertex) ParentPath() string {
	if i := strings.LastIndex(v.Path, "."); i >= 0 {
		return v.Path[:i]
	}
	return ""
}

// Edge is a directed, typed edge between two vertices, referenced by their
// integer indices. Edge identity includes its position in the graph's edge
// list, which fixes enumeration order.
type Edge struct {
	Type   EdgeType
	Source int
	Target int
}
