// Package pkg provides the core libraries for hdlview design lowering.
//
// # Overview
//
// hdlview turns a flat typed design graph into a hierarchical block view
// that a schematic viewer can draw. The pkg directory is organized into
// these areas:
//
//  1. [model] - The flat design graph (typed vertices and edges)
//  2. [view] - The lowered block tree and the lowering pass itself
//  3. [io] - JSON interchange for graphs and views
//  4. [render] - DOT and SVG diagram generation
//  5. [pipeline] - Orchestration (import → lower → render) with caching
//  6. [cache] - File, redis, and null cache backends
//  7. [observability] - Pluggable pipeline and cache hooks
//
// # Architecture
//
// The typical data flow through hdlview:
//
//	Design Graph JSON
//	         ↓
//	    [model] package (typed graph, paths, ancestry)
//	         ↓
//	    [view] package (lowering: elision, flattening, link scoping)
//	         ↓
//	    [render] package (DOT / SVG diagrams)
//	         ↓
//	    JSON/DOT/SVG output
//
// # Quick Start
//
//	g, err := io.ImportGraph("design.json")
//	if err != nil { ... }
//	root, err := view.Lower(g, "amp", nil)
//	if err != nil { ... }
//	data, err := io.MarshalView(root)
package pkg
