// Package io provides JSON interchange for design graphs and lowered views.
//
// # Overview
//
// The front end of the compiler emits a flat, typed design graph; this
// package reads that graph into a [model.Graph] and writes the lowered
// [view.Block] tree back out. It is the bootstrap path for the CLI and the
// HTTP server - the lowering core itself never touches files.
//
// # Graph Format
//
// The graph format has two top-level arrays. Vertices must appear before
// their children (parents first), and edges address vertices by path:
//
//	{
//	  "vertices": [
//	    {"path": "top", "type": "module"},
//	    {"path": "top.c1", "type": "component", "fields": {"value": "10k"}},
//	    {"path": "top.c1.p", "type": "pin"}
//	  ],
//	  "edges": [
//	    {"type": "part_of", "source": "top.c1", "target": "top"},
//	    {"type": "part_of", "source": "top.c1.p", "target": "top.c1"}
//	  ]
//	}
//
// Vertex types are file, module, component, interface, pin and signal; edge
// types are part_of, instance_of and connects_to. The fields object is
// opaque pass-through data owned by downstream consumers.
//
// # View Format
//
// The lowered view serializes as the nested block record described by
// [view.Block]: name, type, fields, child blocks, pins, links and the
// instance_of path. Use [WriteView] / [ExportView] to emit it.
//
// # Concurrency
//
// Graphs returned by [ReadGraph] and [ImportGraph] are independent
// instances; once handed to the lowering pass they must not be mutated.
//
// [model.Graph]: github.com/hdlview/hdlview/pkg/model.Graph
// [view.Block]: github.com/hdlview/hdlview/pkg/view.Block
package io
