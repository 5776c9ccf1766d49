package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hdlview/hdlview/pkg/model"
)

type graphDoc struct {
	Vertices []vertexDoc `json:"vertices"`
	Edges    []edgeDoc   `json:"edges"`
}

type vertexDoc struct {
	Path   string       `json:"path"`
	Type   string       `json:"type"`
	Fields model.Fields `json:"fields,omitempty"`
}

type edgeDoc struct {
	Type   string `json:"type"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// ReadGraph decodes a JSON design graph from r.
//
// Vertices are added in document order, so parents must precede their
// children; edges reference vertices by path. ReadGraph returns an error
// if the JSON is malformed, a vertex or edge type is not in the closed
// set, a vertex path duplicates or orphans, or an edge references an
// unknown path. Errors carry the offending path or edge for context.
func ReadGraph(r io.Reader) (*model.Graph, error) {
	var doc graphDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := model.New()
	for _, vd := range doc.Vertices {
		vt, ok := model.ParseVertexType(vd.Type)
		if !ok {
			return nil, fmt.Errorf("vertex %s: unknown type %q", vd.Path, vd.Type)
		}
		if _, err := g.AddVertex(vd.Path, vt, vd.Fields); err != nil {
			return nil, fmt.Errorf("vertex %s: %w", vd.Path, err)
		}
	}
	for _, ed := range doc.Edges {
		et, ok := model.ParseEdgeType(ed.Type)
		if !ok {
			return nil, fmt.Errorf("edge %s->%s: unknown type %q", ed.Source, ed.Target, ed.Type)
		}
		src, ok := g.VertexByPath(ed.Source)
		if !ok {
			return nil, fmt.Errorf("edge %s->%s: %w: %s", ed.Source, ed.Target, model.ErrUnknownVertex, ed.Source)
		}
		dst, ok := g.VertexByPath(ed.Target)
		if !ok {
			return nil, fmt.Errorf("edge %s->%s: %w: %s", ed.Source, ed.Target, model.ErrUnknownVertex, ed.Target)
		}
		if err := g.AddEdge(et, src, dst); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", ed.Source, ed.Target, err)
		}
	}
	return g, nil
}

// ImportGraph reads a JSON design graph from the file at path.
func ImportGraph(path string) (*model.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := ReadGraph(f)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return g, nil
}
