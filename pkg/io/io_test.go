package io

import (
	"strings"
	"testing"

	"github.com/hdlview/hdlview/pkg/model"
	"github.com/hdlview/hdlview/pkg/view"
)

const sampleGraph = `{
  "vertices": [
    {"path": "top", "type": "module"},
    {"path": "top.c1", "type": "component", "fields": {"value": "10k"}},
    {"path": "top.c2", "type": "component"},
    {"path": "top.c1.p", "type": "pin"},
    {"path": "top.c2.q", "type": "pin"}
  ],
  "edges": [
    {"type": "part_of", "source": "top.c1", "target": "top"},
    {"type": "part_of", "source": "top.c2", "target": "top"},
    {"type": "part_of", "source": "top.c1.p", "target": "top.c1"},
    {"type": "part_of", "source": "top.c2.q", "target": "top.c2"},
    {"type": "connects_to", "source": "top.c1.p", "target": "top.c2.q"}
  ]
}`

func TestReadGraph(t *testing.T) {
	g, err := ReadGraph(strings.NewReader(sampleGraph))
	if err != nil {
		t.Fatalf("ReadGraph error: %v", err)
	}
	if g.VertexCount() != 5 {
		t.Errorf("VertexCount() = %d, want 5", g.VertexCount())
	}
	if g.EdgeCount() != 5 {
		t.Errorf("EdgeCount() = %d, want 5", g.EdgeCount())
	}

	c1, ok := g.VertexByPath("top.c1")
	if !ok {
		t.Fatal("top.c1 missing")
	}
	if c1.Type != model.VertexComponent {
		t.Errorf("top.c1 type = %v, want component", c1.Type)
	}
	if c1.Fields["value"] != "10k" {
		t.Errorf("top.c1 fields = %v, want value=10k", c1.Fields)
	}
}

func TestReadGraph_LowersEndToEnd(t *testing.T) {
	g, err := ReadGraph(strings.NewReader(sampleGraph))
	if err != nil {
		t.Fatalf("ReadGraph error: %v", err)
	}
	root, err := view.Lower(g, "top", nil)
	if err != nil {
		t.Fatalf("Lower error: %v", err)
	}
	if len(root.Blocks) != 2 {
		t.Errorf("root has %d blocks, want 2", len(root.Blocks))
	}
	if len(root.Links) != 1 {
		t.Fatalf("root has %d links, want 1", len(root.Links))
	}
	if root.Links[0].Source != "c1.p" || root.Links[0].Target != "c2.q" {
		t.Errorf("link = %s -> %s, want c1.p -> c2.q", root.Links[0].Source, root.Links[0].Target)
	}
}

func TestReadGraph_UnknownVertexType(t *testing.T) {
	doc := `{"vertices": [{"path": "top", "type": "transistor"}], "edges": []}`
	if _, err := ReadGraph(strings.NewReader(doc)); err == nil {
		t.Error("ReadGraph should reject unknown vertex types")
	}
}

func TestReadGraph_UnknownEdgeEndpoint(t *testing.T) {
	doc := `{
	  "vertices": [{"path": "top", "type": "module"}],
	  "edges": [{"type": "part_of", "source": "top.ghost", "target": "top"}]
	}`
	if _, err := ReadGraph(strings.NewReader(doc)); err == nil {
		t.Error("ReadGraph should reject edges with unknown endpoints")
	}
}

func TestReadGraph_Malformed(t *testing.T) {
	if _, err := ReadGraph(strings.NewReader("{not json")); err == nil {
		t.Error("ReadGraph should reject malformed JSON")
	}
}

func TestWriteView(t *testing.T) {
	g, err := ReadGraph(strings.NewReader(sampleGraph))
	if err != nil {
		t.Fatalf("ReadGraph error: %v", err)
	}
	root, err := view.Lower(g, "top", nil)
	if err != nil {
		t.Fatalf("Lower error: %v", err)
	}

	var buf strings.Builder
	if err := WriteView(root, &buf); err != nil {
		t.Fatalf("WriteView error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"name": "top"`, `"type": "module"`, `"instance_of": "top"`} {
		if !strings.Contains(out, want) {
			t.Errorf("view JSON missing %s", want)
		}
	}
}

func TestImportGraph_MissingFile(t *testing.T) {
	if _, err := ImportGraph(t.TempDir() + "/missing.json"); err == nil {
		t.Error("ImportGraph should fail for a missing file")
	}
}
