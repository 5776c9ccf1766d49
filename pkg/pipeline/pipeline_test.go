package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hdlview/hdlview/pkg/cache"
	apperrors "github.com/hdlview/hdlview/pkg/errors"
	"github.com/hdlview/hdlview/pkg/model"
)

// testGraph builds a small design: top contains c1 and c2, with a pin on
// each connected to the other.
func testGraph(t *testing.T) *model.Graph {
	t.Helper()
	g := model.New()
	top, err := g.AddVertex("top", model.VertexModule, nil)
	if err != nil {
		t.Fatalf("AddVertex(top) error: %v", err)
	}
	c1, err := g.AddChild(top, "c1", model.VertexComponent, nil)
	if err != nil {
		t.Fatalf("AddChild(c1) error: %v", err)
	}
	c2, err := g.AddChild(top, "c2", model.VertexComponent, nil)
	if err != nil {
		t.Fatalf("AddChild(c2) error: %v", err)
	}
	p, err := g.AddChild(c1, "p", model.VertexPin, nil)
	if err != nil {
		t.Fatalf("AddChild(p) error: %v", err)
	}
	q, err := g.AddChild(c2, "q", model.VertexPin, nil)
	if err != nil {
		t.Fatalf("AddChild(q) error: %v", err)
	}
	if err := g.Connect(p, q); err != nil {
		t.Fatalf("Connect(p, q) error: %v", err)
	}
	return g
}

func TestOptions_ValidateAndSetDefaults_MissingRoot(t *testing.T) {
	opts := Options{Graph: model.New()}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("ValidateAndSetDefaults() expected error for missing root")
	}
}

func TestOptions_ValidateAndSetDefaults_MissingGraph(t *testing.T) {
	opts := Options{Root: "top"}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("ValidateAndSetDefaults() expected error when graph and graph_path are both unset")
	}
}

func TestOptions_ValidateAndSetDefaults_DefaultFormat(t *testing.T) {
	opts := Options{Root: "top", Graph: model.New()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats = %v, want [json]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}
}

func TestOptions_ValidateAndSetDefaults_InvalidFormat(t *testing.T) {
	opts := Options{Root: "top", Graph: model.New(), Formats: []string{"png"}}
	err := opts.ValidateAndSetDefaults()
	if err == nil {
		t.Fatal("ValidateAndSetDefaults() expected error for invalid format")
	}
	if !strings.Contains(err.Error(), "png") {
		t.Errorf("error = %v, want mention of invalid format", err)
	}
}

func TestOptions_ValidateAndSetDefaults_Idempotent(t *testing.T) {
	opts := Options{Root: "top", Graph: model.New()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("first ValidateAndSetDefaults() error: %v", err)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second ValidateAndSetDefaults() error: %v", err)
	}
	if len(opts.Formats) != 1 {
		t.Errorf("Formats = %v, want single default entry", opts.Formats)
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{FormatJSON, FormatDOT, FormatSVG} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) error: %v", f, err)
		}
	}
	if err := ValidateFormat("pdf"); err == nil {
		t.Error("ValidateFormat(pdf) expected error")
	}
}

func TestRunner_Execute_InMemoryGraph(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Graph:   testGraph(t),
		Root:    "top",
		Formats: []string{FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID is empty")
	}
	if result.GraphHash == "" {
		t.Error("GraphHash is empty")
	}
	if result.View == nil || result.View.Name != "top" {
		t.Fatalf("View = %+v, want root block named top", result.View)
	}
	if result.Stats.VertexCount != 5 {
		t.Errorf("Stats.VertexCount = %d, want 5", result.Stats.VertexCount)
	}
	if result.Stats.BlockCount != 3 {
		t.Errorf("Stats.BlockCount = %d, want 3", result.Stats.BlockCount)
	}
	if result.Stats.LinkCount != 1 {
		t.Errorf("Stats.LinkCount = %d, want 1", result.Stats.LinkCount)
	}
	if len(result.Artifacts[FormatJSON]) == 0 {
		t.Error("json artifact is empty")
	}
	if !strings.Contains(string(result.Artifacts[FormatDOT]), "digraph") {
		t.Error("dot artifact does not look like a graphviz document")
	}
	if result.CacheInfo.ViewHit {
		t.Error("CacheInfo.ViewHit = true on null cache")
	}
}

func TestRunner_Execute_CacheHitOnSecondRun(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	runner := NewRunner(c, nil, nil)
	defer runner.Close()

	opts := Options{Graph: testGraph(t), Root: "top", Formats: []string{FormatJSON}}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute() error: %v", err)
	}
	if first.CacheInfo.ViewHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want all misses", first.CacheInfo)
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !second.CacheInfo.ViewHit {
		t.Error("second run ViewHit = false, want true")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run RenderHit = false, want true")
	}
	if string(first.Artifacts[FormatJSON]) != string(second.Artifacts[FormatJSON]) {
		t.Error("cached artifact differs from fresh artifact")
	}
}

func TestRunner_Execute_RefreshBypassesCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	runner := NewRunner(c, nil, nil)
	defer runner.Close()

	warm := Options{Graph: testGraph(t), Root: "top"}
	if _, err := runner.Execute(context.Background(), warm); err != nil {
		t.Fatalf("warmup Execute() error: %v", err)
	}

	refresh := Options{Graph: testGraph(t), Root: "top", Refresh: true}
	result, err := runner.Execute(context.Background(), refresh)
	if err != nil {
		t.Fatalf("refresh Execute() error: %v", err)
	}
	if result.CacheInfo.ViewHit || result.CacheInfo.RenderHit {
		t.Errorf("refresh run CacheInfo = %+v, want all misses", result.CacheInfo)
	}
}

func TestRunner_Execute_FromFile(t *testing.T) {
	doc := `{
		"vertices": [
			{"path": "top", "type": "module"},
			{"path": "top.c1", "type": "component"},
			{"path": "top.c1.p", "type": "pin"}
		],
		"edges": [
			{"type": "part_of", "source": "top.c1", "target": "top"},
			{"type": "part_of", "source": "top.c1.p", "target": "top.c1"}
		]
	}`
	path := filepath.Join(t.TempDir(), "design.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{GraphPath: path, Root: "top"})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result.View.Name != "top" || len(result.View.Blocks) != 1 {
		t.Errorf("View = %+v, want top with one child block", result.View)
	}
}

func TestRunner_Execute_RootNotFound(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	_, err := runner.Execute(context.Background(), Options{Graph: testGraph(t), Root: "missing"})
	if err == nil {
		t.Fatal("Execute() expected error for unknown root")
	}
	if !apperrors.Is(err, apperrors.ErrCodeRootNotFound) {
		t.Errorf("error code = %q, want %q", apperrors.GetCode(err), apperrors.ErrCodeRootNotFound)
	}
}

func TestRunner_Lower(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	root, err := runner.Lower(context.Background(), Options{Graph: testGraph(t), Root: "top"})
	if err != nil {
		t.Fatalf("Lower() error: %v", err)
	}
	if root.Name != "top" || len(root.Blocks) != 2 {
		t.Errorf("Lower() = %+v, want top with two children", root)
	}
}

func TestGraphHash_Deterministic(t *testing.T) {
	a := graphHash(testGraph(t))
	b := graphHash(testGraph(t))
	if a != b {
		t.Errorf("graphHash not deterministic: %s vs %s", a, b)
	}

	g := testGraph(t)
	top, _ := g.VertexByPath("top")
	if _, err := g.AddChild(top, "extra", model.VertexSignal, nil); err != nil {
		t.Fatalf("AddChild(extra) error: %v", err)
	}
	if graphHash(g) == a {
		t.Error("graphHash unchanged after adding a vertex")
	}
}
