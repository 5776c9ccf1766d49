package view

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/hdlview/hdlview/pkg/model"
)

func TestBlock_JSONShape(t *testing.T) {
	g := model.New()
	top := addVertex(t, g, "top", model.VertexModule)
	c := addChild(t, g, top, "c", model.VertexComponent)
	addChild(t, g, c, "p", model.VertexPin)

	root := lower(t, g, "top")
	data, err := json.Marshal(root)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	s := string(data)

	for _, key := range []string{`"name"`, `"type"`, `"fields"`, `"blocks"`, `"pins"`, `"links"`, `"instance_of"`} {
		if !strings.Contains(s, key) {
			t.Errorf("serialized block missing %s field", key)
		}
	}

	// Round-trip preserves structure.
	var back Block
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if back.Name != "top" || len(back.Blocks) != 1 || back.Blocks[0].Name != "c" {
		t.Errorf("round-trip lost structure: %+v", back)
	}
	if len(back.Blocks[0].Pins) != 1 || back.Blocks[0].Pins[0].Name != "p" {
		t.Error("round-trip lost pins")
	}
}

func TestBlock_EmptyListsSerializeAsArrays(t *testing.T) {
	g := model.New()
	top := addVertex(t, g, "top", model.VertexModule)
	addChild(t, g, top, "c", model.VertexComponent)

	root := lower(t, g, "top")

	// The leaf component has no children, pins, or links; all three must
	// still serialize as empty arrays, never null.
	data, err := json.Marshal(root.Blocks[0])
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	s := string(data)
	if strings.Contains(s, "null") {
		t.Errorf("leaf block serialized null: %s", s)
	}
	for _, want := range []string{`"blocks":[]`, `"pins":[]`, `"links":[]`} {
		if !strings.Contains(s, want) {
			t.Errorf("leaf block missing %s: %s", want, s)
		}
	}
}

func TestBlock_InstanceOfOmittedWhenAbsent(t *testing.T) {
	g := model.New()
	top := addVertex(t, g, "top", model.VertexModule)
	addChild(t, g, top, "c", model.VertexComponent)

	root := lower(t, g, "top")
	data, err := json.Marshal(root.Blocks[0])
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if strings.Contains(string(data), "instance_of") {
		t.Errorf("child without template serialized instance_of: %s", data)
	}
}

func TestBlock_SerializationIsPure(t *testing.T) {
	// Serializing twice yields identical bytes and does not disturb the
	// tree: all semantic decisions happened during building.
	g := model.New()
	top := addVertex(t, g, "top", model.VertexModule)
	c := addChild(t, g, top, "c", model.VertexComponent)
	iface := addChild(t, g, c, "i2c", model.VertexInterface)
	addChild(t, g, iface, "sda", model.VertexPin)

	root := lower(t, g, "top")
	first, err := json.Marshal(root)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	second, err := json.Marshal(root)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(first) != string(second) {
		t.Error("serialization must be deterministic")
	}
}

func TestBlock_Counts(t *testing.T) {
	g := model.New()
	top := addVertex(t, g, "top", model.VertexModule)
	c1 := addChild(t, g, top, "c1", model.VertexComponent)
	c2 := addChild(t, g, top, "c2", model.VertexComponent)
	a := addChild(t, g, c1, "a", model.VertexPin)
	b := addChild(t, g, c2, "b", model.VertexPin)
	connect(t, g, a, b)

	root := lower(t, g, "top")
	if got := root.BlockCount(); got != 3 {
		t.Errorf("BlockCount() = %d, want 3", got)
	}
	if got := root.PinCount(); got != 2 {
		t.Errorf("PinCount() = %d, want 2", got)
	}
	if got := root.LinkCount(); got != 1 {
		t.Errorf("LinkCount() = %d, want 1", got)
	}
}
