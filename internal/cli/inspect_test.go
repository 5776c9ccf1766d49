package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hdlview/hdlview/pkg/view"
)

func inspectTestTree() *view.Block {
	return &view.Block{
		Name: "top",
		Type: "module",
		Blocks: []*view.Block{
			{
				Name: "c1",
				Type: "component",
				Pins: []*view.Pin{{Name: "p"}},
			},
			{
				Name: "c2",
				Type: "component",
				Pins: []*view.Pin{{Name: "q"}},
			},
		},
		Links: []*view.Link{{Name: "c1.p~c2.q", Source: "c1.p", Target: "c2.q"}},
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestInspectModel_RootExpanded(t *testing.T) {
	m := NewInspectModel(inspectTestTree())

	if len(m.rows) != 3 {
		t.Fatalf("rows = %d, want 3 (root expanded)", len(m.rows))
	}
	if m.rows[0].block.Name != "top" || m.rows[1].block.Name != "c1" || m.rows[2].block.Name != "c2" {
		t.Errorf("row order = %s, %s, %s; want top, c1, c2",
			m.rows[0].block.Name, m.rows[1].block.Name, m.rows[2].block.Name)
	}
}

func TestInspectModel_Navigation(t *testing.T) {
	m := NewInspectModel(inspectTestTree())

	next, _ := m.Update(keyMsg("j"))
	m = next.(InspectModel)
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d after j, want 1", m.Cursor)
	}

	next, _ = m.Update(keyMsg("k"))
	m = next.(InspectModel)
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d after k, want 0", m.Cursor)
	}

	// Moving up at the top is a no-op.
	next, _ = m.Update(keyMsg("k"))
	m = next.(InspectModel)
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d after k at top, want 0", m.Cursor)
	}
}

func TestInspectModel_CollapseRoot(t *testing.T) {
	m := NewInspectModel(inspectTestTree())

	next, _ := m.Update(keyMsg("enter"))
	m = next.(InspectModel)
	if len(m.rows) != 1 {
		t.Errorf("rows = %d after collapsing root, want 1", len(m.rows))
	}

	next, _ = m.Update(keyMsg("enter"))
	m = next.(InspectModel)
	if len(m.rows) != 3 {
		t.Errorf("rows = %d after re-expanding root, want 3", len(m.rows))
	}
}

func TestInspectModel_QuitKeys(t *testing.T) {
	m := NewInspectModel(inspectTestTree())

	for _, key := range []string{"q"} {
		_, cmd := m.Update(keyMsg(key))
		if cmd == nil {
			t.Errorf("Update(%q) returned nil cmd, want tea.Quit", key)
		}
	}
}

func TestInspectModel_ViewShowsLinks(t *testing.T) {
	m := NewInspectModel(inspectTestTree())

	out := m.View()
	if !strings.Contains(out, "top") || !strings.Contains(out, "c1") {
		t.Error("View() missing block names")
	}
	if !strings.Contains(out, "c1.p") || !strings.Contains(out, "c2.q") {
		t.Error("View() missing link endpoints for the selected block")
	}
}

func TestInspectModel_TogglePins(t *testing.T) {
	m := NewInspectModel(inspectTestTree())

	next, _ := m.Update(keyMsg("p"))
	m = next.(InspectModel)
	if !m.ShowPins {
		t.Error("ShowPins = false after p, want true")
	}
}
