package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hdlview/hdlview/pkg/pipeline"
	"github.com/hdlview/hdlview/pkg/view"
)

// Tree styles
var (
	treeSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	treeNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	treePinStyle      = lipgloss.NewStyle().Foreground(colorGray)
	treeLinkStyle     = lipgloss.NewStyle().Foreground(colorBlue)
	treeDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand creates the inspect command, an interactive terminal
// browser for a lowered block tree.
func (c *CLI) inspectCommand() *cobra.Command {
	var root string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "inspect [graph.json]",
		Short: "Browse a lowered block tree interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if root == "" {
				root = c.loadConfig().DefaultRoot
			}
			if root == "" {
				return fmt.Errorf("no root given: pass --root or set default_root in %s", configFileName)
			}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return fmt.Errorf("create runner: %w", err)
			}
			defer runner.Close()

			blk, err := runner.Lower(cmd.Context(), pipeline.Options{
				GraphPath: args[0],
				Root:      root,
				Logger:    c.Logger,
			})
			if err != nil {
				return err
			}

			model := NewInspectModel(blk)
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", "dotted path of the root vertex (default: from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the pipeline cache")

	return cmd
}

// =============================================================================
// InspectModel - Interactive block tree browser
// =============================================================================

// inspectRow is one visible line in the tree: a block at a given depth.
type inspectRow struct {
	block *view.Block
	depth int
}

// InspectModel is the bubbletea model for browsing a block tree.
type InspectModel struct {
	Root     *view.Block
	Cursor   int
	Height   int
	Offset   int
	ShowPins bool

	expanded map[*view.Block]bool
	rows     []inspectRow
}

// NewInspectModel creates a browser over blk with the root expanded.
func NewInspectModel(blk *view.Block) InspectModel {
	m := InspectModel{
		Root:     blk,
		Height:   20,
		expanded: map[*view.Block]bool{blk: true},
	}
	m.rebuild()
	return m
}

// rebuild recomputes the visible rows from the expand state.
func (m *InspectModel) rebuild() {
	m.rows = m.rows[:0]
	m.appendRows(m.Root, 0)
	if m.Cursor >= len(m.rows) {
		m.Cursor = len(m.rows) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m *InspectModel) appendRows(blk *view.Block, depth int) {
	m.rows = append(m.rows, inspectRow{block: blk, depth: depth})
	if !m.expanded[blk] {
		return
	}
	for _, child := range blk.Blocks {
		m.appendRows(child, depth+1)
	}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			blk := m.rows[m.Cursor].block
			if len(blk.Blocks) > 0 {
				m.expanded[blk] = !m.expanded[blk]
				m.rebuild()
			}
		case "p":
			m.ShowPins = !m.ShowPins
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Inspect " + m.Root.Name))
	b.WriteString("\n")
	b.WriteString(treeDimStyle.Render("↑/↓ navigate  ⏎ expand/collapse  p pins  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	for i := m.Offset; i < end; i++ {
		row := m.rows[i]
		blk := row.block

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		marker := "  "
		if len(blk.Blocks) > 0 {
			if m.expanded[blk] {
				marker = "▾ "
			} else {
				marker = "▸ "
			}
		}

		label := blk.Name
		if blk.Type != "" {
			label += treeDimStyle.Render(" <" + blk.Type + ">")
		}

		style := treeNormalStyle
		if i == m.Cursor {
			style = treeSelectedStyle
		}

		indent := strings.Repeat("  ", row.depth)
		b.WriteString(cursor + indent + marker + style.Render(label))
		b.WriteString(treeDimStyle.Render(fmt.Sprintf("  %d pins  %d links", len(blk.Pins), len(blk.Links))))
		b.WriteString("\n")

		if m.ShowPins {
			for _, pin := range blk.Pins {
				b.WriteString("  " + indent + "    " + treePinStyle.Render("◦ "+pin.Name))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(m.selectedLinks())

	return b.String()
}

// selectedLinks summarizes the links scoped at the block under the cursor.
func (m InspectModel) selectedLinks() string {
	if len(m.rows) == 0 {
		return ""
	}
	blk := m.rows[m.Cursor].block
	if len(blk.Links) == 0 {
		return treeDimStyle.Render("no links at " + blk.Name)
	}

	var b strings.Builder
	b.WriteString(treeDimStyle.Render("links at " + blk.Name + ":"))
	b.WriteString("\n")
	for _, link := range blk.Links {
		b.WriteString("  " + treeLinkStyle.Render(link.Source) + treeDimStyle.Render(" "+iconArrow+" ") + treeLinkStyle.Render(link.Target))
		b.WriteString("\n")
	}
	return b.String()
}
