// Package content provides the markdown reader view for the TUI.
package content

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/parasol/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/parasol/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/parasol/internal/core/domain"
)

// reservedLines covers the title, separator, position line and help.
const reservedLines = 6

// View shows the markdown attached to a tree node in a scrollable viewport.
type View struct {
	styles   *styles.Styles
	viewport viewport.Model

	node    *domain.TreeNode
	content string
	width   int
	height  int
	ready   bool
}

// NewView creates a new content view.
func NewView(s *styles.Styles) *View {
	return &View{
		styles:   s,
		viewport: viewport.New(80, 20),
	}
}

// SetNode shows the content of a node from the top.
func (v *View) SetNode(node *domain.TreeNode) {
	v.node = node
	v.content = node.Content()
	v.refresh()
	v.viewport.GotoTop()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the content view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewTree}
			}
		case "home", "g":
			v.viewport.GotoTop()
			return v, nil
		case "end", "G":
			v.viewport.GotoBottom()
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// refresh wraps the content to the current width.
func (v *View) refresh() {
	if v.content == "" {
		v.viewport.SetContent(v.styles.Muted.Render("(No content)"))
		return
	}
	w := v.viewport.Width
	if w < 20 {
		w = 20
	}
	v.viewport.SetContent(lipgloss.NewStyle().Width(w).Render(v.content))
}

// View renders the content view.
func (v *View) View() string {
	var b strings.Builder

	title := "Content"
	if v.node != nil {
		title = v.node.Label
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", separatorWidth(v.width)))
	b.WriteString("\n")

	b.WriteString(v.viewport.View())
	b.WriteString("\n")

	if v.viewport.TotalLineCount() > v.viewport.Height {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%3.f%%]", v.viewport.ScrollPercent()*100)))
		b.WriteString("\n")
	}

	b.WriteString(v.renderHelp())
	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.viewport.Width = maxInt(width-4, 20)
	v.viewport.Height = maxInt(height-reservedLines, 1)
	v.refresh()
}

// Node returns the node being read.
func (v *View) Node() *domain.TreeNode {
	return v.node
}

// Content returns the node content.
func (v *View) Content() string {
	return v.content
}

// AtTop returns true if the viewport shows the first line.
func (v *View) AtTop() bool {
	return v.viewport.AtTop()
}

func separatorWidth(width int) int {
	if width-4 > 60 {
		return 60
	}
	return maxInt(width-4, 0)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
