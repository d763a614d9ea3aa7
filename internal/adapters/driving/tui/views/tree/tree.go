// Package tree provides the collapsible service tree view for the TUI.
package tree

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/parasol/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/parasol/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/parasol/internal/core/domain"
	"github.com/custodia-labs/parasol/internal/core/ports/driving"
)

// expandDepth is how many levels are unfolded when a tree loads:
// the service and its categories.
const expandDepth = 2

// row is one visible line of the flattened tree.
type row struct {
	node   *domain.TreeNode
	parent int
	depth  int
}

// View is a keyboard-driven browser over one service tree.
type View struct {
	styles      *styles.Styles
	treeService driving.TreeService

	serviceID string
	root      *domain.TreeNode
	expanded  map[string]bool
	rows      []row
	selected  int
	offset    int
	width     int
	height    int
	ready     bool
	err       error
	loading   bool
}

// NewView creates a new tree view.
func NewView(s *styles.Styles, treeService driving.TreeService) *View {
	return &View{
		styles:      s,
		treeService: treeService,
		expanded:    make(map[string]bool),
	}
}

// SetService resets the view and loads the tree of a service.
func (v *View) SetService(serviceID string) tea.Cmd {
	v.serviceID = serviceID
	v.root = nil
	v.rows = nil
	v.selected = 0
	v.offset = 0
	v.err = nil
	v.expanded = make(map[string]bool)
	v.loading = true
	return v.loadTree()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// loadTree returns a command that builds the tree of the current service.
func (v *View) loadTree() tea.Cmd {
	serviceID := v.serviceID
	return func() tea.Msg {
		if v.treeService == nil {
			return messages.TreeLoaded{ServiceID: serviceID, Err: fmt.Errorf("tree service not available")}
		}
		tree, err := v.treeService.Tree(context.Background(), serviceID)
		return messages.TreeLoaded{ServiceID: serviceID, Tree: tree, Err: err}
	}
}

// Update handles messages for the tree view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.TreeLoaded:
		if msg.ServiceID != v.serviceID {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.SetTree(msg.Tree)
		return v, nil
	}

	return v, nil
}

// SetTree replaces the tree and unfolds its top levels.
func (v *View) SetTree(root *domain.TreeNode) {
	v.root = root
	v.expanded = make(map[string]bool)
	root.Walk(func(n *domain.TreeNode, depth int) bool {
		if depth >= expandDepth {
			return false
		}
		v.expanded[n.ID] = true
		return true
	})
	v.selected = 0
	v.offset = 0
	v.rebuild()
}

// rebuild flattens the expanded part of the tree into rows.
func (v *View) rebuild() {
	v.rows = v.rows[:0]
	if v.root == nil {
		return
	}
	var add func(n *domain.TreeNode, parent, depth int)
	add = func(n *domain.TreeNode, parent, depth int) {
		index := len(v.rows)
		v.rows = append(v.rows, row{node: n, parent: parent, depth: depth})
		if !v.expanded[n.ID] {
			return
		}
		for _, c := range n.Children {
			add(c, index, depth+1)
		}
	}
	add(v.root, -1, 0)

	if v.selected >= len(v.rows) {
		v.selected = len(v.rows) - 1
	}
	if v.selected < 0 {
		v.selected = 0
	}
	v.clampOffset()
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.rows)-1 {
			v.selected++
		}
	case "home", "g":
		v.selected = 0
	case "end", "G":
		if len(v.rows) > 0 {
			v.selected = len(v.rows) - 1
		}
	case "right", "l", " ":
		if node := v.Selected(); node != nil && len(node.Children) > 0 && !v.expanded[node.ID] {
			v.expanded[node.ID] = true
			v.rebuild()
		}
	case "left", "h":
		v.collapse()
	case "enter":
		return v, v.open()
	case "r":
		if v.serviceID != "" {
			v.loading = true
			return v, v.loadTree()
		}
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewServices}
		}
	}

	v.clampOffset()
	return v, nil
}

// collapse folds the selected node, or moves to its parent when it is
// already folded.
func (v *View) collapse() {
	if v.selected < 0 || v.selected >= len(v.rows) {
		return
	}
	r := v.rows[v.selected]
	if v.expanded[r.node.ID] && len(r.node.Children) > 0 {
		v.expanded[r.node.ID] = false
		v.rebuild()
		return
	}
	if r.parent >= 0 {
		v.selected = r.parent
	}
}

// open toggles a branch or emits NodeOpened for a node with content.
func (v *View) open() tea.Cmd {
	node := v.Selected()
	if node == nil {
		return nil
	}
	if node.Content() != "" {
		return func() tea.Msg {
			return messages.NodeOpened{Node: node}
		}
	}
	if len(node.Children) > 0 {
		v.expanded[node.ID] = !v.expanded[node.ID]
		v.rebuild()
	}
	return nil
}

// visibleLines returns the number of rows that can be displayed.
func (v *View) visibleLines() int {
	// Reserve lines for title, separator and help
	available := v.height - 6
	if available < 1 {
		available = 1
	}
	return available
}

func (v *View) clampOffset() {
	visible := v.visibleLines()
	if v.selected < v.offset {
		v.offset = v.selected
	}
	if v.selected >= v.offset+visible {
		v.offset = v.selected - visible + 1
	}
	if v.offset < 0 {
		v.offset = 0
	}
}

// View renders the tree view.
func (v *View) View() string {
	var b strings.Builder

	title := v.serviceID
	if v.root != nil {
		title = v.root.Label
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", separatorWidth(v.width)))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading tree..."))
		b.WriteString("\n")
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
	case len(v.rows) == 0:
		b.WriteString(v.styles.Muted.Render("(Empty tree)"))
		b.WriteString("\n")
	default:
		end := minInt(v.offset+v.visibleLines(), len(v.rows))
		for i := v.offset; i < end; i++ {
			b.WriteString(v.renderRow(i))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

// renderRow renders one tree line with its fold marker.
func (v *View) renderRow(index int) string {
	r := v.rows[index]
	marker := "  "
	if len(r.node.Children) > 0 {
		marker = "▸ "
		if v.expanded[r.node.ID] {
			marker = "▾ "
		}
	}
	label := r.node.Label
	if pattern := r.node.Metadata["pattern"]; pattern != "" {
		label += " [" + pattern + "]"
	}
	line := strings.Repeat("  ", r.depth) + marker + label

	if index == v.selected {
		return v.styles.Selected.Render(line)
	}
	return v.styles.Node(r.node.Type).Render(line)
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] move  [→/←] expand/collapse  [enter] open  [r] reload  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.clampOffset()
}

// Selected returns the node under the cursor.
func (v *View) Selected() *domain.TreeNode {
	if v.selected < 0 || v.selected >= len(v.rows) {
		return nil
	}
	return v.rows[v.selected].node
}

// VisibleNodes returns the IDs of the rows currently unfolded.
func (v *View) VisibleNodes() []string {
	ids := make([]string, len(v.rows))
	for i, r := range v.rows {
		ids[i] = r.node.ID
	}
	return ids
}

// ServiceID returns the service being browsed.
func (v *View) ServiceID() string {
	return v.serviceID
}

// Root returns the loaded tree.
func (v *View) Root() *domain.TreeNode {
	return v.root
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

func separatorWidth(width int) int {
	w := minInt(width-4, 60)
	if w < 0 {
		return 0
	}
	return w
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
