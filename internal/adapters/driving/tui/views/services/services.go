// Package services provides the published services list view for the TUI.
package services

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

// View lists the services held by the record store.
type View struct {
	styles      *styles.Styles
	treeService driving.TreeService

	services []domain.ServiceRow
	selected int
	width    int
	height   int
	ready    bool
	err      error
	loading  bool
}

// NewView creates a new services view.
func NewView(s *styles.Styles, treeService driving.TreeService) *View {
	return &View{
		styles:      s,
		treeService: treeService,
		services:    []domain.ServiceRow{},
	}
}

// Init initialises the view and loads services.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadServices()
}

// loadServices returns a command that loads services from the tree service.
func (v *View) loadServices() tea.Cmd {
	return func() tea.Msg {
		if v.treeService == nil {
			return messages.ServicesLoaded{Err: fmt.Errorf("tree service not available")}
		}
		services, err := v.treeService.Services(context.Background())
		return messages.ServicesLoaded{Services: services, Err: err}
	}
}

// Update handles messages for the services view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ServicesLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.services = msg.Services
		v.err = nil
		if v.selected >= len(v.services) {
			v.selected = 0
		}
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.services)-1 {
			v.selected++
		}
	case "enter", "right", "l":
		if len(v.services) > 0 && v.selected < len(v.services) {
			service := v.services[v.selected]
			return v, func() tea.Msg {
				return messages.ServiceSelected{Service: service}
			}
		}
	case "r":
		v.loading = true
		return v, v.loadServices()
	}

	return v, nil
}

// View renders the services view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Services"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading services..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.services) == 0:
		b.WriteString(v.styles.Muted.Render("No services published. Run `parasol publish` first."))
	default:
		for i := range v.services {
			b.WriteString(v.renderService(i, &v.services[i]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

// renderService renders a single service line.
func (v *View) renderService(index int, service *domain.ServiceRow) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	// Format: > display name (id)
	name := service.DisplayName
	if name == "" {
		name = service.ID
	}
	id := fmt.Sprintf("(%s)", service.ID)

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%s %s", indicator, name, id))
	}
	return v.styles.Normal.Render(indicator+name+" ") + v.styles.Muted.Render(id)
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[enter] browse  [r] reload  [q] quit")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Services returns the current list of services.
func (v *View) Services() []domain.ServiceRow {
	return v.services
}

// SelectedIndex returns the currently selected service index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Loading returns true while services are being fetched.
func (v *View) Loading() bool {
	return v.loading
}
