package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/parasol/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/parasol/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/parasol/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/parasol/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/parasol/internal/adapters/driving/tui/views/content"
	"github.com/custodia-labs/parasol/internal/adapters/driving/tui/views/services"
	"github.com/custodia-labs/parasol/internal/adapters/driving/tui/views/tree"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusBar *status.Bar

	servicesView *services.View
	treeView     *tree.View
	contentView  *content.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is restored when help is closed.
	previousView messages.ViewType

	// initialService opens straight into a tree when set.
	initialService string

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		statusBar:    status.NewBar(s, km),
		servicesView: services.NewView(s, ports.Tree),
		treeView:     tree.NewView(s, ports.Tree),
		contentView:  content.NewView(s),
		currentView:  messages.ViewServices,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithService opens the app on the tree of one service.
func (a *App) WithService(serviceID string) *App {
	a.initialService = serviceID
	if serviceID != "" {
		a.currentView = messages.ViewTree
	}
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("parasol - Tree Browser"),
		a.servicesView.Init(),
	}
	if a.initialService != "" {
		a.statusBar.SetContext(a.initialService)
		a.statusBar.SetState(status.StateLoading)
		cmds = append(cmds, a.treeView.SetService(a.initialService))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.ServicesLoaded:
		a.servicesView, cmd = a.servicesView.Update(msg)
		if msg.Err != nil {
			a.setError(msg.Err)
		}
		return a, cmd

	case messages.ServiceSelected:
		a.currentView = messages.ViewTree
		a.statusBar.Clear()
		a.statusBar.SetContext(msg.Service.ID)
		a.statusBar.SetState(status.StateLoading)
		return a, a.treeView.SetService(msg.Service.ID)

	case messages.TreeLoaded:
		if msg.ServiceID != a.treeView.ServiceID() {
			return a, nil
		}
		a.treeView, cmd = a.treeView.Update(msg)
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, cmd
		}
		a.err = nil
		a.statusBar.SetState(status.StateBrowsing)
		a.statusBar.SetNodeCount(msg.Tree.Count())
		return a, cmd

	case messages.NodeOpened:
		a.contentView.SetNode(msg.Node)
		a.currentView = messages.ViewContent
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewServices {
			a.statusBar.Clear()
		}
		return a, nil

	case messages.ErrorOccurred:
		a.setError(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, nil
}

// handleKey applies global bindings, then forwards to the active view.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, a.keymap.Quit):
		return a, tea.Quit

	case keymap.Matches(keyStr, a.keymap.Help):
		if a.currentView == messages.ViewHelp {
			a.currentView = a.previousView
			a.statusBar.SetState(status.StateReady)
		} else {
			a.previousView = a.currentView
			a.currentView = messages.ViewHelp
			a.statusBar.SetState(status.StateHelp)
		}
		return a, nil
	}

	switch a.currentView {
	case messages.ViewServices:
		a.servicesView, cmd = a.servicesView.Update(msg)
	case messages.ViewTree:
		a.treeView, cmd = a.treeView.Update(msg)
	case messages.ViewContent:
		a.contentView, cmd = a.contentView.Update(msg)
	case messages.ViewHelp:
		if keymap.Matches(keyStr, a.keymap.Back) {
			a.currentView = a.previousView
			a.statusBar.SetState(status.StateReady)
		}
	}
	return a, cmd
}

func (a *App) setError(err error) {
	a.err = err
	a.statusBar.SetState(status.StateError)
	a.statusBar.SetMessage(err.Error())
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewTree:
		body = a.treeView.View()
	case messages.ViewContent:
		body = a.contentView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.servicesView.View()
	}
	return body + "\n" + a.statusBar.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions and resizes every view.
// One line is kept for the status bar.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	bodyHeight := height - 1
	a.servicesView.SetDimensions(width, bodyHeight)
	a.treeView.SetDimensions(width, bodyHeight)
	a.contentView.SetDimensions(width, bodyHeight)
	a.statusBar.SetWidth(width)
}
