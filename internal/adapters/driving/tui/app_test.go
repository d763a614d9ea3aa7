package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/parasol/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/parasol/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/parasol/internal/core/domain"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(NewPorts(&MockTreeService{}))
	require.NoError(t, err)
	return app
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewApp_Success(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, messages.ViewServices, app.CurrentView())
	assert.False(t, app.Ready())
	assert.NoError(t, app.Err())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{})

	assert.ErrorIs(t, err, ErrMissingTreeService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Same(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_WithService(t *testing.T) {
	app := newTestApp(t).WithService("consulting")

	assert.Equal(t, messages.ViewTree, app.CurrentView())
	require.NotNil(t, app.Init())
	assert.Equal(t, status.StateLoading, app.statusBar.State())
	assert.Equal(t, "consulting", app.treeView.ServiceID())
}

func TestApp_WithEmptyService(t *testing.T) {
	app := newTestApp(t).WithService("")

	assert.Equal(t, messages.ViewServices, app.CurrentView())
}

func TestApp_Init(t *testing.T) {
	app := newTestApp(t)

	assert.NotNil(t, app.Init())
}

func TestApp_WindowSize(t *testing.T) {
	app := newTestApp(t)

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.Nil(t, cmd)
	assert.True(t, model.(*App).Ready())
	assert.Equal(t, 100, app.statusBar.Width())
}

func TestApp_ViewBeforeReady(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_ServiceSelectedLoadsTree(t *testing.T) {
	app := newTestApp(t)
	app.SetDimensions(80, 24)

	_, cmd := app.Update(messages.ServiceSelected{Service: domain.ServiceRow{ID: "consulting"}})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewTree, app.CurrentView())
	assert.Equal(t, "consulting", app.statusBar.Context())

	loaded, ok := cmd().(messages.TreeLoaded)
	require.True(t, ok)
	app.Update(loaded)

	assert.Equal(t, status.StateBrowsing, app.statusBar.State())
	assert.Equal(t, 1, app.statusBar.NodeCount())
	assert.Contains(t, app.View(), "consulting")
}

func TestApp_TreeLoadError(t *testing.T) {
	app, err := NewApp(NewPorts(&MockTreeService{
		TreeFunc: func(context.Context, string) (*domain.TreeNode, error) {
			return nil, domain.ErrNotFound
		},
	}))
	require.NoError(t, err)

	_, cmd := app.Update(messages.ServiceSelected{Service: domain.ServiceRow{ID: "missing"}})
	app.Update(cmd())

	assert.ErrorIs(t, app.Err(), domain.ErrNotFound)
	assert.Equal(t, status.StateError, app.statusBar.State())
}

func TestApp_IgnoresStaleTree(t *testing.T) {
	app := newTestApp(t)
	app.Update(messages.ServiceSelected{Service: domain.ServiceRow{ID: "consulting"}})

	app.Update(messages.TreeLoaded{ServiceID: "billing", Tree: &domain.TreeNode{ID: "x"}})

	assert.Equal(t, status.StateLoading, app.statusBar.State())
	assert.Nil(t, app.treeView.Root())
}

func TestApp_NodeOpened(t *testing.T) {
	app := newTestApp(t)
	app.SetDimensions(80, 24)
	node := &domain.TreeNode{
		ID:       "usecase.md",
		Label:    "usecase.md",
		Type:     domain.NodeFile,
		Metadata: map[string]string{domain.NodeMetaContent: "# 成果物を提出"},
	}

	app.Update(messages.NodeOpened{Node: node})

	assert.Equal(t, messages.ViewContent, app.CurrentView())
	assert.Contains(t, app.View(), "成果物を提出")
}

func TestApp_ViewChanged(t *testing.T) {
	app := newTestApp(t)
	app.statusBar.SetContext("consulting")

	app.Update(messages.ViewChanged{View: messages.ViewTree})
	assert.Equal(t, messages.ViewTree, app.CurrentView())

	app.Update(messages.ViewChanged{View: messages.ViewServices})
	assert.Equal(t, messages.ViewServices, app.CurrentView())
	assert.Empty(t, app.statusBar.Context())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newTestApp(t)
	boom := errors.New("boom")

	app.Update(messages.ErrorOccurred{Err: boom})

	assert.Equal(t, boom, app.Err())
	assert.Equal(t, "boom", app.statusBar.Message())
}

func TestApp_ServicesLoadedError(t *testing.T) {
	app := newTestApp(t)

	app.Update(messages.ServicesLoaded{Err: domain.ErrNotFound})

	assert.ErrorIs(t, app.Err(), domain.ErrNotFound)
}

func TestApp_HelpToggle(t *testing.T) {
	app := newTestApp(t)
	app.SetDimensions(80, 40)
	app.Update(messages.ViewChanged{View: messages.ViewTree})

	app.Update(runeKey("?"))
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Equal(t, status.StateHelp, app.statusBar.State())
	assert.Contains(t, app.View(), "Help")

	app.Update(runeKey("?"))
	assert.Equal(t, messages.ViewTree, app.CurrentView())
}

func TestApp_HelpEscRestoresView(t *testing.T) {
	app := newTestApp(t)
	app.Update(messages.ViewChanged{View: messages.ViewContent})
	app.Update(runeKey("?"))

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, messages.ViewContent, app.CurrentView())
	assert.Equal(t, status.StateReady, app.statusBar.State())
}

func TestApp_QuitKeys(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runeKey("q"), {Type: tea.KeyCtrlC}} {
		app := newTestApp(t)

		_, cmd := app.Update(msg)

		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
	}
}

func TestApp_QuitMessage(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestApp_KeysForwardToView(t *testing.T) {
	app := newTestApp(t)
	app.Update(messages.ViewChanged{View: messages.ViewContent})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewTree}, cmd())
}
