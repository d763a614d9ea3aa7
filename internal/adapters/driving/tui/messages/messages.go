// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/parasol/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewServices lists the published services.
	ViewServices ViewType = iota
	// ViewTree browses one service tree.
	ViewTree
	// ViewContent shows the markdown behind a tree node.
	ViewContent
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewServices:
		return "services"
	case ViewTree:
		return "tree"
	case ViewContent:
		return "content"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// ServicesLoaded carries the list of published services.
type ServicesLoaded struct {
	Services []domain.ServiceRow
	Err      error
}

// ServiceSelected signals a service was picked for browsing.
type ServiceSelected struct {
	Service domain.ServiceRow
}

// TreeLoaded carries the tree of one service.
type TreeLoaded struct {
	ServiceID string
	Tree      *domain.TreeNode
	Err       error
}

// NodeOpened signals a node was opened to read its content.
type NodeOpened struct {
	Node *domain.TreeNode
}
