// Package tui provides an interactive terminal browser for published
// Parasol trees. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/custodia-labs/parasol/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Tree lists services and builds their trees.
	Tree driving.TreeService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(tree driving.TreeService) *Ports {
	return &Ports{Tree: tree}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Tree == nil {
		return ErrMissingTreeService
	}
	return nil
}
