package mcp

import (
	"github.com/custodia-labs/parasol/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Corpus scans, analyses and plans.
	Corpus driving.CorpusService

	// Tree reads published records. Optional.
	Tree driving.TreeService

	// Root is the corpus root used when a tool call names none.
	Root string
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Corpus == nil {
		return ErrMissingCorpusService
	}
	return nil
}
