// Package mcp provides an MCP (Model Context Protocol) server adapter for Parasol.
// It lets AI assistants analyse a corpus, read its migration plan and browse
// the published tree.
package mcp

import "errors"

// ErrMissingCorpusService is returned when the corpus service is not provided.
var ErrMissingCorpusService = errors.New("mcp: corpus service is required")
