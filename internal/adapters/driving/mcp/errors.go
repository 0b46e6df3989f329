// Package mcp provides an MCP (Model Context Protocol) server adapter for Norma.
// It lets AI assistants ask questions against the indexed corpus and inspect
// the knowledge scope.
package mcp

import "errors"

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("mcp: answer service is required")
