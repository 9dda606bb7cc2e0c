// Package mcp provides an MCP (Model Context Protocol) server adapter for unisearch.
// It lets AI assistants ask questions about the loaded prospectuses and read their content.
package mcp

import "errors"

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("mcp: answer service is required")
