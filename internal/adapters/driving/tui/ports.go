// Package tui provides an interactive terminal user interface for unisearch.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/unisearch/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer answers questions against the loaded prospectuses.
	Answer driving.AnswerService

	// Document lists and removes stored documents.
	Document driving.DocumentService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(answer driving.AnswerService, document driving.DocumentService) *Ports {
	return &Ports{
		Answer:   answer,
		Document: document,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	return nil
}
