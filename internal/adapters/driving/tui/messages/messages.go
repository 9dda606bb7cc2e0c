// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/unisearch/internal/core/domain"
)

// AskCompleted carries the answer to a question back to the model.
type AskCompleted struct {
	Question string
	Result   domain.AnswerResult
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewAsk is the question input and answer view.
	ViewAsk
	// ViewDocuments lists the loaded documents.
	ViewDocuments
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewAsk:
		return "ask"
	case ViewDocuments:
		return "documents"
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

// InventoryLoaded carries the document inventory.
type InventoryLoaded struct {
	Inventory domain.Inventory
}

// DocumentLoaded carries a full document for the detail pane.
type DocumentLoaded struct {
	Document domain.Document
	Err      error
}

// SourceRemoved signals every document of a source was removed.
type SourceRemoved struct {
	SourceName string
	Removed    bool
}
