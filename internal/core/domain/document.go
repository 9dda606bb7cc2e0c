package domain

import (
	"fmt"
	"strings"
	"time"
)

// Document is one processed unit of source material.
// A prospectus is stored either as a single Document or as one Document per chunk.
type Document struct {
	// ID is unique within the document store.
	ID string `json:"identifier"`

	// SourceName is the originating file name.
	SourceName string `json:"sourceName"`

	// DisplayName is the institution the document belongs to.
	DisplayName string `json:"displayName"`

	// Content is the normalised text of this unit.
	// For a failed extraction it holds a human-readable failure note.
	Content string `json:"content"`

	// Sections holds best-effort topic excerpts taken from Content.
	Sections Sections `json:"sections"`

	// WordCount is the number of whitespace-separated words in Content.
	WordCount int `json:"wordCount"`

	// LastUpdated is when the document was last written.
	LastUpdated time.Time `json:"lastUpdated"`
}

// Sections maps prospectus topics to excerpts. Empty means not found.
type Sections struct {
	Admissions         string `json:"admissions"`
	Fees               string `json:"fees"`
	Programs           string `json:"programs"`
	Accommodation      string `json:"accommodation"`
	Contact            string `json:"contact"`
	ApplicationProcess string `json:"applicationProcess"`
}

// For returns the section associated with a topic.
// TopicGeneral has no section and always returns an empty string.
func (s Sections) For(topic Topic) string {
	switch topic {
	case TopicFees:
		return s.Fees
	case TopicAdmissions:
		return s.Admissions
	case TopicPrograms:
		return s.Programs
	case TopicAccommodation:
		return s.Accommodation
	case TopicGeneral:
		return ""
	default:
		return ""
	}
}

// IsEmpty returns true if no section was found.
func (s Sections) IsEmpty() bool {
	return s == Sections{}
}

// Chunk is a contiguous slice of normalised text produced before persistence.
type Chunk struct {
	// Text is the trimmed slice content.
	Text string

	// Index is the zero-based position among retained chunks.
	Index int

	// TotalChunks is the number of retained chunks.
	TotalChunks int

	// Start and End are character offsets of the untrimmed slice in the source text.
	Start int
	End   int

	// Sections holds topic excerpts found in Text.
	Sections Sections
}

// DocumentSummary describes a stored document without its content.
type DocumentSummary struct {
	ID          string    `json:"identifier"`
	SourceName  string    `json:"sourceName"`
	DisplayName string    `json:"displayName"`
	WordCount   int       `json:"wordCount"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Inventory is the management view over the document store.
type Inventory struct {
	TotalDocuments int               `json:"totalDocuments"`
	Documents      []DocumentSummary `json:"documents"`
}

// Summary returns the summary view of a document.
func (d Document) Summary() DocumentSummary {
	return DocumentSummary{
		ID:          d.ID,
		SourceName:  d.SourceName,
		DisplayName: d.DisplayName,
		WordCount:   d.WordCount,
		LastUpdated: d.LastUpdated,
	}
}

// IngestOptions tunes a single ingestion.
type IngestOptions struct {
	// DisplayName overrides the institution name derived from content.
	DisplayName string
}

// chunkSeparator joins a source name and a chunk index into an identifier.
const chunkSeparator = "#chunk-"

// DocumentID builds the identifier for a unit of a source.
// Unchunked sources (total <= 1) use the source name as is.
// Chunk indexes in identifiers are one-based.
func DocumentID(sourceName string, index, total int) string {
	if total <= 1 {
		return sourceName
	}
	return fmt.Sprintf("%s%s%d", sourceName, chunkSeparator, index+1)
}

// CountWords returns the number of whitespace-separated words.
func CountWords(content string) int {
	return len(strings.Fields(content))
}
