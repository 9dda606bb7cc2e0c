package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDocumentID(t *testing.T) {
	tests := []struct {
		name   string
		source string
		index  int
		total  int
		want   string
	}{
		{"single chunk keeps source name", "uct.pdf", 0, 1, "uct.pdf"},
		{"zero total keeps source name", "uct.pdf", 0, 0, "uct.pdf"},
		{"first of many", "wits.pdf", 0, 3, "wits.pdf#chunk-1"},
		{"last of many", "wits.pdf", 2, 3, "wits.pdf#chunk-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DocumentID(tt.source, tt.index, tt.total))
		})
	}
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 0, CountWords("  \n\t "))
	assert.Equal(t, 4, CountWords("Annual tuition is\nR65000"))
}

func TestDocument_Summary(t *testing.T) {
	now := time.Now()
	doc := Document{
		ID:          "uct.pdf",
		SourceName:  "uct.pdf",
		DisplayName: "University of Cape Town",
		Content:     "long content",
		WordCount:   2,
		LastUpdated: now,
	}

	s := doc.Summary()

	assert.Equal(t, DocumentSummary{
		ID:          "uct.pdf",
		SourceName:  "uct.pdf",
		DisplayName: "University of Cape Town",
		WordCount:   2,
		LastUpdated: now,
	}, s)
}

func TestSections_For(t *testing.T) {
	s := Sections{
		Fees:          "fees",
		Admissions:    "admissions",
		Programs:      "programs",
		Accommodation: "accommodation",
		Contact:       "contact",
	}

	assert.Equal(t, "fees", s.For(TopicFees))
	assert.Equal(t, "admissions", s.For(TopicAdmissions))
	assert.Equal(t, "programs", s.For(TopicPrograms))
	assert.Equal(t, "accommodation", s.For(TopicAccommodation))
	assert.Empty(t, s.For(TopicGeneral))
	assert.False(t, s.IsEmpty())
	assert.True(t, Sections{}.IsEmpty())
}
