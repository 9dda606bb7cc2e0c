package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/unisearch/internal/core/domain"
)

func TestContextAssembler_TopicBlocks(t *testing.T) {
	doc := domain.Document{
		SourceName:  "uct.pdf",
		DisplayName: "University of Cape Town",
		Content:     "Annual tuition is R65000. Applications close in July.",
		Sections: domain.Sections{
			Fees:       "Annual tuition is R65000.",
			Admissions: "Applications close in July.",
		},
	}

	got := NewContextAssembler(0, 0).Assemble([]domain.ScoredDocument{{Document: doc, Score: 7}}, "what are the fees")

	assert.True(t, strings.HasPrefix(got, "=== University of Cape Town (uct.pdf) ===\n"))
	assert.Contains(t, got, "FEES INFORMATION:\nAnnual tuition is R65000.\n\n")
	assert.NotContains(t, got, "ADMISSION REQUIREMENTS")
	assert.True(t, strings.HasSuffix(got, "GENERAL INFO:\n"+doc.Content+"..."))
}

func TestContextAssembler_GeneralQueryHasOnlyGeneralInfo(t *testing.T) {
	doc := domain.Document{
		SourceName:  "a.txt",
		DisplayName: "A",
		Content:     "Founded in 1829.",
		Sections:    domain.Sections{Fees: "R50000"},
	}

	got := NewContextAssembler(0, 0).Assemble([]domain.ScoredDocument{{Document: doc}}, "history")

	assert.Equal(t, "=== A (a.txt) ===\nGENERAL INFO:\nFounded in 1829....", got)
}

func TestContextAssembler_SeparatesDocuments(t *testing.T) {
	scored := []domain.ScoredDocument{
		{Document: domain.Document{SourceName: "a", DisplayName: "A", Content: "first"}},
		{Document: domain.Document{SourceName: "b", DisplayName: "B", Content: "second"}},
	}

	got := NewContextAssembler(0, 0).Assemble(scored, "campus")

	assert.Equal(t, "=== A (a) ===\nGENERAL INFO:\nfirst...\n\n=== B (b) ===\nGENERAL INFO:\nsecond...", got)
}

func TestContextAssembler_GeneralInfoLength(t *testing.T) {
	doc := domain.Document{SourceName: "a", DisplayName: "A", Content: strings.Repeat("x", 50)}

	got := NewContextAssembler(0, 10).Assemble([]domain.ScoredDocument{{Document: doc}}, "campus")

	assert.True(t, strings.HasSuffix(got, "GENERAL INFO:\n"+strings.Repeat("x", 10)+"..."))
}

func TestContextAssembler_Budget(t *testing.T) {
	var scored []domain.ScoredDocument
	for i := 0; i < 20; i++ {
		scored = append(scored, domain.ScoredDocument{Document: domain.Document{
			SourceName:  "doc.txt",
			DisplayName: "Université",
			Content:     strings.Repeat("é", 600),
		}})
	}

	got := NewContextAssembler(1000, 0).Assemble(scored, "campus")

	assert.Equal(t, 1000, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))
}

func TestContextAssembler_Empty(t *testing.T) {
	assert.Empty(t, NewContextAssembler(0, 0).Assemble(nil, "fees"))
}
