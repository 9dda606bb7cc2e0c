package services

import (
	"strings"

	"github.com/custodia-labs/unisearch/internal/core/domain"
)

// Default context assembly limits, in characters.
const (
	DefaultContextBudget     = 8000
	DefaultGeneralInfoLength = 500
)

// topicBlocks are the labelled section blocks, in emission order.
var topicBlocks = []struct {
	topic domain.Topic
	label string
}{
	{domain.TopicFees, "FEES INFORMATION"},
	{domain.TopicAdmissions, "ADMISSION REQUIREMENTS"},
	{domain.TopicPrograms, "PROGRAMS OFFERED"},
}

// ContextAssembler turns ranked documents into one bounded prompt context.
type ContextAssembler struct {
	budget            int
	generalInfoLength int
}

// NewContextAssembler creates an assembler. Non-positive values use the defaults.
func NewContextAssembler(budget, generalInfoLength int) *ContextAssembler {
	if budget <= 0 {
		budget = DefaultContextBudget
	}
	if generalInfoLength <= 0 {
		generalInfoLength = DefaultGeneralInfoLength
	}
	return &ContextAssembler{budget: budget, generalInfoLength: generalInfoLength}
}

// Assemble renders one block per document in the given order and cuts the
// result to the budget, even mid-document.
func (a *ContextAssembler) Assemble(scored []domain.ScoredDocument, query string) string {
	topics := domain.ClassifyTopics(query)

	var b strings.Builder
	for i, sd := range scored {
		if i > 0 {
			b.WriteString("\n\n")
		}
		doc := sd.Document
		b.WriteString("=== " + doc.DisplayName + " (" + doc.SourceName + ") ===\n")

		for _, block := range topicBlocks {
			section := doc.Sections.For(block.topic)
			if section == "" || !domain.HasTopic(topics, block.topic) {
				continue
			}
			b.WriteString(block.label + ":\n" + section + "\n\n")
		}

		b.WriteString("GENERAL INFO:\n" + truncate(doc.Content, a.generalInfoLength) + "...")
	}

	return truncate(b.String(), a.budget)
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
