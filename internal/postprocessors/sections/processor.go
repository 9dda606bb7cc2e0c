// Package sections derives topic excerpts and institution names from content.
package sections

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/unisearch/internal/core/domain"
)

// DefaultSectionLength caps each excerpt in characters.
const DefaultSectionLength = 1000

// nameScanLength bounds how far into the content the institution name is searched.
const nameScanLength = 3000

var (
	contactKeywords     = []string{"contact", "email", "telephone"}
	applicationKeywords = []string{"how to apply", "application", "apply"}

	institutionName = regexp.MustCompile(
		`\bUniversity of (?:the )?[A-Z][\w'-]*(?: [A-Z][\w'-]*)?` +
			`|\b[A-Z][\w'-]*(?: [A-Z][\w'-]*)? (?:University|College)\b`)
)

// Processor fills document and chunk sections and, when missing, the display name.
// It implements the PostProcessor interface.
type Processor struct {
	sectionLength int
}

// New creates a new sections processor. Non-positive lengths use the default.
func New(sectionLength int) *Processor {
	if sectionLength <= 0 {
		sectionLength = DefaultSectionLength
	}
	return &Processor{sectionLength: sectionLength}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "sections"
}

// Process derives sections for the document and each chunk.
func (p *Processor) Process(_ context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	doc.Sections = Extract(doc.Content, p.sectionLength)
	if doc.DisplayName == "" {
		doc.DisplayName = InstitutionName(doc.Content)
	}

	for i := range chunks {
		chunks[i].Sections = Extract(chunks[i].Text, p.sectionLength)
	}
	return chunks, nil
}

// Extract locates an excerpt for each section.
// An excerpt starts at the sentence holding the earliest keyword hit and is at most length characters.
func Extract(content string, length int) domain.Sections {
	if content == "" {
		return domain.Sections{}
	}

	runes := []rune(content)
	lower := []rune(strings.ToLower(content))

	find := func(keywords []string) string {
		return excerpt(runes, lower, keywords, length)
	}

	return domain.Sections{
		Fees:               find(domain.TopicFees.Keywords()),
		Admissions:         find(domain.TopicAdmissions.Keywords()),
		Programs:           find(domain.TopicPrograms.Keywords()),
		Accommodation:      find(domain.TopicAccommodation.Keywords()),
		Contact:            find(contactKeywords),
		ApplicationProcess: find(applicationKeywords),
	}
}

// InstitutionName returns the first institution name near the start of content, or "".
func InstitutionName(content string) string {
	head := content
	if r := []rune(content); len(r) > nameScanLength {
		head = string(r[:nameScanLength])
	}
	return strings.TrimSpace(institutionName.FindString(head))
}

func excerpt(runes, lower []rune, keywords []string, length int) string {
	at := -1
	for _, kw := range keywords {
		if i := indexRunes(lower, []rune(kw)); i >= 0 && (at < 0 || i < at) {
			at = i
		}
	}
	if at < 0 {
		return ""
	}

	start := at
	for start > 0 && !isSentenceEnd(runes[start-1]) {
		start--
	}
	if at-start > length/2 {
		start = at
	}
	end := min(start+length, len(runes))
	return strings.TrimSpace(string(runes[start:end]))
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '\n'
}

func indexRunes(s, sub []rune) int {
	if len(sub) == 0 || len(sub) > len(s) {
		return -1
	}
outer:
	for i := 0; i+len(sub) <= len(s); i++ {
		for j := range sub {
			if s[i+j] != sub[j] {
				continue outer
			}
		}
		return i
	}
	return -1
}
