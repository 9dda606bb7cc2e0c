// Package markdown extracts text from Markdown documents.
package markdown

import (
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/custodia-labs/unisearch/internal/core/domain"
	"github.com/custodia-labs/unisearch/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct {
	md goldmark.Markdown
}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{md: goldmark.New()}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser, higher than plaintext
}

// Normalise walks the Markdown AST and keeps only the text.
// The first heading becomes the title.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	source := raw.Content
	doc := n.md.Parser().Parse(text.NewReader(source))

	var (
		b     strings.Builder
		title string
	)
	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := node.(type) {
		case *ast.Heading:
			if entering && title == "" {
				title = strings.TrimSpace(inlineText(node, source))
			}
		case *ast.Text:
			if entering {
				b.Write(node.Segment.Value(source))
				if node.HardLineBreak() {
					b.WriteByte('\n')
				} else if node.SoftLineBreak() {
					b.WriteByte(' ')
				}
			}
		case *ast.String:
			if entering {
				b.Write(node.Value)
			}
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			if entering {
				writeLines(&b, node, source)
			}
		case *ast.AutoLink:
			if entering {
				b.Write(node.Label(source))
			}
		}

		if !entering && node.Type() == ast.TypeBlock {
			b.WriteString("\n")
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	return &driven.NormaliseResult{
		Text:  strings.TrimSpace(b.String()),
		Title: title,
	}, nil
}

// inlineText concatenates the text segments below node.
func inlineText(node ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			b.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func writeLines(b *strings.Builder, node ast.Node, source []byte) {
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
}
