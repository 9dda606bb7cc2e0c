package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/unisearch/internal/core/domain"
	"github.com/custodia-labs/unisearch/internal/core/ports/driven"
)

type stubNormaliser struct {
	mimeTypes []string
	priority  int
	text      string
}

func (s *stubNormaliser) SupportedMIMETypes() []string { return s.mimeTypes }
func (s *stubNormaliser) Priority() int                { return s.priority }
func (s *stubNormaliser) Normalise(_ context.Context, _ *domain.RawDocument) (*driven.NormaliseResult, error) {
	return &driven.NormaliseResult{Text: s.text}, nil
}

func TestRegistry_HighestPriorityWins(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{mimeTypes: []string{"text/plain"}, priority: 5, text: "fallback"})
	r.Register(&stubNormaliser{mimeTypes: []string{"text/plain"}, priority: 50, text: "specific"})

	result, err := r.Normalise(context.Background(), &domain.RawDocument{MIMEType: "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, "specific", result.Text)
}

func TestRegistry_IgnoresMIMEParameters(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{mimeTypes: []string{"text/plain"}, priority: 5, text: "ok"})

	result, err := r.Normalise(context.Background(), &domain.RawDocument{MIMEType: "Text/Plain; charset=utf-8"})
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Text)
}

func TestRegistry_Unsupported(t *testing.T) {
	r := NewDefaultRegistry()

	_, err := r.Normalise(context.Background(), &domain.RawDocument{Name: "photo.png", MIMEType: "image/png"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = r.Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDefaultRegistry_Dispatch(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		mimeType string
		content  string
		want     string
	}{
		{"text/plain", "Open days in June", "Open days in June"},
		{"text/markdown", "# Open days\n\nIn **June**", "Open days\nIn June"},
		{"text/html", "<p>Open days</p><script>x()</script>", "Open days"},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			result, err := r.Normalise(context.Background(), &domain.RawDocument{
				Name:     "open-days",
				MIMEType: tt.mimeType,
				Content:  []byte(tt.content),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Text)
		})
	}
}

func TestDefaultRegistry_SupportedMIMETypes(t *testing.T) {
	types := NewDefaultRegistry().SupportedMIMETypes()

	for _, want := range []string{"application/pdf", "text/html", "text/markdown", "text/plain"} {
		assert.Contains(t, types, want)
	}
	assert.IsIncreasing(t, types)
}
