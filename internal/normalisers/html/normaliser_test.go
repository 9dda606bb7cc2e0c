package html

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/unisearch/internal/core/domain"
)

func TestSupportedMIMETypes(t *testing.T) {
	mimeTypes := New().SupportedMIMETypes()

	assert.Contains(t, mimeTypes, "text/html")
	assert.Contains(t, mimeTypes, "application/xhtml+xml")
	assert.Len(t, mimeTypes, 2)
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 50, New().Priority())
}

func TestNormalise_Success(t *testing.T) {
	raw := &domain.RawDocument{
		Name:     "oxford.html",
		MIMEType: "text/html",
		Content: []byte(`<html><head><title>University of Oxford</title>
<style>body { color: red; }</style></head>
<body><h1>Courses</h1><p>Tuition fees are &pound;9,250 per year.</p>
<script>alert("x")</script><ul><li>Law</li><li>Medicine</li></ul></body></html>`),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "University of Oxford", result.Title)
	assert.Equal(t, "Courses\nTuition fees are £9,250 per year.\nLaw\nMedicine", result.Text)
	assert.NotContains(t, result.Text, "color")
	assert.NotContains(t, result.Text, "alert")
}

func TestNormalise_NoTitle(t *testing.T) {
	raw := &domain.RawDocument{
		Name:     "fragment.html",
		MIMEType: "text/html",
		Content:  []byte("<div>Campus   tours\n run daily</div>"),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.Empty(t, result.Title)
	assert.Equal(t, "Campus tours\nrun daily", result.Text)
}

func TestNormalise_NilDocument(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalise_Empty(t *testing.T) {
	result, err := New().Normalise(context.Background(), &domain.RawDocument{MIMEType: "text/html"})
	require.NoError(t, err)
	assert.Empty(t, result.Text)
}
