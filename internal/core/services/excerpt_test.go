package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelevantExcerpt(t *testing.T) {
	content := "The campus is in Pretoria. Annual tuition fees are R58000 for engineering. " +
		"Residence fees are separate."

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"most distinct tokens wins", "engineering tuition fees", "Annual tuition fees are R58000 for engineering..."},
		{"first sentence on ties", "fees", "Annual tuition fees are R58000 for engineering..."},
		{"no hits falls back to first sentence", "sport", "The campus is in Pretoria..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelevantExcerpt(content, tt.query, 200))
		})
	}
}

func TestRelevantExcerpt_Length(t *testing.T) {
	content := strings.Repeat("word ", 100)

	got := RelevantExcerpt(content, "word", 20)

	assert.Equal(t, strings.Repeat("word ", 4)+"...", got)
}

func TestRelevantExcerpt_EmptyContent(t *testing.T) {
	assert.Empty(t, RelevantExcerpt("", "fees", 200))
	assert.Empty(t, RelevantExcerpt(" . ! ", "fees", 200))
}
