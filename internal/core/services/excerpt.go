package services

import (
	"regexp"
	"strings"
)

// DefaultExcerptLength caps citation excerpts in characters.
const DefaultExcerptLength = 200

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// RelevantExcerpt picks the sentence of content holding the most distinct
// query tokens, the first one on ties, cut to length characters plus an ellipsis.
// It only shapes citations and never affects ranking.
func RelevantExcerpt(content, query string, length int) string {
	if length <= 0 {
		length = DefaultExcerptLength
	}

	tokens := distinct(queryTokens(strings.ToLower(query)))

	best, bestHits := "", -1
	for _, sentence := range sentenceSplit.Split(content, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		lower := strings.ToLower(sentence)
		hits := 0
		for _, token := range tokens {
			if strings.Contains(lower, token) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = sentence, hits
		}
	}

	if best == "" {
		return ""
	}
	return truncate(best, length) + "..."
}

func distinct(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
