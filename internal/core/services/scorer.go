package services

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/unisearch/internal/core/domain"
)

// minTokenLength is the shortest query token that contributes to scoring.
const minTokenLength = 3

// Scorer ranks documents against a query with a lexical heuristic.
//
// A document's score is the number of case-insensitive occurrences of each
// query token in its content, plus a name bonus when the content holds the
// whole query or the query names the institution, plus a topic bonus for
// each of fees and admissions the query asks about and the document has a
// section for. Documents scoring zero are excluded.
type Scorer struct {
	weights domain.ScoringWeights
}

// NewScorer creates a scorer with the given bonuses.
func NewScorer(weights domain.ScoringWeights) *Scorer {
	return &Scorer{weights: weights}
}

// Score returns documents with a positive score, best first, at most topK.
// Equal scores keep the order of docs. A non-positive topK keeps every match.
func (s *Scorer) Score(query string, docs []domain.Document, topK int) []domain.ScoredDocument {
	if len(docs) == 0 {
		return []domain.ScoredDocument{}
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []domain.ScoredDocument{}
	}

	tokens := queryTokens(q)
	topics := domain.ClassifyTopics(q)

	scored := make([]domain.ScoredDocument, 0, len(docs))
	for _, doc := range docs {
		if score := s.score(q, tokens, topics, doc); score > 0 {
			scored = append(scored, domain.ScoredDocument{Document: doc, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}

// ScoreDocument returns the score of a single document.
func (s *Scorer) ScoreDocument(query string, doc domain.Document) int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}
	return s.score(q, queryTokens(q), domain.ClassifyTopics(q), doc)
}

// score expects a lowercased, trimmed query.
func (s *Scorer) score(q string, tokens []string, topics []domain.Topic, doc domain.Document) int {
	content := strings.ToLower(doc.Content)

	score := 0
	for _, token := range tokens {
		score += strings.Count(content, token)
	}

	name := strings.ToLower(strings.TrimSpace(doc.DisplayName))
	if strings.Contains(content, q) || (name != "" && strings.Contains(q, name)) {
		score += s.weights.NameBonus
	}

	if domain.HasTopic(topics, domain.TopicFees) && doc.Sections.Fees != "" {
		score += s.weights.TopicBonus
	}
	if domain.HasTopic(topics, domain.TopicAdmissions) && doc.Sections.Admissions != "" {
		score += s.weights.TopicBonus
	}

	return score
}

// queryTokens splits a lowercased query on whitespace and drops short tokens.
func queryTokens(q string) []string {
	fields := strings.Fields(q)
	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTokenLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
