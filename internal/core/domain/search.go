package domain

// SearchOptions configures a query.
type SearchOptions struct {
	// TopK is the maximum number of scored documents. Zero uses the configured default.
	TopK int
}

// ScoredDocument is a Document ranked against a query. It is never persisted.
type ScoredDocument struct {
	// Document is a copy of the stored document.
	Document Document `json:"document"`

	// Score is a non-negative relevance score, higher is better.
	Score int `json:"relevanceScore"`
}

// ScoringWeights holds the flat bonuses added by the relevance scorer.
type ScoringWeights struct {
	// NameBonus is added when the content contains the whole query or the
	// query contains the document's display name.
	NameBonus int

	// TopicBonus is added per matching topic with a populated section.
	TopicBonus int
}

// DefaultScoringWeights returns the standard bonuses.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		NameBonus:  10,
		TopicBonus: 5,
	}
}
