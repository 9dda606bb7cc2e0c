// Package domain defines the core business entities for unisearch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A processed unit of prospectus text with derived sections
//   - Chunk: A bounded, overlapping slice of normalised text
//   - ScoredDocument: A Document ranked against a query
//   - AnswerResult: The tagged outcome of a question
//   - Topic: The closed set of query topics
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
