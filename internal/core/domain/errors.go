package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates no normaliser handles a MIME type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the completion model is not configured or unreachable.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrExtractionFailed indicates text could not be extracted from a file.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrStoreClosed indicates a snapshot store was used after Close.
	ErrStoreClosed = errors.New("store closed")
)
