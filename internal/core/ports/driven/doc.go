// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentStore: Owned document index with snapshot-after-mutation semantics
//   - SnapshotStore: Persists complete store snapshots (JSON file or SQLite)
//   - BlobStore: Supplies raw prospectus bytes by name
//   - Normaliser: Extracts plain text from raw bytes
//   - NormaliserRegistry: Selects appropriate normaliser
//   - PostProcessorPipeline: Normalises, sections and chunks extracted text
//   - ConfigStore: Application configuration
//   - PromptStore: Answer prompt templates
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Completion model. Without it, questions resolve to a model error result.
//   - BlobWatcher: Real-time blob changes. Without it, ingestion is on demand only.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
