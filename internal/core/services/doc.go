// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Retrieval (scoring, context assembly and excerpts) is pure and
// deterministic; only AnswerService talks to a completion model.
package services
