// Package core provides the foundational domain types and interfaces used by
// DialogKit. It defines the core abstractions for:
//
//   - Utterances (one user-submitted unit of text per turn)
//   - Entities (typed spans of structured data found in an utterance)
//   - Intent results (a communicative-purpose label with confidence)
//   - Turn results (the structured outcome of one processed turn)
//   - Pluggable contracts for classification, extraction, per-user context,
//     handlers, gating (rate limiting, safety) and conversation memory
//
// The package intentionally keeps implementation concerns (scoring, pattern
// matching, persistence, orchestration) out of scope, exposing small
// interfaces to enable custom backends and extensions. All exported
// identifiers include concise documentation to aid discoverability and
// external consumption.
package core
