// Package entity implements pattern-based entity extraction.
//
// An Extractor holds regular expression patterns keyed by entity type
// plus optional custom extraction functions. Extract runs every
// pattern over the text, collects all non-overlapping occurrences per
// pattern, appends the custom extractors' results, and returns the
// entities sorted by start offset. Built-in patterns cover emails,
// phone numbers, URLs, numbers and simple dates.
package entity
