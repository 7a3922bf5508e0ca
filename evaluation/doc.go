// Package evaluation scores the NLP components against canned
// conversation scenarios.
//
// The harness replays scripted turns through a classifier and checks
// every prediction against the expected intent and a per-turn
// confidence floor, then probes an extractor with known-entity texts.
// It is meant both for regression tests and for the live evaluation
// endpoint, which reports the same metrics over HTTP.
package evaluation
