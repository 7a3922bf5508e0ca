// Package intent implements a weighted keyword and pattern intent
// classifier.
//
// The classifier scores an utterance against every registered intent:
// each keyword found in the text and each matching pattern contributes
// its weight, the previous turn's intent earns a small continuity
// bonus when it scored on its own evidence, and the best-scoring
// intent wins. Scores normalize into a confidence in [0, 1]. When no
// intent collects any evidence the classifier answers "unknown" with
// zero confidence.
//
// A built-in catalog covers common conversational intents (greeting,
// farewell, question, request, help, complaint, feedback, small talk).
// Applications extend it with AddIntent or learn keywords from labeled
// examples with Train.
package intent
