// Package safety screens inbound text before it reaches the rest of
// the pipeline. The filter combines hard blocks (regex patterns and
// toxic keyword substrings that mark text unsafe) with informational
// flags (possible PII, sensitive-information mentions) that callers
// can log or act on without rejecting the message.
//
// The built-in lists are deliberately small; production deployments
// extend them through AddBlockedPattern, AddToxicKeyword and
// AddSensitiveKeyword.
package safety
