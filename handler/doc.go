// Package handler provides ready-made core.Handler implementations
// covering the usual reply strategies: fixed text (Static), plain
// functions (Func), per-intent response templates with suggestions and
// entity mentions (Template), LLM-backed generation (Model) and
// knowledge-base answers (Retrieval).
//
// Defaults returns the stock template handler wired to every built-in
// intent; most deployments start there and override individual intents
// with richer handlers.
package handler
