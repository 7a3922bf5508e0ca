// Package httpapi exposes the turn pipeline over HTTP.
//
// The server fronts a pipeline.Pipeline with a chi router: a chat
// endpoint that runs turns, conversation endpoints backed by session
// memory, a user history endpoint backed by long-term storage, and an
// evaluation endpoint that scores the live classifier and extractor.
// Request bodies are validated, responses are JSON, and a per-client
// token bucket guards the chat endpoint in front of the pipeline's own
// per-user limiter.
package httpapi
