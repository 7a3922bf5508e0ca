// Package model defines the provider-agnostic abstractions and concrete
// helpers for interacting with language models inside DialogKit.
//
// Core goals:
//   - Single-shot text generation behind a minimal interface
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from this
// package so higher layers (handlers, summarizers) remain decoupled from
// vendor SDKs.
package model
