// Package memory provides short-term conversation memory: the message
// history a session accumulates while it is active. Two
// core.ConversationMemory implementations are included, a process-local
// store for tests and single-instance deployments and a redis-backed
// store for anything that needs to survive restarts or share state
// across replicas. The Summarizer compacts long histories so prompt
// context stays bounded.
//
// Durable, queryable persistence of processed turns lives in the
// storage package; this package only covers the hot session window.
package memory
