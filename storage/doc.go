// Package storage provides long-term persistence for processed turns.
// Unlike the memory package, which holds the hot session window and
// forgets it after a TTL, storage keeps every turn durably and answers
// history queries by user or by session.
//
// SQLStore persists to SQLite through database/sql; InMemoryStore is
// the slice-backed equivalent for tests and examples.
package storage
