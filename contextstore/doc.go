// Package contextstore keeps short-lived per-user conversation state.
//
// Each user owns a key-value mapping with a last-touch timestamp.
// Entries expire lazily: nothing sweeps in the background, but an
// entry whose age exceeds the store's TTL is dropped the next time it
// is read or checked. Reads through Get refresh the window, so an
// active conversation never expires mid-flight.
package contextstore
