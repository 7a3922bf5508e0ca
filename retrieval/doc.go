// Package retrieval provides a small vector retrieval layer for
// knowledge-grounded replies.
//
// An Embedder turns text into vectors, a Store holds documents and
// answers similarity queries, and a Retriever wraps a Store with
// top-k defaults and metadata filtering. Two stores ship with the
// package: ChromemStore persists through chromem-go, InMemoryStore
// does brute-force cosine search for tests and small corpora.
package retrieval
