package retrieval

import (
	"context"
	"errors"
)

// ErrEmptyDocuments indicates empty or nil documents.
var ErrEmptyDocuments = errors.New("empty or nil documents")

// Document is one unit of retrievable knowledge.
type Document struct {
	// ID uniquely identifies the document. Stores assign one when it
	// is empty.
	ID string `json:"id"`

	// Content is the document text.
	Content string `json:"content"`

	// Metadata carries filterable key-value labels.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Result is one search hit.
type Result struct {
	// Document is the matched document.
	Document Document `json:"document"`

	// Score is the similarity to the query, higher is closer.
	Score float32 `json:"score"`

	// Rank is the 1-based position in the result list.
	Rank int `json:"rank"`
}

// Embedder generates vector embeddings from text.
type Embedder interface {
	// EmbedDocuments generates embeddings for multiple texts.
	// Returns a slice of embeddings (one per input text) or an error.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a single query.
	// Some models optimize differently for queries vs documents.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Store holds documents and answers similarity queries.
type Store interface {
	// Add stores the documents, assigning IDs to documents that lack
	// one.
	Add(ctx context.Context, docs []Document) error

	// Search returns up to k documents most similar to query, best
	// first. An empty store yields empty results, not an error.
	Search(ctx context.Context, query string, k int) ([]Result, error)

	// Delete removes the documents with the given IDs.
	Delete(ctx context.Context, ids []string) error
}
