package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Compile-time check that InMemoryStore satisfies Store.
var _ Store = (*InMemoryStore)(nil)

// InMemoryStore is a brute-force cosine similarity Store. It keeps
// every document and vector in memory and scans them all per query;
// fine for tests, examples and small knowledge bases.
type InMemoryStore struct {
	mu       sync.RWMutex
	embedder Embedder
	docs     []storedDoc
}

type storedDoc struct {
	doc Document
	vec []float32
}

// NewInMemoryStore creates an InMemoryStore backed by embedder.
func NewInMemoryStore(embedder Embedder) *InMemoryStore {
	return &InMemoryStore{embedder: embedder}
}

// Add implements Store. Documents with an ID that already exists are
// replaced in place.
func (s *InMemoryStore) Add(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return ErrEmptyDocuments
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	embeddings, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}
	if len(embeddings) != len(docs) {
		return fmt.Errorf("embedder returned %d vectors for %d documents", len(embeddings), len(docs))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, doc := range docs {
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}

		replaced := false
		for j := range s.docs {
			if s.docs[j].doc.ID == doc.ID {
				s.docs[j] = storedDoc{doc: doc, vec: embeddings[i]}
				replaced = true
				break
			}
		}
		if !replaced {
			s.docs = append(s.docs, storedDoc{doc: doc, vec: embeddings[i]})
		}
	}

	return nil
}

// Search implements Store.
func (s *InMemoryStore) Search(ctx context.Context, query string, k int) ([]Result, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	vec, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.docs) == 0 {
		return []Result{}, nil
	}

	results := make([]Result, 0, len(s.docs))
	for _, stored := range s.docs {
		results = append(results, Result{
			Document: stored.doc,
			Score:    cosine(vec, stored.vec),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k < len(results) {
		results = results[:k]
	}
	for i := range results {
		results[i].Rank = i + 1
	}

	return results, nil
}

// Delete implements Store.
func (s *InMemoryStore) Delete(_ context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.docs[:0]
	for _, stored := range s.docs {
		if _, ok := drop[stored.doc.ID]; !ok {
			kept = append(kept, stored)
		}
	}
	s.docs = kept

	return nil
}

// Count returns the number of stored documents.
func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.docs)
}

func cosine(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}

	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
