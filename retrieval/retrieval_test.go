package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder returns hand-set vectors so similarity outcomes are
// exact by construction.
type stubEmbedder struct {
	vectors map[string][]float32
}

func (e *stubEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	vec, ok := e.vectors[text]
	if !ok {
		return nil, errors.New("no vector for " + text)
	}
	return vec, nil
}

func (e *stubEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.EmbedQuery(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func newStubStore(t *testing.T) *InMemoryStore {
	t.Helper()

	embedder := &stubEmbedder{vectors: map[string][]float32{
		"alpha":   {1, 0, 0},
		"blend":   {0.7, 0.7, 0},
		"ortho":   {0, 1, 0},
		"query-a": {1, 0, 0},
	}}

	store := NewInMemoryStore(embedder)
	require.NoError(t, store.Add(context.Background(), []Document{
		{ID: "d1", Content: "alpha", Metadata: map[string]string{"topic": "letters"}},
		{ID: "d2", Content: "blend", Metadata: map[string]string{"topic": "letters"}},
		{ID: "d3", Content: "ortho", Metadata: map[string]string{"topic": "geometry"}},
	}))

	return store
}

func TestInMemoryStoreSearch(t *testing.T) {
	store := newStubStore(t)

	results, err := store.Search(context.Background(), "query-a", 2)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "d1", results[0].Document.ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, "d2", results[1].Document.ID)
	assert.Equal(t, 2, results[1].Rank)
}

func TestInMemoryStoreSearchKLargerThanCorpus(t *testing.T) {
	store := newStubStore(t)

	results, err := store.Search(context.Background(), "query-a", 10)
	require.NoError(t, err)

	assert.Len(t, results, 3)
	assert.Equal(t, "d3", results[2].Document.ID, "the orthogonal vector ranks last")
}

func TestInMemoryStoreSearchEmpty(t *testing.T) {
	store := NewInMemoryStore(&stubEmbedder{vectors: map[string][]float32{"q": {1}}})

	results, err := store.Search(context.Background(), "q", 3)
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = store.Search(context.Background(), "q", 0)
	assert.Error(t, err, "non-positive k is a caller bug")
}

func TestInMemoryStoreAdd(t *testing.T) {
	store := NewInMemoryStore(&stubEmbedder{vectors: map[string][]float32{"alpha": {1, 0}}})

	err := store.Add(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyDocuments)

	require.NoError(t, store.Add(context.Background(), []Document{{Content: "alpha"}}))
	assert.Equal(t, 1, store.Count())

	// Same ID replaces instead of duplicating.
	require.NoError(t, store.Add(context.Background(), []Document{{ID: "x", Content: "alpha"}}))
	require.NoError(t, store.Add(context.Background(), []Document{{ID: "x", Content: "alpha"}}))
	assert.Equal(t, 2, store.Count())
}

func TestInMemoryStoreDelete(t *testing.T) {
	store := newStubStore(t)

	require.NoError(t, store.Delete(context.Background(), []string{"d1", "missing"}))

	results, err := store.Search(context.Background(), "query-a", 3)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "d2", results[0].Document.ID)
}

func TestHashEmbedderDeterministic(t *testing.T) {
	embedder := NewHashEmbedder(128)

	a, err := embedder.EmbedQuery(context.Background(), "reset my password")
	require.NoError(t, err)
	b, err := embedder.EmbedQuery(context.Background(), "reset my password")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 128)
	assert.InDelta(t, 1.0, cosine(a, b), 1e-6)
}

func TestHashEmbedderZeroVectorForEmptyText(t *testing.T) {
	embedder := NewHashEmbedder(0) // falls back to 64 dims

	vec, err := embedder.EmbedQuery(context.Background(), "   ")
	require.NoError(t, err)

	require.Len(t, vec, 64)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestHashEmbedderSharedVocabularyScoresHigher(t *testing.T) {
	embedder := NewHashEmbedder(256)
	ctx := context.Background()

	query, err := embedder.EmbedQuery(ctx, "password reset")
	require.NoError(t, err)
	near, err := embedder.EmbedQuery(ctx, "how to reset a password")
	require.NoError(t, err)
	far, err := embedder.EmbedQuery(ctx, "quarterly revenue charts")
	require.NoError(t, err)

	assert.Greater(t, cosine(query, near), cosine(query, far))
}

// captureStore records Search/Add arguments and serves canned results.
type captureStore struct {
	results []Result
	err     error
	lastK   int
	added   []Document
}

func (s *captureStore) Add(_ context.Context, docs []Document) error {
	s.added = append(s.added, docs...)
	return s.err
}

func (s *captureStore) Search(_ context.Context, _ string, k int) ([]Result, error) {
	s.lastK = k
	return s.results, s.err
}

func (s *captureStore) Delete(context.Context, []string) error { return s.err }

func TestRetrieverFilters(t *testing.T) {
	store := &captureStore{results: []Result{
		{Document: Document{ID: "a", Metadata: map[string]string{"lang": "en"}}, Score: 0.9, Rank: 1},
		{Document: Document{ID: "b", Metadata: map[string]string{"lang": "de"}}, Score: 0.8, Rank: 2},
		{Document: Document{ID: "c", Metadata: map[string]string{"lang": "en"}}, Score: 0.7, Rank: 3},
	}}
	retriever := New(store)

	results := retriever.Retrieve(context.Background(), "hello", 3, map[string]string{"lang": "en"})

	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Document.ID)
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, "c", results[1].Document.ID)
	assert.Equal(t, 2, results[1].Rank, "ranks are reassigned after filtering")
}

func TestRetrieverDefaultTopK(t *testing.T) {
	store := &captureStore{}
	retriever := New(store, func(o *Options) { o.TopK = 5 })

	retriever.Retrieve(context.Background(), "hello", 0, nil)
	assert.Equal(t, 5, store.lastK)

	retriever.Retrieve(context.Background(), "hello", 2, nil)
	assert.Equal(t, 2, store.lastK)
}

func TestRetrieverDegradesOnError(t *testing.T) {
	store := &captureStore{err: errors.New("backend down")}
	retriever := New(store)

	results := retriever.Retrieve(context.Background(), "hello", 3, nil)

	require.NotNil(t, results)
	assert.Empty(t, results)
}

func TestRetrieverAddKnowledgeBase(t *testing.T) {
	store := &captureStore{}
	retriever := New(store)

	err := retriever.AddKnowledgeBase(context.Background(),
		[]string{"first", "second"},
		[]map[string]string{{"topic": "a"}},
	)
	require.NoError(t, err)

	require.Len(t, store.added, 2)
	assert.Equal(t, "first", store.added[0].Content)
	assert.Equal(t, map[string]string{"topic": "a"}, store.added[0].Metadata)
	assert.Equal(t, "second", store.added[1].Content)
	assert.Nil(t, store.added[1].Metadata)
}
