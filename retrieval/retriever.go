package retrieval

import (
	"context"

	"github.com/hupe1980/dialogkit/logging"
)

// DefaultTopK is the number of results Retrieve returns when the
// caller does not ask for a specific count.
const DefaultTopK = 3

// Options configures a Retriever.
type Options struct {
	// TopK is the default result count for Retrieve.
	TopK int

	// Logger receives degradation warnings.
	Logger logging.Logger
}

// Retriever wraps a Store with top-k defaults and post-search metadata
// filtering. Search failures degrade to empty results with a logged
// warning so reply generation never breaks on a flaky knowledge base.
type Retriever struct {
	store  Store
	topK   int
	logger logging.Logger
}

// New creates a Retriever over store.
func New(store Store, optFns ...func(o *Options)) *Retriever {
	opts := Options{
		TopK:   DefaultTopK,
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.TopK < 1 {
		opts.TopK = DefaultTopK
	}

	return &Retriever{
		store:  store,
		topK:   opts.TopK,
		logger: opts.Logger,
	}
}

// Retrieve returns up to k results for query, best first. k below one
// falls back to the configured default. Filters are exact-match
// metadata requirements applied after the similarity search; ranks are
// reassigned after filtering.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int, filters map[string]string) []Result {
	if k < 1 {
		k = r.topK
	}

	results, err := r.store.Search(ctx, query, k)
	if err != nil {
		r.logger.Warn("retrieval search failed", "error", err)
		return []Result{}
	}

	if len(filters) == 0 {
		return results
	}

	filtered := make([]Result, 0, len(results))
	for _, res := range results {
		if metadataMatches(res.Document.Metadata, filters) {
			res.Rank = len(filtered) + 1
			filtered = append(filtered, res)
		}
	}

	return filtered
}

// AddKnowledgeBase stores texts with their parallel metadata. Texts
// beyond the end of metadatas get none.
func (r *Retriever) AddKnowledgeBase(ctx context.Context, texts []string, metadatas []map[string]string) error {
	docs := make([]Document, len(texts))
	for i, text := range texts {
		docs[i] = Document{Content: text}
		if i < len(metadatas) {
			docs[i].Metadata = metadatas[i]
		}
	}

	return r.store.Add(ctx, docs)
}

func metadataMatches(metadata, filters map[string]string) bool {
	for key, want := range filters {
		if metadata[key] != want {
			return false
		}
	}

	return true
}
