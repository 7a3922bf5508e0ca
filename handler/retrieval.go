package handler

import (
	"context"

	"github.com/hupe1980/dialogkit/core"
	"github.com/hupe1980/dialogkit/retrieval"
)

// DefaultNoAnswerText is the reply when retrieval finds nothing.
const DefaultNoAnswerText = "I couldn't find anything relevant to that. Could you rephrase your question?"

// Compile-time check that Retrieval satisfies core.Handler.
var _ core.Handler = (*Retrieval)(nil)

// RetrievalOptions configures a Retrieval handler.
type RetrievalOptions struct {
	// TopK is how many passages to retrieve per turn.
	TopK int

	// Filters restricts retrieval to documents whose metadata matches
	// every entry.
	Filters map[string]string

	// NoAnswerText is the reply when nothing is retrieved.
	NoAnswerText string
}

// Retrieval answers turns from a knowledge base: the best-scoring
// passage becomes the reply text and the match scores travel in the
// reply metadata. Retrieval failures surface as an empty result set,
// so this handler never fails a turn.
type Retrieval struct {
	retriever *retrieval.Retriever
	topK      int
	filters   map[string]string
	noAnswer  string
}

// NewRetrieval creates a Retrieval handler on the given retriever.
func NewRetrieval(r *retrieval.Retriever, optFns ...func(o *RetrievalOptions)) *Retrieval {
	opts := RetrievalOptions{
		TopK:         retrieval.DefaultTopK,
		NoAnswerText: DefaultNoAnswerText,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Retrieval{
		retriever: r,
		topK:      opts.TopK,
		filters:   opts.Filters,
		noAnswer:  opts.NoAnswerText,
	}
}

// Handle retrieves passages for the utterance and replies with the
// best one.
func (h *Retrieval) Handle(ctx context.Context, turn *core.Turn) (*core.Reply, error) {
	results := h.retriever.Retrieve(ctx, turn.Utterance.Text, h.topK, h.filters)

	if len(results) == 0 {
		return &core.Reply{
			Text:     h.noAnswer,
			Metadata: map[string]any{"source_count": 0},
		}, nil
	}

	scores := make([]float32, len(results))
	for i, res := range results {
		scores[i] = res.Score
	}

	return &core.Reply{
		Text: results[0].Document.Content,
		Metadata: map[string]any{
			"source_count": len(results),
			"scores":       scores,
			"intent":       turn.Intent.Name,
		},
	}, nil
}
