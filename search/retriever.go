package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/textrag/ai"
	"github.com/poiesic/textrag/index"
)

// DefaultTopK is the number of chunks retrieved per query when not
// configured otherwise.
const DefaultTopK = index.DefaultTopK

// Retriever embeds a query and returns the most similar chunks from the
// vector index.
type Retriever struct {
	embedder ai.Embedder
	idx      index.Index
	topK     int
	logger   *slog.Logger
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever) error

// WithTopK sets how many chunks are retrieved per query.
// Non-positive values fall back to DefaultTopK.
func WithTopK(topK int) RetrieverOption {
	return func(r *Retriever) error {
		if topK < 1 {
			topK = DefaultTopK
		}
		r.topK = topK
		return nil
	}
}

// WithRetrieverLogger sets a custom logger.
// Default is slog.Default().
func WithRetrieverLogger(logger *slog.Logger) RetrieverOption {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a new retriever.
func NewRetriever(provider ai.AIProvider, idx index.Index, opts ...RetrieverOption) (*Retriever, error) {
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}

	r := &Retriever{
		embedder: provider.Embedder(),
		idx:      idx,
		topK:     DefaultTopK,
		logger:   slog.Default().With("component", "search"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve returns the top-k chunks most similar to the query, in the
// index's similarity rank order.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]index.Match, error) {
	return r.RetrieveWithMonitor(ctx, query, nil)
}

// RetrieveWithMonitor is Retrieve with observation hooks.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, query string, monitor SearchMonitor) ([]index.Match, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	monitor.Start(query)

	embedding, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		r.logger.Error("error generating embedding for query", "err", err)
		return nil, err
	}
	monitor.AfterQueryEmbedding(len(embedding))

	matches, err := r.idx.Query(ctx, embedding, r.topK)
	if err != nil {
		r.logger.Error("error querying index", "err", err)
		return nil, err
	}
	monitor.AfterIndexQuery(matches)

	r.logger.Debug("retrieved chunks", "query", query, "matches", len(matches))
	return matches, nil
}
