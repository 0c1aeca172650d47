package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/textrag/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder   embeddings.Embedder
	dimensions int
	logger     *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for embeddings
	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken(config.APIKey),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	// Wrap in langchaingo embedder
	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder:   embedder,
		dimensions: config.EmbeddingDimensions,
		logger:     slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
// Every returned vector is validated against the configured dimension.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, err
	}

	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d vectors, received %d", ai.ErrEmptyResponse, len(texts), len(vectors))
	}
	for i, vector := range vectors {
		if err := e.checkDimension(vector); err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
	}

	return vectors, nil
}

// EmbedQuery generates a vector embedding for a query string in the same
// embedding space used for document chunks.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for query", "length", len(text))

	vector, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		e.logger.Error("failed to generate query embedding", "err", err)
		return nil, err
	}

	if err := e.checkDimension(vector); err != nil {
		return nil, err
	}

	return vector, nil
}

func (e *Embedder) checkDimension(vector []float32) error {
	if len(vector) != e.dimensions {
		return fmt.Errorf("%w: got %d, want %d", ai.ErrDimensionMismatch, len(vector), e.dimensions)
	}
	return nil
}
