package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/textrag/ai"
	"github.com/poiesic/textrag/core"
	"github.com/poiesic/textrag/embedcache"
)

// chunkEmbedder fills in chunk vectors, consulting an optional cache keyed
// by chunk id and model name. Cache misses are embedded in a single batch
// and written back.
type chunkEmbedder struct {
	embedder ai.Embedder
	cache    *embedcache.Cache
	model    string
	logger   *slog.Logger
}

func newChunkEmbedder(embedder ai.Embedder, cache *embedcache.Cache, model string, logger *slog.Logger) (*chunkEmbedder, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &chunkEmbedder{
		embedder: embedder,
		cache:    cache,
		model:    model,
		logger:   logger.With("processor", "embeddings"),
	}, nil
}

// embed populates the Embedding field of every chunk, in place.
// Chunk order is preserved regardless of how many vectors came from cache.
func (ce *chunkEmbedder) embed(ctx context.Context, chunks []core.Chunk) error {
	var (
		missing   []string
		positions []int
	)
	for i := range chunks {
		if vector := ce.lookup(chunks[i].ID); vector != nil {
			chunks[i].Embedding = vector
			continue
		}
		missing = append(missing, chunks[i].Text)
		positions = append(positions, i)
	}

	if len(missing) == 0 {
		ce.logger.Debug("all chunk embeddings served from cache", "chunks", len(chunks))
		return nil
	}

	ce.logger.Debug("generating embeddings", "chunks", len(missing), "cached", len(chunks)-len(missing))
	embeddings, err := ce.embedder.EmbedTexts(ctx, missing)
	if err != nil {
		return err
	}
	if len(embeddings) != len(missing) {
		return fmt.Errorf("%w: expected %d, received %d", ErrEmbeddingCountMismatch, len(missing), len(embeddings))
	}

	for j, pos := range positions {
		chunks[pos].Embedding = embeddings[j]
		ce.store(chunks[pos].ID, embeddings[j])
	}
	return nil
}

func (ce *chunkEmbedder) lookup(id core.ID) []float32 {
	if ce.cache == nil {
		return nil
	}
	vector, found, err := ce.cache.Get(id, ce.model)
	if err != nil {
		ce.logger.Warn("embedding cache read failed", "id", id, "err", err)
		return nil
	}
	if !found {
		return nil
	}
	return vector
}

// store writes a vector back to the cache. Cache write failures are logged
// and ignored; the embedding itself is already in hand.
func (ce *chunkEmbedder) store(id core.ID, vector []float32) {
	if ce.cache == nil {
		return
	}
	if err := ce.cache.Put(id, ce.model, vector); err != nil {
		ce.logger.Warn("embedding cache write failed", "id", id, "err", err)
	}
}
