// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package textrag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/textrag/ai"
	"github.com/poiesic/textrag/ai/openai"
	"github.com/poiesic/textrag/chunking"
	"github.com/poiesic/textrag/config"
	"github.com/poiesic/textrag/embedcache"
	"github.com/poiesic/textrag/index"
	"github.com/poiesic/textrag/index/memory"
	"github.com/poiesic/textrag/index/qdrant"
	"github.com/poiesic/textrag/ingestion"
	"github.com/poiesic/textrag/search"
)

// Store wires the AI provider, the vector index and the optional embedding
// cache behind one handle. It is the entry point for both loading documents
// and answering queries.
type Store struct {
	cfg      *config.AppConfig
	provider ai.AIProvider
	idx      index.Index
	cache    *embedcache.Cache
	logger   *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*storeOptions)

type storeOptions struct {
	provider ai.AIProvider
	idx      index.Index
}

// WithProvider overrides the AI provider built from configuration.
// Used mainly to inject mocks.
func WithProvider(provider ai.AIProvider) StoreOption {
	return func(o *storeOptions) {
		o.provider = provider
	}
}

// WithIndex overrides the index built from configuration.
func WithIndex(idx index.Index) StoreOption {
	return func(o *storeOptions) {
		o.idx = idx
	}
}

// NewStore builds a store from application configuration. The index
// collection is created if missing, sized to the configured embedding
// dimensions.
func NewStore(ctx context.Context, cfg *config.AppConfig, opts ...StoreOption) (*Store, error) {
	options := &storeOptions{}
	for _, opt := range opts {
		opt(options)
	}

	provider := options.provider
	if provider == nil {
		aiOpts := []ai.ConfigOption{
			ai.WithHost(cfg.AI.Host),
			ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
			ai.WithGenerationModel(cfg.AI.GenerationModel),
			ai.WithEmbeddingDimensions(cfg.AI.EmbeddingDimensions),
		}
		// An unset credential variable keeps the "none" default, which is
		// what local OpenAI-compatible servers expect.
		if key := cfg.AI.APIKey(); key != "" {
			aiOpts = append(aiOpts, ai.WithAPIKey(key))
		}
		aiConfig := ai.NewConfig(aiOpts...)
		var err error
		provider, err = openai.NewProvider(aiConfig)
		if err != nil {
			return nil, err
		}
	}

	idx := options.idx
	if idx == nil {
		var err error
		idx, err = newIndex(cfg)
		if err != nil {
			provider.Close()
			return nil, err
		}
	}
	if err := idx.Init(ctx, cfg.AI.EmbeddingDimensions); err != nil {
		provider.Close()
		return nil, err
	}

	var cache *embedcache.Cache
	if cfg.CachePath != "" {
		var err error
		cache, err = embedcache.Open(cfg.CachePath, false)
		if err != nil {
			provider.Close()
			return nil, err
		}
	}

	return &Store{
		cfg:      cfg,
		provider: provider,
		idx:      idx,
		cache:    cache,
		logger:   slog.Default().With("component", "store"),
	}, nil
}

func newIndex(cfg *config.AppConfig) (index.Index, error) {
	switch cfg.Index.Type {
	case "memory":
		return memory.NewStore(), nil
	case "qdrant":
		return qdrant.New(qdrant.Config{
			URL:        cfg.Index.Qdrant.URL,
			APIKey:     cfg.Index.Qdrant.APIKey(),
			Collection: cfg.Index.Qdrant.Collection,
		}), nil
	default:
		return nil, fmt.Errorf("unknown index type %q", cfg.Index.Type)
	}
}

// Close releases the AI provider and the embedding cache.
func (s *Store) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.logger.Error("error closing embedding cache", "err", err)
			return err
		}
	}
	return nil
}

// Index exposes the underlying vector index.
func (s *Store) Index() index.Index {
	return s.idx
}

// NewPipeline creates a load pipeline using the store's collaborators and
// the configured chunk bounds.
func (s *Store) NewPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	splitter := chunking.NewSplitter(s.cfg.Chunking.MinChunkSize, s.cfg.Chunking.MaxChunkSize)
	base := []ingestion.Option{ingestion.WithSplitter(splitter)}
	if s.cache != nil {
		base = append(base, ingestion.WithEmbedCache(s.cache, s.cfg.AI.EmbeddingModel))
	}
	return ingestion.NewPipeline(s.provider, s.idx, append(base, opts...)...)
}

// NewAnswerer creates a question answerer over the store's index.
func (s *Store) NewAnswerer(retrieverOpts ...search.RetrieverOption) (*search.Answerer, error) {
	retriever, err := search.NewRetriever(s.provider, s.idx, retrieverOpts...)
	if err != nil {
		return nil, err
	}
	return search.NewAnswerer(retriever, s.provider)
}

// Load ingests every .txt file in the configured data directory.
func (s *Store) Load(ctx context.Context) error {
	pipeline, err := s.NewPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()
	return pipeline.LoadDirectory(ctx, s.cfg.DataDir)
}

// Answer retrieves context for the query and generates an answer.
func (s *Store) Answer(ctx context.Context, query string) (string, error) {
	answerer, err := s.NewAnswerer()
	if err != nil {
		return "", err
	}
	return answerer.Answer(ctx, query)
}
