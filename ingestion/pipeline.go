package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/textrag/ai"
	"github.com/poiesic/textrag/chunking"
	"github.com/poiesic/textrag/core"
	"github.com/poiesic/textrag/embedcache"
	"github.com/poiesic/textrag/index"
)

// Pipeline orchestrates loading documents into the vector index.
// Documents are chunked, embedded and upserted; a worker pool lets
// multiple documents proceed concurrently.
type Pipeline struct {
	splitter *chunking.Splitter
	idx      index.Index
	embedder *chunkEmbedder
	pool     *ants.Pool
	cache    *embedcache.Cache
	model    string
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent document loads.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithSplitter replaces the default chunk splitter.
func WithSplitter(splitter *chunking.Splitter) Option {
	return func(p *Pipeline) error {
		if splitter == nil {
			splitter = chunking.NewSplitter(0, 0)
		}
		p.splitter = splitter
		return nil
	}
}

// WithEmbedCache enables the embedding cache. The model name becomes part of
// each cache key so switching models never serves stale vectors.
func WithEmbedCache(cache *embedcache.Cache, model string) Option {
	return func(p *Pipeline) error {
		p.cache = cache
		p.model = model
		return nil
	}
}

// NewPipeline creates a new load pipeline.
func NewPipeline(provider ai.AIProvider, idx index.Index, opts ...Option) (*Pipeline, error) {
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		splitter: chunking.NewSplitter(0, 0),
		idx:      idx,
		pool:     pool,
		logger:   slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	embedder, err := newChunkEmbedder(provider.Embedder(), p.cache, p.model, p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.embedder = embedder

	return p, nil
}

// LoadDocument chunks, embeds and upserts a single document. The document's
// chunk list is attached as a side effect. Documents whose content yields no
// chunks are valid and produce no index writes.
func (p *Pipeline) LoadDocument(ctx context.Context, doc *core.Document) error {
	pieces := p.splitter.Chunk(doc.Content)
	chunks := make([]core.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = core.NewChunk(piece)
	}
	if err := doc.AttachChunks(chunks); err != nil {
		return err
	}
	if err := core.ValidateDocument(doc); err != nil {
		return err
	}

	if len(chunks) == 0 {
		p.logger.Info("document produced no chunks", "filename", doc.Filename)
		return nil
	}

	if err := p.embedder.embed(ctx, chunks); err != nil {
		return fmt.Errorf("%w: %w", ErrEmbedding, err)
	}

	records := make([]index.Record, len(chunks))
	for i, chunk := range chunks {
		records[i] = index.Record{
			ID:     string(chunk.ID),
			Values: chunk.Embedding,
			Metadata: index.Metadata{
				Title:    doc.Title,
				Filename: doc.Filename,
				Text:     chunk.Text,
			},
		}
	}
	if err := p.idx.Upsert(ctx, records); err != nil {
		return fmt.Errorf("%w: %w", ErrIndexUpsert, err)
	}

	p.logger.Info("document loaded", "filename", doc.Filename, "chunks", len(chunks))
	return nil
}

// LoadFile reads a .txt file and loads it.
func (p *Pipeline) LoadFile(ctx context.Context, path string) error {
	doc, err := ReadTextFile(path)
	if err != nil {
		return err
	}
	return p.LoadDocument(ctx, doc)
}

// LoadDirectory loads every .txt file directly inside dir, processing files
// concurrently on the worker pool. A directory with no .txt files is a
// configuration error and aborts before any embedding or index calls. All
// files are attempted; failures are joined into the returned error.
func (p *Pipeline) LoadDirectory(ctx context.Context, dir string) error {
	paths, err := ListTextFiles(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("%s: %w", dir, ErrNoTextFiles)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, path := range paths {
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			if loadErr := p.LoadFile(ctx, path); loadErr != nil {
				p.logger.Error("error loading file", "path", path, "err", loadErr)
				mu.Lock()
				errs = append(errs, loadErr)
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			errs = append(errs, submitErr)
			mu.Unlock()
		}
	}
	wg.Wait()

	return errors.Join(errs...)
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
