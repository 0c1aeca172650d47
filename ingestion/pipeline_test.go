package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/textrag/ai/mock"
	"github.com/poiesic/textrag/chunking"
	"github.com/poiesic/textrag/core"
	"github.com/poiesic/textrag/embedcache"
	"github.com/poiesic/textrag/index"
	"github.com/poiesic/textrag/index/memory"
)

func newTestPipeline(t *testing.T, opts ...Option) (*Pipeline, *mock.MockProvider, *memory.Store) {
	t.Helper()
	provider := mock.NewMockProvider().(*mock.MockProvider)
	store := memory.NewStore()
	require.NoError(t, store.Init(context.Background(), mock.DefaultDimension))

	pipeline, err := NewPipeline(provider, store, opts...)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)
	return pipeline, provider, store
}

func TestNewPipelineValidatesArguments(t *testing.T) {
	_, err := NewPipeline(nil, memory.NewStore())
	assert.ErrorIs(t, err, ErrAIProviderRequired)

	_, err = NewPipeline(mock.NewMockProvider(), nil)
	assert.ErrorIs(t, err, ErrIndexRequired)
}

func TestLoadDocumentUpsertsChunks(t *testing.T) {
	pipeline, _, store := newTestPipeline(t)

	doc := core.NewDocument("notes.txt", "First paragraph here.\n\nSecond paragraph here.")
	require.NoError(t, pipeline.LoadDocument(context.Background(), doc))

	require.Len(t, doc.Chunks, 2)
	assert.Equal(t, "First paragraph here.", doc.Chunks[0].Text)
	assert.Equal(t, "Second paragraph here.", doc.Chunks[1].Text)
	for _, chunk := range doc.Chunks {
		assert.Equal(t, core.IDFromContent(chunk.Text), chunk.ID)
		assert.Len(t, chunk.Embedding, mock.DefaultDimension)
	}
	assert.Equal(t, 2, store.Len())
}

func TestLoadDocumentIsIdempotent(t *testing.T) {
	pipeline, _, store := newTestPipeline(t)

	content := "Same paragraph both times."
	require.NoError(t, pipeline.LoadDocument(context.Background(), core.NewDocument("a.txt", content)))
	require.NoError(t, pipeline.LoadDocument(context.Background(), core.NewDocument("b.txt", content)))

	// Identical text hashes to the identical id, so the second load overwrites.
	assert.Equal(t, 1, store.Len())
}

func TestLoadDocumentEmptyContentIsValid(t *testing.T) {
	pipeline, _, store := newTestPipeline(t)

	doc := core.NewDocument("empty.txt", "   \n\n  ")
	require.NoError(t, pipeline.LoadDocument(context.Background(), doc))
	assert.Empty(t, doc.Chunks)
	assert.Equal(t, 0, store.Len())
}

func TestLoadDocumentEmbeddingFailurePropagates(t *testing.T) {
	pipeline, provider, store := newTestPipeline(t)

	wantErr := errors.New("embedding service down")
	provider.GetMockEmbedder().EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, wantErr
	}

	doc := core.NewDocument("notes.txt", "Some paragraph.")
	err := pipeline.LoadDocument(context.Background(), doc)
	assert.ErrorIs(t, err, ErrEmbedding)
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 0, store.Len())
}

func TestLoadDocumentPreservesSourceOrder(t *testing.T) {
	pipeline, _, _ := newTestPipeline(t, WithSplitter(chunking.NewSplitter(5, 500)))

	doc := core.NewDocument("ordered.txt", "Alpha paragraph.\n\nBeta paragraph.\n\nGamma paragraph.")
	require.NoError(t, pipeline.LoadDocument(context.Background(), doc))

	require.Len(t, doc.Chunks, 3)
	assert.Equal(t, "Alpha paragraph.", doc.Chunks[0].Text)
	assert.Equal(t, "Beta paragraph.", doc.Chunks[1].Text)
	assert.Equal(t, "Gamma paragraph.", doc.Chunks[2].Text)
}

func TestLoadDocumentUsesEmbedCache(t *testing.T) {
	cache, err := embedcache.Open("", true)
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	pipeline, provider, _ := newTestPipeline(t, WithEmbedCache(cache, "test-model"))

	content := "Cached paragraph."
	require.NoError(t, pipeline.LoadDocument(context.Background(), core.NewDocument("a.txt", content)))
	embedder := provider.GetMockEmbedder()
	assert.Equal(t, 1, embedder.CallCount())

	// Second load of the same text must be served entirely from cache.
	require.NoError(t, pipeline.LoadDocument(context.Background(), core.NewDocument("b.txt", content)))
	assert.Equal(t, 1, embedder.CallCount())

	vector, found, err := cache.Get(core.IDFromContent(content), "test-model")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, vector, mock.DefaultDimension)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.txt"), []byte("First document text."), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "two.txt"), []byte("Second document text."), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.md"), []byte("Not a text file."), 0644))

	pipeline, _, store := newTestPipeline(t)
	require.NoError(t, pipeline.LoadDirectory(context.Background(), dir))
	assert.Equal(t, 2, store.Len())
}

func TestLoadDirectoryEmptyDirIsConfigurationError(t *testing.T) {
	pipeline, provider, store := newTestPipeline(t)

	err := pipeline.LoadDirectory(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrNoTextFiles)

	// The load must abort before any embedding or index calls.
	assert.Equal(t, 0, provider.GetMockEmbedder().CallCount())
	assert.Equal(t, 0, store.Len())
}

func TestLoadDirectoryNonTextFilesOnlyIsConfigurationError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("Not a text file."), 0644))

	pipeline, _, _ := newTestPipeline(t)
	assert.ErrorIs(t, pipeline.LoadDirectory(context.Background(), dir), ErrNoTextFiles)
}

func TestLoadDirectoryJoinsFailures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.txt"), []byte("First document text."), 0644))

	provider := mock.NewMockProvider().(*mock.MockProvider)
	wantErr := errors.New("embedding service down")
	provider.GetMockEmbedder().EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, wantErr
	}

	store := memory.NewStore()
	require.NoError(t, store.Init(context.Background(), mock.DefaultDimension))
	pipeline, err := NewPipeline(provider, store, WithPoolSize(1))
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	err = pipeline.LoadDirectory(context.Background(), dir)
	assert.ErrorIs(t, err, wantErr)
}

func TestReadTextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.txt")
	require.NoError(t, os.WriteFile(path, []byte("guide content"), 0644))

	doc, err := ReadTextFile(path)
	require.NoError(t, err)
	assert.Equal(t, "guide", doc.Title)
	assert.Equal(t, "guide.txt", doc.Filename)
	assert.Equal(t, "guide content", doc.Content)

	_, err = ReadTextFile(filepath.Join(dir, "guide.md"))
	assert.ErrorIs(t, err, ErrNotTextFile)
}

func TestLoadDocumentRecordsCarryMetadata(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)
	store := memory.NewStore()
	require.NoError(t, store.Init(context.Background(), mock.DefaultDimension))
	pipeline, err := NewPipeline(provider, store)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	doc := core.NewDocument("manual.txt", "Reset the device by holding the button.")
	require.NoError(t, pipeline.LoadDocument(context.Background(), doc))

	query := mock.DeterministicVector(doc.Chunks[0].Text, mock.DefaultDimension)
	matches, err := store.Query(context.Background(), query, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, index.Metadata{
		Title:    "manual",
		Filename: "manual.txt",
		Text:     "Reset the device by holding the button.",
	}, matches[0].Metadata)
}
