package textrag

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/textrag/ai/mock"
	"github.com/poiesic/textrag/config"
	"github.com/poiesic/textrag/ingestion"
)

func testConfig(t *testing.T, dataDir string) *config.AppConfig {
	t.Helper()
	return &config.AppConfig{
		DataDir:  dataDir,
		Chunking: config.ChunkingConfig{MinChunkSize: 10, MaxChunkSize: 500},
		AI: config.AIConfig{
			Host:                "http://localhost:1",
			EmbeddingModel:      "test-model",
			GenerationModel:     "test-model",
			EmbeddingDimensions: mock.DefaultDimension,
		},
		Index: config.IndexConfig{Type: "memory"},
	}
}

func TestLoadThenAnswerEndToEnd(t *testing.T) {
	dir := t.TempDir()
	content := "The reactor must be vented before restart.\n\nVenting takes ten minutes."
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manual.txt"), []byte(content), 0644))

	provider := mock.NewMockProvider().(*mock.MockProvider)
	store, err := NewStore(context.Background(), testConfig(t, dir), WithProvider(provider))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Load(context.Background()))

	answer, err := store.Answer(context.Background(), "How long does venting take?")
	require.NoError(t, err)
	assert.Equal(t, mock.DefaultAnswer, answer)

	prompt := provider.GetMockGenerator().LastPrompt()
	assert.Contains(t, prompt, "How long does venting take?")
	assert.Contains(t, prompt, "Venting takes ten minutes.")
}

func TestLoadEmptyDataDirFails(t *testing.T) {
	store, err := NewStore(context.Background(), testConfig(t, t.TempDir()),
		WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	assert.ErrorIs(t, store.Load(context.Background()), ingestion.ErrNoTextFiles)
}

func TestNewStoreRejectsUnknownIndexType(t *testing.T) {
	cfg := testConfig(t, t.TempDir())
	cfg.Index.Type = "pinecone"

	_, err := NewStore(context.Background(), cfg, WithProvider(mock.NewMockProvider()))
	assert.Error(t, err)
}

func TestNewStoreOpensEmbedCache(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.txt"), []byte("Cached fact here."), 0644))

	cfg := testConfig(t, dir)
	cfg.CachePath = filepath.Join(t.TempDir(), "cache")

	provider := mock.NewMockProvider().(*mock.MockProvider)
	store, err := NewStore(context.Background(), cfg, WithProvider(provider))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Load(context.Background()))
	require.NoError(t, store.Load(context.Background()))

	// The second load is served from the cache, so the embedder was only
	// called for the first.
	assert.Equal(t, 1, provider.GetMockEmbedder().CallCount())
}
