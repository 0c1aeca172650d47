package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/textrag/ai/mock"
	"github.com/poiesic/textrag/index"
	"github.com/poiesic/textrag/index/memory"
)

func seedStore(t *testing.T, texts ...string) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Init(context.Background(), mock.DefaultDimension))

	records := make([]index.Record, len(texts))
	for i, text := range texts {
		records[i] = index.Record{
			ID:       text,
			Values:   mock.DeterministicVector(text, mock.DefaultDimension),
			Metadata: index.Metadata{Title: "seed", Filename: "seed.txt", Text: text},
		}
	}
	require.NoError(t, store.Upsert(context.Background(), records))
	return store
}

func TestNewRetrieverValidatesArguments(t *testing.T) {
	_, err := NewRetriever(nil, memory.NewStore())
	assert.ErrorIs(t, err, ErrAIProviderRequired)

	_, err = NewRetriever(mock.NewMockProvider(), nil)
	assert.ErrorIs(t, err, ErrIndexRequired)
}

func TestRetrieveRanksExactMatchFirst(t *testing.T) {
	store := seedStore(t,
		"The capital of France is Paris.",
		"Badgers dig extensive burrow systems.",
		"Go is a statically typed language.",
	)
	retriever, err := NewRetriever(mock.NewMockProvider(), store, WithTopK(2))
	require.NoError(t, err)

	// The mock embedder maps identical text to the identical vector, so the
	// seeded chunk with the query's own text must rank first.
	matches, err := retriever.Retrieve(context.Background(), "The capital of France is Paris.")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "The capital of France is Paris.", matches[0].Metadata.Text)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestRetrieveDefaultsToTwoChunks(t *testing.T) {
	store := seedStore(t, "one", "two", "three", "four")
	retriever, err := NewRetriever(mock.NewMockProvider(), store)
	require.NoError(t, err)

	matches, err := retriever.Retrieve(context.Background(), "anything at all")
	require.NoError(t, err)
	assert.Len(t, matches, DefaultTopK)
}

func TestRetrieveRejectsEmptyQuery(t *testing.T) {
	retriever, err := NewRetriever(mock.NewMockProvider(), seedStore(t, "one"))
	require.NoError(t, err)

	_, err = retriever.Retrieve(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestRetrieveEmbeddingFailurePropagates(t *testing.T) {
	provider := mock.NewMockProvider().(*mock.MockProvider)
	wantErr := errors.New("embedding service down")
	provider.GetMockEmbedder().EmbedQueryFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, wantErr
	}

	retriever, err := NewRetriever(provider, seedStore(t, "one"))
	require.NoError(t, err)

	_, err = retriever.Retrieve(context.Background(), "a question")
	assert.ErrorIs(t, err, wantErr)
}

type recordingMonitor struct {
	query     string
	dimension int
	matches   int
	context   string
	answer    string
}

func (m *recordingMonitor) Start(query string)                  { m.query = query }
func (m *recordingMonitor) AfterQueryEmbedding(dimension int)   { m.dimension = dimension }
func (m *recordingMonitor) AfterIndexQuery(ms []index.Match)    { m.matches = len(ms) }
func (m *recordingMonitor) AfterContextAssembly(context string) { m.context = context }
func (m *recordingMonitor) Finish(answer string)                { m.answer = answer }

func TestRetrieveWithMonitorReportsStages(t *testing.T) {
	store := seedStore(t, "one", "two", "three")
	retriever, err := NewRetriever(mock.NewMockProvider(), store, WithTopK(3))
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	_, err = retriever.RetrieveWithMonitor(context.Background(), "  a question  ", monitor)
	require.NoError(t, err)

	assert.Equal(t, "a question", monitor.query)
	assert.Equal(t, mock.DefaultDimension, monitor.dimension)
	assert.Equal(t, 3, monitor.matches)
}
