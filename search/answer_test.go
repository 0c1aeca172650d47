package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/textrag/ai/mock"
	"github.com/poiesic/textrag/index"
)

func newTestAnswerer(t *testing.T, texts ...string) (*Answerer, *mock.MockProvider) {
	t.Helper()
	provider := mock.NewMockProvider().(*mock.MockProvider)
	store := seedStore(t, texts...)
	retriever, err := NewRetriever(provider, store, WithTopK(2))
	require.NoError(t, err)
	answerer, err := NewAnswerer(retriever, provider)
	require.NoError(t, err)
	return answerer, provider
}

func TestNewAnswererValidatesArguments(t *testing.T) {
	provider := mock.NewMockProvider()
	retriever, err := NewRetriever(provider, seedStore(t, "one"))
	require.NoError(t, err)

	_, err = NewAnswerer(nil, provider)
	assert.ErrorIs(t, err, ErrRetrieverRequired)

	_, err = NewAnswerer(retriever, nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)
}

func TestAnswerPromptContainsContextAndQuery(t *testing.T) {
	answerer, provider := newTestAnswerer(t,
		"Paris is the capital of France.",
		"Badgers dig extensive burrow systems.",
	)

	answer, err := answerer.Answer(context.Background(), "What is the capital of France?")
	require.NoError(t, err)
	assert.Equal(t, mock.DefaultAnswer, answer)

	prompt := provider.GetMockGenerator().LastPrompt()
	assert.Contains(t, prompt, "Paris is the capital of France.")
	assert.Contains(t, prompt, "What is the capital of France?")
	assert.Contains(t, prompt, InsufficientInfoSentinel)
}

func TestAssembleContextJoinsWithSingleSpace(t *testing.T) {
	matches := []index.Match{
		{Metadata: index.Metadata{Text: "First chunk."}},
		{Metadata: index.Metadata{Text: "Second chunk."}},
	}
	assert.Equal(t, "First chunk. Second chunk.", assembleContext(matches))
	assert.Equal(t, "", assembleContext(nil))
}

func TestAnswerGenerationFailureDegradesGracefully(t *testing.T) {
	answerer, provider := newTestAnswerer(t, "Some indexed chunk.")
	provider.GetMockGenerator().GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("quota exceeded")
	}

	answer, err := answerer.Answer(context.Background(), "a question")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(answer, "Unable to generate an answer:"))
	assert.Contains(t, answer, "quota exceeded")
}

func TestAnswerRetrievalFailureStillFailsHard(t *testing.T) {
	answerer, provider := newTestAnswerer(t, "Some indexed chunk.")
	wantErr := errors.New("embedding service down")
	provider.GetMockEmbedder().EmbedQueryFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, wantErr
	}

	_, err := answerer.Answer(context.Background(), "a question")
	assert.ErrorIs(t, err, wantErr)
}

func TestAnswerWithMonitorReportsContextAndAnswer(t *testing.T) {
	answerer, _ := newTestAnswerer(t, "Alpha chunk text.", "Beta chunk text.")

	monitor := &recordingMonitor{}
	answer, err := answerer.AnswerWithMonitor(context.Background(), "a question", monitor)
	require.NoError(t, err)

	assert.Equal(t, answer, monitor.answer)
	assert.NotEmpty(t, monitor.context)
	assert.Equal(t, 2, monitor.matches)
}
