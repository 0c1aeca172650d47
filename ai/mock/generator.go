package mock

import "context"

// DefaultAnswer is returned by the mock generator when no custom behavior is
// injected.
const DefaultAnswer = "mock answer"

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, returns DefaultAnswer.
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	callCount  int
	lastPrompt string
}

// NewMockGenerator creates a mock generator with default behavior.
// Note: Returns concrete type to allow test assertions and behavior injection.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate records the prompt and returns the injected or default answer.
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.callCount++
	m.lastPrompt = prompt

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}

	return DefaultAnswer, nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// LastPrompt returns the prompt passed to the most recent Generate call.
// Useful for asserting on context assembly.
func (m *MockGenerator) LastPrompt() string {
	return m.lastPrompt
}

// Reset clears the call count, recorded prompt, and injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.lastPrompt = ""
	m.GenerateFunc = nil
}
