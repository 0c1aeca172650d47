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


package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/textrag/ai"
	"github.com/poiesic/textrag/index"
)

// InsufficientInfoSentinel is the phrase the generation model is instructed
// to emit when the retrieved context does not support an answer.
const InsufficientInfoSentinel = "insufficient information"

// promptTemplate embeds the assembled context and the user's question.
// The model is constrained to the context so it cannot answer from its
// own training data.
const promptTemplate = `Answer the question using only the provided context.
If the context does not contain the information needed to answer, reply with
exactly the phrase %q and nothing else.

Context: %s

Question: %s`

// Answerer produces answers to queries by retrieving context from the index
// and invoking the generation model.
type Answerer struct {
	retriever *Retriever
	generator ai.Generator
	logger    *slog.Logger
}

// AnswererOption configures an Answerer.
type AnswererOption func(*Answerer) error

// WithAnswererLogger sets a custom logger.
// Default is slog.Default().
func WithAnswererLogger(logger *slog.Logger) AnswererOption {
	return func(a *Answerer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAnswerer creates a new answerer on top of an existing retriever.
func NewAnswerer(retriever *Retriever, provider ai.AIProvider, opts ...AnswererOption) (*Answerer, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	a := &Answerer{
		retriever: retriever,
		generator: provider.Generator(),
		logger:    slog.Default().With("component", "search"),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Answer retrieves context for the query and generates an answer from it.
// Retrieval and embedding failures propagate as errors. Generation failures
// do not: they are converted into a user-visible error string, so a flaky
// generation backend degrades the answer rather than the whole query.
func (a *Answerer) Answer(ctx context.Context, query string) (string, error) {
	return a.AnswerWithMonitor(ctx, query, nil)
}

// AnswerWithMonitor is Answer with observation hooks.
func (a *Answerer) AnswerWithMonitor(ctx context.Context, query string, monitor SearchMonitor) (string, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	matches, err := a.retriever.RetrieveWithMonitor(ctx, query, monitor)
	if err != nil {
		return "", err
	}

	contextText := assembleContext(matches)
	monitor.AfterContextAssembly(contextText)

	prompt := fmt.Sprintf(promptTemplate, InsufficientInfoSentinel, contextText, strings.TrimSpace(query))
	answer, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		a.logger.Error("error generating answer", "err", err)
		answer = fmt.Sprintf("Unable to generate an answer: %v", err)
	}

	monitor.Finish(answer)
	return answer, nil
}

// assembleContext joins the text of retrieved chunks, in rank order, with a
// single space.
func assembleContext(matches []index.Match) string {
	texts := make([]string, len(matches))
	for i, match := range matches {
		texts[i] = match.Metadata.Text
	}
	return strings.Join(texts, " ")
}
