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


package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/textrag/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client llms.Model
	logger *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.GenerationHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.GenerationModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client: client,
		logger: slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new answer generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// Generate invokes the generation model with the given prompt.
// The temperature is pinned to zero so identical prompts produce identical
// completions.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("generating completion", "promptLength", len(prompt))

	completion, err := llms.GenerateFromSinglePrompt(ctx, g.client, prompt, llms.WithTemperature(0.0))
	if err != nil {
		g.logger.Error("failed to generate completion", "err", err)
		return "", err
	}

	completion = strings.TrimSpace(completion)
	if completion == "" {
		return "", ai.ErrEmptyResponse
	}

	return completion, nil
}
