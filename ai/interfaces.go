package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains one fixed-dimension vector per input text,
	// in the same order as the inputs.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates a vector embedding for a query string.
	// The vector lives in the identical embedding space as EmbedTexts output;
	// mixing spaces makes similarity scores meaningless.
	// Returns an error if the embedding generation fails.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Generator produces natural-language text from a prompt.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate invokes the generation model with the given prompt and returns
	// its completion. Sampling is deterministic: implementations pin the
	// temperature to zero for reproducibility.
	// Returns an error on transport or quota failures.
	Generate(ctx context.Context, prompt string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and Generator instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Generator returns the text generation service.
	// The returned Generator is safe for concurrent use.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
