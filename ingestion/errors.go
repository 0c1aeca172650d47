package ingestion

import "errors"

var (
	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrIndexRequired is returned when a vector index is not provided.
	ErrIndexRequired = errors.New("vector index required")

	// ErrEmbedding marks failures from the embedding collaborator.
	ErrEmbedding = errors.New("embedding failed")

	// ErrIndexUpsert marks failures writing chunk records to the index.
	ErrIndexUpsert = errors.New("index upsert failed")

	// ErrEmbeddingCountMismatch is returned when the embedder yields a
	// different number of vectors than texts submitted.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")

	// ErrNotTextFile is returned when a document path does not name a .txt file.
	ErrNotTextFile = errors.New("not a text file")

	// ErrNoTextFiles is returned when the data directory contains no .txt
	// files. A misconfigured directory aborts the load before any embedding
	// or index calls.
	ErrNoTextFiles = errors.New("no .txt files found")
)
