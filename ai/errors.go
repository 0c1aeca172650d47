package ai

import "errors"

// ErrDimensionMismatch indicates an embedding service returned a vector whose
// dimension differs from the configured EmbeddingDimensions.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// ErrEmptyResponse indicates an AI service returned no usable output.
var ErrEmptyResponse = errors.New("empty response from AI service")
