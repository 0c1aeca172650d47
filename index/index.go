package index

import "context"

// DefaultTopK is the number of matches Query returns when the caller passes
// a non-positive topK. Shared by every Index implementation.
const DefaultTopK = 2

// Metadata is the flat projection of a chunk stored alongside its vector.
// The index stores chunks keyed only by id plus this metadata; the owning
// Document is never persisted.
type Metadata struct {
	Title    string
	Filename string
	Text     string
}

// Record is the storage transfer unit for one chunk.
type Record struct {
	ID       string
	Values   []float32
	Metadata Metadata
}

// Match is a single retrieval result with its similarity score.
type Match struct {
	ID       string
	Score    float32
	Metadata Metadata
}

// Index persists chunk vectors and supports similarity search.
// Implementations must be thread-safe: ingestion upserts and query reads may
// run concurrently.
type Index interface {
	// Init prepares the index for vectors of the given dimension.
	// It is idempotent: initializing an existing index with the same
	// dimension succeeds.
	Init(ctx context.Context, dimension int) error

	// Upsert inserts or overwrites records keyed by id. Re-upserting a
	// record with the same id replaces the prior value; it never duplicates.
	// The batch is all-or-nothing from the caller's perspective.
	Upsert(ctx context.Context, records []Record) error

	// Query returns up to topK records nearest to the vector, in descending
	// similarity order, with stored metadata included. A non-positive topK
	// falls back to DefaultTopK.
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
}
