// Package index defines the vector-index contract used by ingestion and
// retrieval, and the record/match transfer types exchanged with it.
//
// Two implementations are provided:
//
//   - index/memory: a brute-force cosine-similarity store with no external
//     dependencies, used by tests and the no-infrastructure mode
//   - index/qdrant: a minimal REST client for a Qdrant collection
//
// All durable state lives behind this interface; the pipeline keeps nothing
// locally except the transient Document/Chunk graph of a single run.
package index
