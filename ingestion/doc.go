// Package ingestion loads text documents into the vector index.
//
// The Pipeline type manages the load workflow for documents, including:
//   - Reading text files and deriving document titles
//   - Chunking content into paragraph-bounded pieces
//   - Generating embeddings, consulting the embedding cache when configured
//   - Upserting chunk records into the index
//
// Documents are processed concurrently using a worker pool. Chunk ids are
// content hashes, so reloading the same files overwrites rather than
// duplicates index entries. Embedding and upsert failures fail the load;
// there is no partial-success mode.
package ingestion
