package core

import (
	"encoding/hex"
	"path/filepath"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content-addressed identifier for a chunk.
// It is the lowercase hex encoding of a BLAKE2b-256 digest of the chunk text.
type ID string

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical text always produces the identical ID, regardless of which document
// the text appears in. This makes chunk identity content-addressed and index
// upserts idempotent.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(32, nil) // 32 bytes = 256 bits
	h.Write([]byte(text))
	return ID(hex.EncodeToString(h.Sum(nil)))
}

// Chunk is a bounded-size span of document text treated as an atomic
// retrieval unit. ID and Text are bound at construction and immutable;
// Embedding is populated later by the ingestion pipeline's batch
// embedding phase.
type Chunk struct {
	ID        ID
	Text      string
	Embedding []float32 // Vector in the embedding collaborator's space (populated by the pipeline)
}

// NewChunk constructs a chunk from text. The text is trimmed and the ID is
// derived from the trimmed bytes. Construction is pure: no embedding is
// computed here.
func NewChunk(text string) Chunk {
	text = strings.TrimSpace(text)
	return Chunk{
		ID:   IDFromContent(text),
		Text: text,
	}
}

// Document aggregates a source file's metadata and its ordered chunk list.
// Chunk order equals paragraph order in the source content, and within a
// split paragraph, left-to-right split order.
type Document struct {
	Title    string
	Filename string
	Content  string
	Chunks   []Chunk
}

// NewDocument creates a document from a source path and its raw content.
// The title is the filename stem (base name without extension).
func NewDocument(filename, content string) *Document {
	base := filepath.Base(filename)
	return &Document{
		Title:    strings.TrimSuffix(base, filepath.Ext(base)),
		Filename: filename,
		Content:  content,
	}
}

// AttachChunks sets the document's chunk list. A document is mutated exactly
// once after creation; attaching twice is a programming error and is rejected.
func (d *Document) AttachChunks(chunks []Chunk) error {
	if d.Chunks != nil {
		return ErrChunksAlreadyAttached
	}
	d.Chunks = chunks
	return nil
}
