// Package chunking splits raw document text into retrieval-sized chunks.
//
// Chunking happens in three stages:
//   - segmentation into paragraphs on blank-line boundaries
//   - bounded recursive splitting of oversized paragraphs at sentence
//     boundaries near the midpoint
//   - filtering of pieces below the minimum chunk size
//
// All stages are pure functions of their input; the package performs no I/O
// and needs no collaborators.
package chunking
