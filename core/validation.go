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


package core

import "fmt"

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - ID must equal the content hash of Text
//
// NOT validated (populated by the pipeline):
//   - Embedding (can be empty until the batch embedding phase runs)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}

	if chunk.ID != IDFromContent(chunk.Text) {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrIDMismatch)
	}

	return nil
}

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Filename must not be empty
//   - Every attached chunk must itself be valid
//
// An empty chunk list is valid: a document may legitimately yield zero
// chunks after filtering.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Filename == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyFilename)
	}

	for i := range doc.Chunks {
		if err := ValidateChunk(&doc.Chunks[i]); err != nil {
			return fmt.Errorf("%w: chunk %d: %w", ErrInvalidDocument, i, err)
		}
	}

	return nil
}
