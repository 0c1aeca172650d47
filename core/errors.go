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

import "errors"

// Domain validation errors
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyText indicates the chunk Text field is empty.
	ErrEmptyText = errors.New("chunk text cannot be empty")

	// ErrIDMismatch indicates a chunk ID does not match the hash of its text.
	ErrIDMismatch = errors.New("chunk id does not match content hash")

	// ErrEmptyFilename indicates the document Filename field is empty.
	ErrEmptyFilename = errors.New("document filename cannot be empty")

	// ErrChunksAlreadyAttached indicates AttachChunks was called on a document
	// that already has chunks.
	ErrChunksAlreadyAttached = errors.New("chunks already attached to document")
)
