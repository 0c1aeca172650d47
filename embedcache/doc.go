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


// Package embedcache persists computed embeddings in a local BadgerDB store.
//
// Chunk ids are content hashes, so a cached vector stays valid as long as the
// chunk text and the embedding model are unchanged. The cache key includes the
// model name, which lets vectors from different models coexist in one store.
// A cache miss is not an error; callers fall through to the embedding
// provider and write the result back.
package embedcache
