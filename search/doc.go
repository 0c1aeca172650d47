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


// Package search answers questions against the vector index.
//
// The Retriever type embeds a query and returns the top-k most similar
// chunks from the index. The Answerer type assembles retrieved chunk text
// into a context string and asks the generation model to answer from that
// context alone, at temperature zero.
//
// Generation failures are the one graceful-degradation point: they are
// converted into a user-visible error string instead of propagating.
// All earlier stages (embedding, index query) fail hard.
package search
