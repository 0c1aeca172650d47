package embedcache

import (
	"fmt"

	"github.com/poiesic/textrag/core"
)

// Key prefix for cached embeddings
const embeddingPrefix = "emb"

// makeEmbeddingKey generates a key for a cached vector.
// Format: prefix:model:chunkID
func makeEmbeddingKey(id core.ID, model string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", embeddingPrefix, model, id))
}
