package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/poiesic/textrag/index"
)

// Store is an in-memory vector index using brute-force cosine similarity.
// It implements overwrite-on-duplicate-id semantics and is safe for
// concurrent use.
type Store struct {
	mu        sync.RWMutex
	dimension int
	positions map[string]int // record id -> slot in records
	records   []index.Record
}

var _ index.Index = (*Store)(nil)

// NewStore creates an empty in-memory index.
func NewStore() *Store {
	return &Store{
		positions: make(map[string]int),
	}
}

// Init sets the vector dimension. Re-initializing with the same dimension is
// a no-op; changing the dimension of a non-empty store is rejected.
func (s *Store) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return index.ErrInvalidDimension
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimension != 0 && s.dimension != dimension && len(s.records) > 0 {
		return fmt.Errorf("%w: store holds %d-dimensional vectors, requested %d",
			index.ErrDimensionMismatch, s.dimension, dimension)
	}
	s.dimension = dimension
	return nil
}

// Upsert inserts or overwrites records keyed by id.
func (s *Store) Upsert(ctx context.Context, records []index.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimension == 0 {
		return index.ErrNotInitialized
	}
	for _, record := range records {
		if len(record.Values) != s.dimension {
			return fmt.Errorf("%w: record %s has %d values, want %d",
				index.ErrDimensionMismatch, record.ID, len(record.Values), s.dimension)
		}
	}
	for _, record := range records {
		if pos, ok := s.positions[record.ID]; ok {
			s.records[pos] = record
			continue
		}
		s.positions[record.ID] = len(s.records)
		s.records = append(s.records, record)
	}
	return nil
}

// Query returns the topK nearest records by cosine similarity, highest first.
func (s *Store) Query(ctx context.Context, vector []float32, topK int) ([]index.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dimension == 0 {
		return nil, index.ErrNotInitialized
	}
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: query vector has %d values, want %d",
			index.ErrDimensionMismatch, len(vector), s.dimension)
	}
	if topK <= 0 {
		topK = index.DefaultTopK
	}

	matches := make([]index.Match, 0, len(s.records))
	for _, record := range s.records {
		matches = append(matches, index.Match{
			ID:       record.ID,
			Score:    cosineSimilarity(vector, record.Values),
			Metadata: record.Metadata,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if topK < len(matches) {
		matches = matches[:topK]
	}
	return matches, nil
}

// Len returns the number of stored records. Intended for tests and
// diagnostics.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// cosineSimilarity computes the cosine similarity between two equal-length
// vectors. Returns 0 when either vector has zero magnitude.
func cosineSimilarity(a, b []float32) float32 {
	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
