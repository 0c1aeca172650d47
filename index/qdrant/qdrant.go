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


package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/textrag/index"
)

const defaultTimeout = 15 * time.Second

// errConflict marks an HTTP 409 response. Only Init treats it as benign.
var errConflict = errors.New("qdrant: conflict")

// Config contains connection details for a Qdrant collection.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// Index is a minimal REST client to a Qdrant collection.
// It assumes cosine distance and creates the collection if missing.
// No retries are performed; failures surface to the caller.
type Index struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
	logger     *slog.Logger
}

var _ index.Index = (*Index)(nil)

// New creates a Qdrant index client. No connection is made until Init.
func New(cfg Config) *Index {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Index{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
		logger:     slog.Default().With("component", "qdrant-index"),
	}
}

// pointID derives a deterministic UUID from a chunk id. Qdrant point ids must
// be UUIDs or integers; deriving them from the content-addressed chunk id
// preserves overwrite-on-duplicate semantics.
func pointID(recordID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(recordID)).String()
}

type payload struct {
	ChunkID  string `json:"chunk_id"`
	Title    string `json:"title"`
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

type point struct {
	ID      string    `json:"id"`
	Vector  []float32 `json:"vector"`
	Payload payload   `json:"payload"`
}

// Init creates the collection with cosine distance if it does not exist.
func (q *Index) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return index.ErrInvalidDimension
	}
	body := struct {
		Vectors struct {
			Size     int    `json:"size"`
			Distance string `json:"distance"`
		} `json:"vectors"`
	}{}
	body.Vectors.Size = dimension
	body.Vectors.Distance = "Cosine"

	url := fmt.Sprintf("%s/collections/%s", q.url, q.collection)
	if err := q.do(ctx, http.MethodPut, url, body, nil); err != nil {
		// A conflict means the collection already exists.
		if errors.Is(err, errConflict) {
			return nil
		}
		return fmt.Errorf("creating collection %s: %w", q.collection, err)
	}
	return nil
}

// Upsert writes records as points in a single request. Qdrant overwrites
// points with an existing id; the batch either succeeds or fails whole.
func (q *Index) Upsert(ctx context.Context, records []index.Record) error {
	if len(records) == 0 {
		return nil
	}
	points := make([]point, len(records))
	for i, record := range records {
		points[i] = point{
			ID:     pointID(record.ID),
			Vector: record.Values,
			Payload: payload{
				ChunkID:  record.ID,
				Title:    record.Metadata.Title,
				Filename: record.Metadata.Filename,
				Text:     record.Metadata.Text,
			},
		}
	}
	body := struct {
		Points []point `json:"points"`
	}{Points: points}

	url := fmt.Sprintf("%s/collections/%s/points?wait=true", q.url, q.collection)
	if err := q.do(ctx, http.MethodPut, url, body, nil); err != nil {
		return fmt.Errorf("upserting %d points: %w", len(points), err)
	}
	q.logger.Debug("upserted points", "count", len(points), "collection", q.collection)
	return nil
}

// Query searches the collection and returns matches in Qdrant's similarity
// rank order.
func (q *Index) Query(ctx context.Context, vector []float32, topK int) ([]index.Match, error) {
	if topK <= 0 {
		topK = index.DefaultTopK
	}
	body := struct {
		Vector      []float32 `json:"vector"`
		Limit       int       `json:"limit"`
		WithPayload bool      `json:"with_payload"`
	}{Vector: vector, Limit: topK, WithPayload: true}

	var resp struct {
		Result []struct {
			Score   float32 `json:"score"`
			Payload payload `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", q.url, q.collection)
	if err := q.do(ctx, http.MethodPost, url, body, &resp); err != nil {
		return nil, fmt.Errorf("querying collection %s: %w", q.collection, err)
	}

	matches := make([]index.Match, 0, len(resp.Result))
	for _, r := range resp.Result {
		matches = append(matches, index.Match{
			ID:    r.Payload.ChunkID,
			Score: r.Score,
			Metadata: index.Metadata{
				Title:    r.Payload.Title,
				Filename: r.Payload.Filename,
				Text:     r.Payload.Text,
			},
		})
	}
	return matches, nil
}

func (q *Index) do(ctx context.Context, method, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}
	resp, err := q.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusConflict {
		return errConflict
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
