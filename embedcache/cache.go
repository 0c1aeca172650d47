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


package embedcache

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/poiesic/textrag/core"
)

// Cache is a BadgerDB-backed embedding cache.
type Cache struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens an embedding cache at the specified path.
// Creates the directory if it doesn't exist.
func Open(filePath string, inMemory bool) (*Cache, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	logger := slog.Default().With("component", "embedcache")
	opts.Logger = &badgerLoggerAdapter{logger: logger}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Cache{
		db:     db,
		logger: logger,
	}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get looks up a cached vector for a chunk id under a model name.
// The second return value reports whether the vector was found.
func (c *Cache) Get(id core.ID, model string) ([]float32, bool, error) {
	if model == "" {
		return nil, false, ErrEmptyModel
	}

	var vector []float32
	err := c.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(makeEmbeddingKey(id, model))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			vector, err = UnmarshalVector(val)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return vector, true, nil
}

// Put stores a vector for a chunk id under a model name, overwriting any
// previous entry.
func (c *Cache) Put(id core.ID, model string, vector []float32) error {
	if model == "" {
		return ErrEmptyModel
	}
	if len(vector) == 0 {
		return ErrEmptyVector
	}

	return c.db.Update(func(tx *badger.Txn) error {
		return tx.Set(makeEmbeddingKey(id, model), MarshalVector(vector))
	})
}
