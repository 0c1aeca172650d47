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


// Package config loads the application configuration from YAML.
//
// Credentials are never stored in the file; the config names environment
// variables and the values are read from the process environment at load
// time.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ChunkingConfig configures how documents are split into chunks.
type ChunkingConfig struct {
	MinChunkSize int `yaml:"min_chunk_size"`
	MaxChunkSize int `yaml:"max_chunk_size"`
}

// AIConfig configures the embedding and generation models.
type AIConfig struct {
	Host                string `yaml:"host"`
	EmbeddingModel      string `yaml:"embedding_model"`
	GenerationModel     string `yaml:"generation_model"`
	EmbeddingDimensions int    `yaml:"embedding_dimensions"`
	APIKeyEnv           string `yaml:"api_key_env"`
}

// QdrantConfig contains connection details for a Qdrant index.
type QdrantConfig struct {
	URL        string `yaml:"url"`
	APIKeyEnv  string `yaml:"api_key_env"`
	Collection string `yaml:"collection"`
}

// IndexConfig selects and configures the vector index implementation.
type IndexConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	DataDir   string         `yaml:"data_dir"`
	CachePath string         `yaml:"cache_path"`
	Chunking  ChunkingConfig `yaml:"chunking"`
	AI        AIConfig       `yaml:"ai"`
	Index     IndexConfig    `yaml:"index"`
}

// APIKey resolves the AI credential from the configured environment variable.
func (c *AIConfig) APIKey() string {
	return os.Getenv(c.APIKeyEnv)
}

// APIKey resolves the Qdrant credential from the configured environment
// variable. An empty variable name means no credential is sent.
func (q *QdrantConfig) APIKey() string {
	if q.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(q.APIKeyEnv)
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault tries ./textrag.yaml first, then ~/.config/textrag/config.yaml.
// If neither exists, it writes defaults to ~/.config/textrag/config.yaml and
// returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "textrag.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks invariants that defaults cannot repair.
func (c *AppConfig) Validate() error {
	if c.Chunking.MinChunkSize > c.Chunking.MaxChunkSize {
		return fmt.Errorf("min_chunk_size %d exceeds max_chunk_size %d",
			c.Chunking.MinChunkSize, c.Chunking.MaxChunkSize)
	}
	switch c.Index.Type {
	case "memory":
	case "qdrant":
		if c.Index.Qdrant == nil || c.Index.Qdrant.URL == "" {
			return errors.New("qdrant index requires a url")
		}
	default:
		return fmt.Errorf("unknown index type %q", c.Index.Type)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "textrag", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		DataDir:   "txts",
		CachePath: "",
		Chunking:  ChunkingConfig{MinChunkSize: 10, MaxChunkSize: 500},
		AI: AIConfig{
			Host:                "https://api.openai.com/v1",
			EmbeddingModel:      "text-embedding-3-small",
			GenerationModel:     "gpt-4o-mini",
			EmbeddingDimensions: 1536,
			APIKeyEnv:           "OPENAI_API_KEY",
		},
		Index: IndexConfig{Type: "memory"},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	defaults := defaultConfig()
	if cfg.DataDir == "" {
		cfg.DataDir = defaults.DataDir
	}
	if cfg.Chunking.MinChunkSize == 0 {
		cfg.Chunking.MinChunkSize = defaults.Chunking.MinChunkSize
	}
	if cfg.Chunking.MaxChunkSize == 0 {
		cfg.Chunking.MaxChunkSize = defaults.Chunking.MaxChunkSize
	}
	if cfg.AI.Host == "" {
		cfg.AI.Host = defaults.AI.Host
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = defaults.AI.EmbeddingModel
	}
	if cfg.AI.GenerationModel == "" {
		cfg.AI.GenerationModel = defaults.AI.GenerationModel
	}
	if cfg.AI.EmbeddingDimensions == 0 {
		cfg.AI.EmbeddingDimensions = defaults.AI.EmbeddingDimensions
	}
	if cfg.AI.APIKeyEnv == "" {
		cfg.AI.APIKeyEnv = defaults.AI.APIKeyEnv
	}
	if cfg.Index.Type == "" {
		cfg.Index.Type = defaults.Index.Type
	}
	if cfg.Index.Type == "qdrant" && cfg.Index.Qdrant != nil {
		if cfg.Index.Qdrant.Collection == "" {
			cfg.Index.Qdrant.Collection = "textrag"
		}
	}
}
