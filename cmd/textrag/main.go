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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/textrag"
	"github.com/poiesic/textrag/config"
	"github.com/poiesic/textrag/search"
)

func main() {
	// Credentials come from the environment; a .env file is a convenience
	// for local runs and its absence is not an error.
	godotenv.Load()

	app := &cli.App{
		Name:  "textrag",
		Usage: "Load text documents into a vector index and answer questions against them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "load",
				Usage:  "Load all .txt files from the data directory into the index",
				Action: loadCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "data-dir",
						Aliases: []string{"d"},
						Usage:   "Directory of .txt files (overrides config)",
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Answer a question from the indexed documents",
				ArgsUsage: "<question>",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of chunks to retrieve",
						Value:   search.DefaultTopK,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.AppConfig, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	cfg, path, err := config.LoadDefault()
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded configuration", "path", path)
	return cfg, nil
}

func loadCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if dir := c.String("data-dir"); dir != "" {
		cfg.DataDir = dir
	}

	store, err := textrag.NewStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	if err := store.Load(ctx); err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Loaded documents from %s\n", cfg.DataDir)
	return nil
}

func queryCommand(c *cli.Context) error {
	ctx := context.Background()

	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := textrag.NewStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	answerer, err := store.NewAnswerer(search.WithTopK(c.Int("top-k")))
	if err != nil {
		return fmt.Errorf("failed to create answerer: %w", err)
	}

	answer, err := answerer.Answer(ctx, question)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Println(answer)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
