// Copyright 2025 Sieve Data
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

// Package sift turns raw transcripts and business documents into chunked,
// entity-tagged, embedded records that support semantic search. Database is
// the top-level handle wiring storage, the processing pipeline, the
// embedding worker, and search together.
package sift

import (
	"log/slog"

	"github.com/sievedata/sift/ai"
	"github.com/sievedata/sift/ai/openai"
	"github.com/sievedata/sift/pipeline"
	"github.com/sievedata/sift/search"
	"github.com/sievedata/sift/storage"
	badgerstore "github.com/sievedata/sift/storage/badger"
	"github.com/sievedata/sift/vectorize"
)

// Database owns the store and the embedding client and builds the
// higher-level components on demand.
type Database struct {
	store    *badgerstore.Store
	embedder ai.Embedder
	aiConfig *ai.Config
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	embedder ai.Embedder
	inMemory bool
	logger   *slog.Logger
}

// WithAIConfig sets the embedding provider configuration.
// Default targets a local OpenAI-compatible endpoint.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithEmbedder supplies an embedder directly, bypassing the provider
// configuration. Useful for tests.
func WithEmbedder(embedder ai.Embedder) DatabaseOption {
	return func(o *databaseOptions) {
		o.embedder = embedder
	}
}

// WithInMemory stores everything in memory, discarded on Close.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithDatabaseLogger sets a custom logger. Default is slog.Default().
func WithDatabaseLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

// NewDatabase opens or creates a database at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	var store *badgerstore.Store
	var err error
	if options.inMemory {
		store, err = badgerstore.NewMemoryStore(badgerstore.WithLogger(options.logger))
	} else {
		store, err = badgerstore.NewStore(filePath, badgerstore.WithLogger(options.logger))
	}
	if err != nil {
		return nil, err
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	return &Database{
		store:    store,
		embedder: embedder,
		aiConfig: options.aiConfig,
		logger:   options.logger,
	}, nil
}

// Close releases the underlying store.
func (db *Database) Close() error {
	if err := db.store.Close(); err != nil {
		db.logger.Error("error closing store", "err", err)
		return err
	}
	return nil
}

// Store exposes the repositories for direct reads.
func (db *Database) Store() storage.Store {
	return db.store
}

// Embedder exposes the configured embedding client.
func (db *Database) Embedder() ai.Embedder {
	return db.embedder
}

// NewPipeline builds a processing pipeline over this database.
func (db *Database) NewPipeline(opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	merged := append([]pipeline.Option{pipeline.WithLogger(db.logger)}, opts...)
	return pipeline.NewPipeline(db.store, merged...)
}

// NewWorker builds an embedding worker over this database.
func (db *Database) NewWorker(opts ...vectorize.Option) (*vectorize.Worker, error) {
	merged := append([]vectorize.Option{vectorize.WithLogger(db.logger)}, opts...)
	return vectorize.NewWorker(db.store, db.embedder, db.aiConfig.Model, merged...)
}

// NewSearcher builds a searcher over this database.
func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	merged := append([]search.Option{search.WithLogger(db.logger)}, opts...)
	return search.NewSearcher(db.store, db.embedder, merged...)
}
