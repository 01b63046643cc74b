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

package pipeline

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/sievedata/sift/aggregate"
	"github.com/sievedata/sift/archive"
	"github.com/sievedata/sift/core"
	"github.com/sievedata/sift/extract"
	"github.com/sievedata/sift/relate"
	"github.com/sievedata/sift/segment"
	"github.com/sievedata/sift/storage"
)

// Pipeline runs the synchronous processing stages for a document and
// hands the rest to background workers.
type Pipeline struct {
	store       storage.Store
	segmenter   *segment.Engine
	extractor   *extract.Extractor
	relator     *relate.Builder
	archiver    archive.Archiver
	archivePool *ants.Pool
	chunking    *segment.Config
	rules       extract.Rules
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for asynchronous archiving.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.archivePool != nil {
			p.archivePool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.archivePool = pool
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger.With("component", "pipeline")
		return nil
	}
}

// WithArchiver sets the archiver for raw source text.
// Default discards the text.
func WithArchiver(archiver archive.Archiver) Option {
	return func(p *Pipeline) error {
		if archiver == nil {
			archiver = archive.Noop{}
		}
		p.archiver = archiver
		return nil
	}
}

// WithChunkingConfig overrides the segmentation token budgets.
func WithChunkingConfig(config *segment.Config) Option {
	return func(p *Pipeline) error {
		if err := config.Validate(); err != nil {
			return err
		}
		p.chunking = config
		return nil
	}
}

// WithRules overrides the entity extraction rule set.
func WithRules(rules Rules) Option {
	return func(p *Pipeline) error {
		p.rules = rules
		return nil
	}
}

// Rules re-exports the extraction rule set for callers configuring the
// pipeline without importing extract directly.
type Rules = extract.Rules

// NewPipeline creates a pipeline over the given store.
func NewPipeline(store storage.Store, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		store:       store,
		archiver:    archive.Noop{},
		archivePool: pool,
		chunking:    segment.DefaultConfig(),
		rules:       extract.DefaultRules(),
		logger:      slog.Default().With("component", "pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	// Build the stages after options are applied so they see final config.
	segmenter, err := segment.NewEngine(
		segment.WithConfig(p.chunking),
		segment.WithLogger(p.logger),
	)
	if err != nil {
		p.Release()
		return nil, err
	}
	extractor, err := extract.NewExtractor(
		extract.WithRules(p.rules),
		extract.WithLogger(p.logger),
	)
	if err != nil {
		p.Release()
		return nil, err
	}
	relator, err := relate.NewBuilder(relate.WithLogger(p.logger))
	if err != nil {
		p.Release()
		return nil, err
	}

	p.segmenter = segmenter
	p.extractor = extractor
	p.relator = relator
	return p, nil
}

// Result reports what one Process call produced.
type Result struct {
	Document      *core.Document
	Chunks        []*core.Chunk
	Entities      []*core.ExtractedEntity
	Relationships []*core.ChunkRelationship
	Metadata      *core.DocumentMetadata
}

// Process runs a document through segmentation, extraction, relationship
// building, and aggregation, persists everything, and queues vectorization.
// A zero document ID is filled in from the content hash, and a zero
// timestamp defaults to now. Empty text yields a document with no chunks
// and no queued task.
func (p *Pipeline) Process(ctx context.Context, doc *core.Document, text string) (*Result, error) {
	if doc == nil {
		return nil, ErrDocumentRequired
	}
	if doc.Id == 0 {
		doc.Id = core.IDFromContent(text)
	}
	if doc.Kind == "" {
		doc.Kind = core.KindDocument
	}
	if doc.Timestamp.IsZero() {
		doc.Timestamp = time.Now().UTC()
	}

	chunks := p.segmenter.Segment(doc.Id, text, doc.Kind)
	entities := p.extractor.Extract(text)
	extract.AttachEntities(chunks, entities)
	rels := p.relator.Build(chunks)
	meta := aggregate.Aggregate(doc, chunks, entities)

	if err := p.store.PutDocument(ctx, doc); err != nil {
		return nil, err
	}
	if err := p.store.PutChunks(ctx, chunks...); err != nil {
		return nil, err
	}
	if err := p.store.PutRelationships(ctx, rels...); err != nil {
		return nil, err
	}
	if err := p.store.PutMetadata(ctx, meta); err != nil {
		return nil, err
	}

	if len(chunks) > 0 {
		if err := p.store.Enqueue(ctx, &core.ProcessingTask{TargetId: doc.Id}); err != nil {
			return nil, err
		}
	}

	p.submitArchive(doc, text)

	p.logger.Info("document processed",
		"documentId", doc.Id,
		"chunks", len(chunks),
		"entities", len(entities),
		"relationships", len(rels))

	return &Result{
		Document:      doc,
		Chunks:        chunks,
		Entities:      entities,
		Relationships: rels,
		Metadata:      meta,
	}, nil
}

// submitArchive hands the raw text to the archiver on the worker pool.
// Failures are logged, never surfaced.
func (p *Pipeline) submitArchive(doc *core.Document, text string) {
	err := p.archivePool.Submit(func() {
		if archiveErr := p.archiver.Archive(context.Background(), doc, text); archiveErr != nil {
			p.logger.Error("error archiving document", "documentId", doc.Id, "err", archiveErr)
		}
	})
	if err != nil {
		p.logger.Error("error submitting archive job", "documentId", doc.Id, "err", err)
	}
}

// Release releases the worker pool. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.archivePool != nil {
		p.archivePool.Release()
	}
}
