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

package vectorize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sievedata/sift/ai"
	"github.com/sievedata/sift/core"
	"github.com/sievedata/sift/storage"
)

const (
	defaultBatchPause     = 300 * time.Millisecond
	defaultFailBackoff    = 30 * time.Second
	defaultWriteRetries   = 3
	defaultRetryBaseDelay = 100 * time.Millisecond
	previewLength         = 200
)

// Worker processes vectorize tasks from the durable queue.
type Worker struct {
	store          storage.Store
	embedder       ai.Embedder
	model          string
	logger         *slog.Logger
	batchPause     time.Duration
	failBackoff    time.Duration
	writeRetries   int
	retryBaseDelay time.Duration
}

type Option func(*Worker) error

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) error {
		w.logger = logger.With("component", "vectorize")
		return nil
	}
}

// WithBatchPause sets the pause between embedding sub-batches, keeping
// request rate against the provider bounded.
func WithBatchPause(pause time.Duration) Option {
	return func(w *Worker) error {
		if pause < 0 {
			return fmt.Errorf("batch pause must not be negative, got %v", pause)
		}
		w.batchPause = pause
		return nil
	}
}

// WithFailureBackoff sets how far a failed task's ScheduledFor is pushed out
// when it is re-queued.
func WithFailureBackoff(backoff time.Duration) Option {
	return func(w *Worker) error {
		if backoff < 0 {
			return fmt.Errorf("failure backoff must not be negative, got %v", backoff)
		}
		w.failBackoff = backoff
		return nil
	}
}

// WithWriteRetry configures the retry policy for transient store writes.
func WithWriteRetry(attempts int, baseDelay time.Duration) Option {
	return func(w *Worker) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		w.writeRetries = attempts
		w.retryBaseDelay = baseDelay
		return nil
	}
}

// NewWorker creates a worker. The model name is recorded on every vector it
// stores.
func NewWorker(store storage.Store, embedder ai.Embedder, model string, opts ...Option) (*Worker, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	w := &Worker{
		store:          store,
		embedder:       embedder,
		model:          model,
		logger:         slog.Default().With("component", "vectorize"),
		batchPause:     defaultBatchPause,
		failBackoff:    defaultFailBackoff,
		writeRetries:   defaultWriteRetries,
		retryBaseDelay: defaultRetryBaseDelay,
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// ProcessBatch claims up to limit due tasks and processes each one. A task
// failure re-queues or terminally fails that task and moves on to the next;
// the returned error reports only infrastructure problems (claiming,
// recording outcomes). Returns the number of tasks completed.
func (w *Worker) ProcessBatch(ctx context.Context, limit int) (int, error) {
	tasks, err := w.store.Claim(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("claiming tasks: %w", err)
	}
	if len(tasks) == 0 {
		return 0, nil
	}

	completed := 0
	for i, task := range tasks {
		if err := ctx.Err(); err != nil {
			// Interrupted before this task's provider was called; release
			// everything still claimed without consuming attempts.
			return completed, errors.Join(err, w.releaseTasks(tasks[i:]))
		}

		if taskErr := w.processTask(ctx, task); taskErr != nil {
			if ctx.Err() != nil {
				// Cancelled mid-task. The provider was not at fault, so
				// this attempt does not count against the task.
				return completed, errors.Join(ctx.Err(), w.releaseTasks(tasks[i:]))
			}
			w.logger.Warn("task failed", "task", task.Id, "target", task.TargetId, "err", taskErr)
			if err := w.store.FailTask(ctx, task.Id, taskErr, w.failBackoff); err != nil {
				err = fmt.Errorf("recording task failure: %w", err)
				return completed, errors.Join(err, w.releaseTasks(tasks[i+1:]))
			}
			continue
		}
		if err := w.store.CompleteTask(ctx, task.Id); err != nil {
			err = fmt.Errorf("completing task: %w", err)
			return completed, errors.Join(err, w.releaseTasks(tasks[i+1:]))
		}
		completed++
	}
	return completed, nil
}

// releaseTasks puts still-claimed tasks back to pending so an interrupted
// batch never strands them in processing. Runs on a fresh context because
// the batch context may already be cancelled.
func (w *Worker) releaseTasks(tasks []*core.ProcessingTask) error {
	var errs []error
	for _, task := range tasks {
		if err := w.store.ReleaseTask(context.Background(), task.Id); err != nil {
			errs = append(errs, fmt.Errorf("releasing task %s: %w", task.Id, err))
		}
	}
	return errors.Join(errs...)
}

// processTask embeds every not-yet-vectorized chunk of the task's document
// in sub-batches, then marks the document embedding-complete.
func (w *Worker) processTask(ctx context.Context, task *core.ProcessingTask) error {
	doc, err := w.store.GetDocument(ctx, task.TargetId)
	if err != nil {
		return fmt.Errorf("loading document %d: %w", task.TargetId, err)
	}
	chunks, err := w.store.GetDocumentChunks(ctx, task.TargetId)
	if err != nil {
		return fmt.Errorf("loading chunks: %w", err)
	}

	pending, err := w.unembeddedChunks(ctx, chunks)
	if err != nil {
		return err
	}

	w.logger.Debug("embedding document chunks",
		"document", doc.Id, "chunks", len(chunks), "pending", len(pending))

	for start := 0; start < len(pending); start += ai.MaxBatchSize {
		end := start + ai.MaxBatchSize
		if end > len(pending) {
			end = len(pending)
		}
		if err := w.embedSubBatch(ctx, doc, pending[start:end]); err != nil {
			return err
		}
		if end < len(pending) {
			if err := w.pause(ctx); err != nil {
				return err
			}
		}
	}

	err = RetryWithBackoff(ctx, func() error {
		return w.store.MarkEmbeddingComplete(ctx, doc.Id)
	}, w.writeRetries, w.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("marking document complete: %w", err)
	}
	return nil
}

// unembeddedChunks filters out chunks that already have stored vectors, so
// a re-queued task does not redo work from a partially completed attempt.
func (w *Worker) unembeddedChunks(ctx context.Context, chunks []*core.Chunk) ([]*core.Chunk, error) {
	var pending []*core.Chunk
	for _, chunk := range chunks {
		count, err := w.store.VectorCount(ctx, chunk.Id)
		if err != nil {
			return nil, fmt.Errorf("checking vector for chunk %d: %w", chunk.Id, err)
		}
		if count == 0 {
			pending = append(pending, chunk)
		}
	}
	return pending, nil
}

func (w *Worker) embedSubBatch(ctx context.Context, doc *core.Document, chunks []*core.Chunk) error {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := w.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d texts: %w", len(texts), err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingMismatch, len(chunks), len(vectors))
	}

	for i, chunk := range chunks {
		vector := core.NewEmbeddingVector(vectors[i], w.model)
		entry := &core.SearchEntry{
			ChunkId:    chunk.Id,
			DocumentId: doc.Id,
			Title:      doc.Title,
			Timestamp:  doc.Timestamp,
			Preview:    preview(chunk.Content),
			Relevance:  1,
		}
		err := RetryWithBackoff(ctx, func() error {
			return w.store.PutVector(ctx, chunk.Id, vector, entry)
		}, w.writeRetries, w.retryBaseDelay)
		if err != nil {
			return fmt.Errorf("storing vector for chunk %d: %w", chunk.Id, err)
		}
	}
	return nil
}

func (w *Worker) pause(ctx context.Context) error {
	if w.batchPause == 0 {
		return nil
	}
	timer := time.NewTimer(w.batchPause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func preview(content string) string {
	if len(content) <= previewLength {
		return content
	}
	return content[:previewLength]
}
