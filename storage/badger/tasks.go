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

package badger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/sievedata/sift/core"
	"github.com/sievedata/sift/storage"
)

const defaultMaxAttempts = core.DefaultMaxAttempts

// claimRetries bounds how often a Claim retries after losing a transaction
// conflict to a concurrent worker.
const claimRetries = 3

// Enqueue inserts a task, defaulting zero-valued fields.
func (s *Store) Enqueue(ctx context.Context, task *core.ProcessingTask) error {
	if task.Id == "" {
		task.Id = uuid.NewString()
	}
	if task.TaskType == "" {
		task.TaskType = core.TaskTypeVectorize
	}
	if task.Priority == 0 {
		task.Priority = core.DefaultTaskPriority
	}
	if task.Status == 0 {
		task.Status = core.TaskPending
	}
	now := s.now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	if err := core.ValidateTask(task, s.maxAttempts); err != nil {
		return err
	}

	return s.backend.WithTx(func(tx *badgerdb.Txn) error {
		if err := tx.Set(makeTaskKey(task.Id), storage.MarshalTask(task)); err != nil {
			return err
		}
		if task.Status == core.TaskPending {
			pendKey := makeTaskPendingKey(task.Priority, task.CreatedAt, task.Id)
			if err := tx.Set(pendKey, []byte(task.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Claim atomically moves up to limit due pending tasks to processing.
// Concurrent claims are serialized by Badger's transaction conflict
// detection: a lost conflict is retried, so each task is handed to exactly
// one caller.
func (s *Store) Claim(ctx context.Context, limit int) ([]*core.ProcessingTask, error) {
	var lastErr error
	for attempt := 0; attempt < claimRetries; attempt++ {
		claimed, err := s.claimOnce(limit)
		if err == nil {
			return claimed, nil
		}
		if !errors.Is(err, badgerdb.ErrConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", storage.ErrTaskConflict, lastErr)
}

func (s *Store) claimOnce(limit int) ([]*core.ProcessingTask, error) {
	var claimed []*core.ProcessingTask
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		claimed = claimed[:0]
		now := s.now().UTC()

		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(taskPendingPrefix + ":")
		iter := tx.NewIterator(opts)
		var pendKeys [][]byte
		var taskIds []string
		for iter.Rewind(); iter.Valid(); iter.Next() {
			var taskId string
			err := iter.Item().Value(func(val []byte) error {
				taskId = string(val)
				return nil
			})
			if err != nil {
				iter.Close()
				return err
			}
			taskIds = append(taskIds, taskId)
			pendKeys = append(pendKeys, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for i, taskId := range taskIds {
			if len(claimed) >= limit {
				break
			}
			task, err := readTask(tx, makeTaskKey(taskId))
			if err != nil {
				return err
			}
			if task == nil || task.Status != core.TaskPending {
				// Stale index entry; drop it.
				if err := tx.Delete(pendKeys[i]); err != nil {
					return err
				}
				continue
			}
			if task.ScheduledFor.After(now) {
				continue
			}
			if task.Attempts >= s.maxAttempts {
				// Should have been terminally failed already; never hand out.
				continue
			}

			task.Status = core.TaskProcessing
			task.UpdatedAt = now
			if err := tx.Set(makeTaskKey(task.Id), storage.MarshalTask(task)); err != nil {
				return err
			}
			if err := tx.Delete(pendKeys[i]); err != nil {
				return err
			}
			claimed = append(claimed, task)
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// CompleteTask marks a processing task completed.
func (s *Store) CompleteTask(ctx context.Context, taskId string) error {
	return s.backend.WithTx(func(tx *badgerdb.Txn) error {
		task, err := readTask(tx, makeTaskKey(taskId))
		if err != nil {
			return err
		}
		if task == nil {
			return storage.ErrNotFound
		}
		if task.Status != core.TaskProcessing {
			return fmt.Errorf("%w: task %s is %s", storage.ErrTaskNotClaimable, taskId, task.Status)
		}
		task.Status = core.TaskCompleted
		task.UpdatedAt = s.now().UTC()
		if err := tx.Set(makeTaskKey(task.Id), storage.MarshalTask(task)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// FailTask records a failure on a processing task. Below the attempt bound
// the task returns to pending with backoff; at the bound it becomes
// terminally failed and is never re-queued.
func (s *Store) FailTask(ctx context.Context, taskId string, taskErr error, backoff time.Duration) error {
	return s.backend.WithTx(func(tx *badgerdb.Txn) error {
		task, err := readTask(tx, makeTaskKey(taskId))
		if err != nil {
			return err
		}
		if task == nil {
			return storage.ErrNotFound
		}
		if task.Status != core.TaskProcessing {
			return fmt.Errorf("%w: task %s is %s", storage.ErrTaskNotClaimable, taskId, task.Status)
		}

		now := s.now().UTC()
		task.Attempts++
		task.UpdatedAt = now
		if taskErr != nil {
			task.LastError = taskErr.Error()
		}

		if task.Attempts >= s.maxAttempts {
			task.Status = core.TaskFailed
			s.logger.Warn("task failed terminally",
				"task", task.Id, "target", task.TargetId, "attempts", task.Attempts, "err", task.LastError)
		} else {
			task.Status = core.TaskPending
			task.ScheduledFor = now.Add(backoff)
			pendKey := makeTaskPendingKey(task.Priority, task.CreatedAt, task.Id)
			if err := tx.Set(pendKey, []byte(task.Id)); err != nil {
				return err
			}
		}

		if err := tx.Set(makeTaskKey(task.Id), storage.MarshalTask(task)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ReleaseTask returns a processing task to pending without consuming an
// attempt. Used when a worker is interrupted before finishing work it
// claimed; the task becomes immediately claimable again.
func (s *Store) ReleaseTask(ctx context.Context, taskId string) error {
	return s.backend.WithTx(func(tx *badgerdb.Txn) error {
		task, err := readTask(tx, makeTaskKey(taskId))
		if err != nil {
			return err
		}
		if task == nil {
			return storage.ErrNotFound
		}
		if task.Status != core.TaskProcessing {
			return fmt.Errorf("%w: task %s is %s", storage.ErrTaskNotClaimable, taskId, task.Status)
		}

		task.Status = core.TaskPending
		task.UpdatedAt = s.now().UTC()
		pendKey := makeTaskPendingKey(task.Priority, task.CreatedAt, task.Id)
		if err := tx.Set(pendKey, []byte(task.Id)); err != nil {
			return err
		}
		if err := tx.Set(makeTaskKey(task.Id), storage.MarshalTask(task)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetTask retrieves a task by ID.
func (s *Store) GetTask(ctx context.Context, taskId string) (*core.ProcessingTask, error) {
	var result *core.ProcessingTask
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		var err error
		result, err = readTask(tx, makeTaskKey(taskId))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListTasks retrieves all tasks, most recently created first.
func (s *Store) ListTasks(ctx context.Context) ([]*core.ProcessingTask, error) {
	var results []*core.ProcessingTask
	err := s.backend.WithTx(func(tx *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(taskPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var task *core.ProcessingTask
			err := iter.Item().Value(func(val []byte) error {
				var err error
				task, err = storage.UnmarshalTask(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, task)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

// deleteTasksForTarget removes all tasks targeting a document, including
// their pending index entries.
func (s *Store) deleteTasksForTarget(tx *badgerdb.Txn, targetId core.ID) error {
	opts := badgerdb.DefaultIteratorOptions
	opts.Prefix = []byte(taskPrefix + ":")
	iter := tx.NewIterator(opts)

	var doomed []*core.ProcessingTask
	for iter.Rewind(); iter.Valid(); iter.Next() {
		var task *core.ProcessingTask
		err := iter.Item().Value(func(val []byte) error {
			var err error
			task, err = storage.UnmarshalTask(val)
			return err
		})
		if err != nil {
			iter.Close()
			return err
		}
		if task.TargetId == targetId {
			doomed = append(doomed, task)
		}
	}
	iter.Close()

	for _, task := range doomed {
		if task.Status == core.TaskPending {
			pendKey := makeTaskPendingKey(task.Priority, task.CreatedAt, task.Id)
			if err := deleteIfExists(tx, pendKey); err != nil {
				return err
			}
		}
		if err := tx.Delete(makeTaskKey(task.Id)); err != nil {
			return err
		}
	}
	return nil
}

// readTask reads a task from the transaction, nil if absent.
func readTask(tx *badgerdb.Txn, key []byte) (*core.ProcessingTask, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badgerdb.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	var task *core.ProcessingTask
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		task, unmarshalErr = storage.UnmarshalTask(val)
		return unmarshalErr
	})
	return task, err
}
