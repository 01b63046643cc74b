package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sievedata/sift/core"
	"github.com/sievedata/sift/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueDefaults(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	task := &core.ProcessingTask{TargetId: 42}
	require.NoError(t, store.Enqueue(ctx, task))

	assert.NotEmpty(t, task.Id)
	assert.Equal(t, core.TaskTypeVectorize, task.TaskType)
	assert.Equal(t, core.DefaultTaskPriority, task.Priority)
	assert.Equal(t, core.TaskPending, task.Status)
	assert.False(t, task.CreatedAt.IsZero())

	got, err := store.GetTask(ctx, task.Id)
	require.NoError(t, err)
	assert.Equal(t, core.ID(42), got.TargetId)
}

func TestClaimMovesToProcessing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	task := &core.ProcessingTask{TargetId: 42}
	require.NoError(t, store.Enqueue(ctx, task))

	claimed, err := store.Claim(ctx, 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, core.TaskProcessing, claimed[0].Status)

	// The task left the pending index; a second claim finds nothing.
	again, err := store.Claim(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestClaimOrdersByPriorityThenAge(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	low := &core.ProcessingTask{TargetId: 1, Priority: 1, CreatedAt: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	highOld := &core.ProcessingTask{TargetId: 2, Priority: 9, CreatedAt: time.Date(2025, 3, 10, 9, 1, 0, 0, time.UTC)}
	highNew := &core.ProcessingTask{TargetId: 3, Priority: 9, CreatedAt: time.Date(2025, 3, 10, 9, 2, 0, 0, time.UTC)}
	require.NoError(t, store.Enqueue(ctx, low))
	require.NoError(t, store.Enqueue(ctx, highNew))
	require.NoError(t, store.Enqueue(ctx, highOld))

	claimed, err := store.Claim(ctx, 2)
	require.NoError(t, err)
	require.Len(t, claimed, 2)
	assert.Equal(t, core.ID(2), claimed[0].TargetId)
	assert.Equal(t, core.ID(3), claimed[1].TargetId)
}

func TestClaimSkipsFutureScheduled(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	future := &core.ProcessingTask{TargetId: 1, ScheduledFor: time.Now().Add(time.Hour)}
	due := &core.ProcessingTask{TargetId: 2}
	require.NoError(t, store.Enqueue(ctx, future))
	require.NoError(t, store.Enqueue(ctx, due))

	claimed, err := store.Claim(ctx, 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, core.ID(2), claimed[0].TargetId)
}

func TestReleaseTaskRequeuesWithoutAttempt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	task := &core.ProcessingTask{TargetId: 42}
	require.NoError(t, store.Enqueue(ctx, task))

	claimed, err := store.Claim(ctx, 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	require.NoError(t, store.ReleaseTask(ctx, task.Id))

	got, err := store.GetTask(ctx, task.Id)
	require.NoError(t, err)
	assert.Equal(t, core.TaskPending, got.Status)
	assert.Equal(t, 0, got.Attempts)

	// Released tasks are immediately claimable again.
	claimed, err = store.Claim(ctx, 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, task.Id, claimed[0].Id)
}

func TestReleaseTaskRequiresProcessing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	task := &core.ProcessingTask{TargetId: 42}
	require.NoError(t, store.Enqueue(ctx, task))

	// Still pending: nothing to release.
	err := store.ReleaseTask(ctx, task.Id)
	assert.ErrorIs(t, err, storage.ErrTaskNotClaimable)

	assert.ErrorIs(t, store.ReleaseTask(ctx, "no-such-task"), storage.ErrNotFound)
}

func TestCompleteTask(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	task := &core.ProcessingTask{TargetId: 42}
	require.NoError(t, store.Enqueue(ctx, task))

	// Completing before claiming is a state error.
	err := store.CompleteTask(ctx, task.Id)
	assert.ErrorIs(t, err, storage.ErrTaskNotClaimable)

	claimed, err := store.Claim(ctx, 1)
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	require.NoError(t, store.CompleteTask(ctx, task.Id))

	got, err := store.GetTask(ctx, task.Id)
	require.NoError(t, err)
	assert.Equal(t, core.TaskCompleted, got.Status)
	assert.True(t, got.Status.Terminal())
}

func TestFailTaskRequeuesWithBackoff(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	task := &core.ProcessingTask{TargetId: 42}
	require.NoError(t, store.Enqueue(ctx, task))

	claimed, err := store.Claim(ctx, 1)
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	require.NoError(t, store.FailTask(ctx, task.Id, errors.New("provider down"), time.Hour))

	got, err := store.GetTask(ctx, task.Id)
	require.NoError(t, err)
	assert.Equal(t, core.TaskPending, got.Status)
	assert.Equal(t, 1, got.Attempts)
	assert.Equal(t, "provider down", got.LastError)
	assert.True(t, got.ScheduledFor.After(time.Now()))

	// Backed off into the future, so not yet claimable.
	again, err := store.Claim(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestFailTaskTerminalAtAttemptBound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	task := &core.ProcessingTask{TargetId: 42}
	require.NoError(t, store.Enqueue(ctx, task))

	for i := 1; i <= core.DefaultMaxAttempts; i++ {
		claimed, err := store.Claim(ctx, 1)
		require.NoError(t, err)
		require.Len(t, claimed, 1, "attempt %d should be claimable", i)
		require.NoError(t, store.FailTask(ctx, task.Id, errors.New("still down"), 0))
	}

	got, err := store.GetTask(ctx, task.Id)
	require.NoError(t, err)
	assert.Equal(t, core.TaskFailed, got.Status)
	assert.Equal(t, core.DefaultMaxAttempts, got.Attempts)

	// Terminal failure: never handed out again.
	claimed, err := store.Claim(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, claimed)

	// And never re-failable either.
	err = store.FailTask(ctx, task.Id, errors.New("poke"), 0)
	assert.ErrorIs(t, err, storage.ErrTaskNotClaimable)
	got, err = store.GetTask(ctx, task.Id)
	require.NoError(t, err)
	assert.Equal(t, core.DefaultMaxAttempts, got.Attempts)
}

func TestClaimLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Enqueue(ctx, &core.ProcessingTask{TargetId: core.ID(i + 1)}))
	}

	claimed, err := store.Claim(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, claimed, 3)

	rest, err := store.Claim(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, rest, 2)
}

func TestGetTaskNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetTask(context.Background(), "no-such-task")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
