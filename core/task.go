package core

import "time"

// TaskStatus is the state of a ProcessingTask.
//
// Transitions:
//
//	pending --claim--> processing --success--> completed
//	processing --failure, attempts < max--> pending (attempts+1)
//	processing --failure, attempts >= max--> failed (terminal)
type TaskStatus int

const (
	// TaskPending means the task is waiting to be claimed.
	TaskPending TaskStatus = iota + 1
	// TaskProcessing means a worker has claimed the task exclusively.
	TaskProcessing
	// TaskCompleted is a terminal success state.
	TaskCompleted
	// TaskFailed is a terminal state reached after exhausting retries.
	// Failed tasks are kept for operator inspection, never re-queued.
	TaskFailed
)

// String returns the status name used in logs and CLI output.
func (s TaskStatus) String() string {
	switch s {
	case TaskPending:
		return "pending"
	case TaskProcessing:
		return "processing"
	case TaskCompleted:
		return "completed"
	case TaskFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status permits no further transitions.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

// TaskTypeVectorize is the task type for embedding a document's chunks.
const TaskTypeVectorize = "vectorize"

// DefaultTaskPriority is assigned to tasks enqueued without an explicit priority.
const DefaultTaskPriority = 5

// DefaultMaxAttempts bounds retries of a ProcessingTask.
const DefaultMaxAttempts = 3

// ProcessingTask is the durable, retryable unit of work that drives chunks
// through embedding. Owned by the vectorize subsystem; created when chunks
// are persisted.
type ProcessingTask struct {
	Id           string // UUID
	TargetId     ID     // Document whose chunks should be vectorized
	TaskType     string
	Priority     int // Higher is claimed first
	Status       TaskStatus
	Attempts     int
	LastError    string
	ScheduledFor time.Time // Earliest time the task may be claimed
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
