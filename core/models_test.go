package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent_Deterministic(t *testing.T) {
	id1 := IDFromContent("the same content")
	id2 := IDFromContent("the same content")
	assert.Equal(t, id1, id2, "identical content must produce identical IDs")
}

func TestIDFromContent_DifferentContent(t *testing.T) {
	id1 := IDFromContent("content one")
	id2 := IDFromContent("content two")
	assert.NotEqual(t, id1, id2)
}

func TestIDFromContent_EmptyContent(t *testing.T) {
	// Empty content is still hashable; the ID just has to be stable.
	assert.Equal(t, IDFromContent(""), IDFromContent(""))
}

func TestTaskStatus_String(t *testing.T) {
	tests := []struct {
		status TaskStatus
		want   string
	}{
		{TaskPending, "pending"},
		{TaskProcessing, "processing"},
		{TaskCompleted, "completed"},
		{TaskFailed, "failed"},
		{TaskStatus(0), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.String())
	}
}

func TestTaskStatus_Terminal(t *testing.T) {
	assert.False(t, TaskPending.Terminal())
	assert.False(t, TaskProcessing.Terminal())
	assert.True(t, TaskCompleted.Terminal())
	assert.True(t, TaskFailed.Terminal())
}
