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


package core

import "fmt"

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Content must not be empty
//   - Importance must be within [0,1]
//   - Every attached entity must pass ValidateEntity
//
// NOT validated (populated later in the pipeline):
//   - Sentiment (empty until extraction runs)
//   - Link fields (zero until wiring runs)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}
	if chunk.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}
	if chunk.Importance < 0 || chunk.Importance > 1 {
		return fmt.Errorf("%w: importance %f out of range", ErrInvalidChunk, chunk.Importance)
	}
	for i := range chunk.Entities {
		if err := ValidateEntity(&chunk.Entities[i]); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidChunk, err)
		}
	}
	return nil
}

// ValidateEntity validates an ExtractedEntity.
// Confidence must be strictly positive and at most 1; a non-positive
// confidence means the extractor mis-scored a rule.
func ValidateEntity(entity *ExtractedEntity) error {
	if entity == nil {
		return fmt.Errorf("%w: entity is nil", ErrInvalidEntity)
	}
	if entity.Value == "" {
		return fmt.Errorf("%w: value is empty", ErrInvalidEntity)
	}
	if entity.Confidence <= 0 || entity.Confidence > 1 {
		return fmt.Errorf("%w: %w (got %f)", ErrInvalidEntity, ErrZeroConfidence, entity.Confidence)
	}
	return nil
}

// ValidateRelationship validates a ChunkRelationship.
func ValidateRelationship(rel *ChunkRelationship) error {
	if rel == nil {
		return fmt.Errorf("%w: relationship is nil", ErrInvalidRelationship)
	}
	if rel.FromChunkId == rel.ToChunkId {
		return fmt.Errorf("%w: %w", ErrInvalidRelationship, ErrSelfReference)
	}
	if rel.Strength < 0 || rel.Strength > 1 {
		return fmt.Errorf("%w: %w (got %f)", ErrInvalidRelationship, ErrStrengthOutOfRange, rel.Strength)
	}
	return nil
}

// ValidateTask validates a ProcessingTask against the attempt bound.
func ValidateTask(task *ProcessingTask, maxAttempts int) error {
	if task == nil {
		return fmt.Errorf("%w: task is nil", ErrInvalidTask)
	}
	if task.Id == "" {
		return fmt.Errorf("%w: id is empty", ErrInvalidTask)
	}
	if task.Attempts > maxAttempts {
		return fmt.Errorf("%w: %w (%d > %d)", ErrInvalidTask, ErrAttemptsExceeded, task.Attempts, maxAttempts)
	}
	return nil
}
