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

import "errors"

// Domain validation errors
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidEntity indicates an ExtractedEntity failed validation.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInvalidRelationship indicates a ChunkRelationship failed validation.
	ErrInvalidRelationship = errors.New("invalid relationship")

	// ErrInvalidTask indicates a ProcessingTask failed validation.
	ErrInvalidTask = errors.New("invalid processing task")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrZeroConfidence indicates an entity with confidence <= 0.
	// Entities must never be attached with zero confidence; this is a
	// programming error in the extractor, not an input error.
	ErrZeroConfidence = errors.New("entity confidence must be positive")

	// ErrStrengthOutOfRange indicates a relationship strength outside [0,1].
	ErrStrengthOutOfRange = errors.New("relationship strength must be in [0,1]")

	// ErrSelfReference indicates a relationship from a chunk to itself.
	ErrSelfReference = errors.New("relationship cannot reference its own chunk")

	// ErrAttemptsExceeded indicates a task's attempts exceed the configured bound.
	ErrAttemptsExceeded = errors.New("task attempts exceed maximum")

	// ErrCorruptVector indicates a stored vector blob could not be decoded.
	ErrCorruptVector = errors.New("corrupt embedding vector")
)
