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

// Package storage defines the persistence abstractions for documents,
// chunks, relationships, embedding vectors, and the durable task queue.
//
// The interfaces here are implemented by storage/badger. Business logic
// depends only on this package, which keeps the pipeline testable against
// the in-memory backend and leaves room for alternative stores.
//
// Serialization uses the MUS binary format via hand-composed serializers
// built from mus-go primitives. Timestamps are stored as microsecond Unix
// values; the zero time round-trips as a sentinel so IsZero survives
// storage.
package storage
