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

// Package vectorize drives chunks through embedding.
//
// The Worker claims pending tasks from the durable queue, embeds each
// target document's chunks in bounded sub-batches with a pause between
// provider calls, persists vectors and search entries, and moves tasks
// through the pending/processing/completed/failed state machine. A failure
// on one task re-queues or terminally fails that task only; sibling tasks
// are unaffected. An interrupted batch releases every still-claimed task
// back to pending without consuming an attempt, so nothing is ever
// stranded in processing.
package vectorize
