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

// Package ai defines the embedding-provider abstraction used by the
// indexing subsystem.
//
// The Embedder interface is the only AI capability the pipeline needs.
// It is passed explicitly into the components that embed text, which keeps
// business logic testable against the deterministic double in ai/mock while
// production wiring uses ai/openai against any OpenAI-compatible API.
package ai
