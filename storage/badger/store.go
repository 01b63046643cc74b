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
	"log/slog"
	"time"

	"github.com/sievedata/sift/storage"
)

// Store implements storage.Store on a Badger backend.
type Store struct {
	backend     *Backend
	logger      *slog.Logger
	maxAttempts int
	now         func() time.Time
}

var _ storage.Store = (*Store)(nil)

type Option func(*Store) error

// WithLogger sets the logger used by the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		s.logger = logger.With("component", "storage")
		return nil
	}
}

// WithMaxAttempts overrides the retry bound applied when failing tasks.
func WithMaxAttempts(max int) Option {
	return func(s *Store) error {
		s.maxAttempts = max
		return nil
	}
}

// NewStore opens a store backed by the database at path.
func NewStore(path string, opts ...Option) (*Store, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return newStore(backend, opts...)
}

// NewMemoryStore creates an in-memory store for testing.
func NewMemoryStore(opts ...Option) (*Store, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	return newStore(backend, opts...)
}

func newStore(backend *Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend:     backend,
		logger:      slog.Default().With("component", "storage"),
		maxAttempts: defaultMaxAttempts,
		now:         time.Now,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			backend.Close()
			return nil, err
		}
	}
	return s, nil
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
