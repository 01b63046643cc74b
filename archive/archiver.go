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

package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sievedata/sift/core"
)

// ErrDirectoryRequired is returned when a filesystem archiver is created
// without a target directory.
var ErrDirectoryRequired = errors.New("archive directory required")

// Archiver persists the raw text a document was built from.
type Archiver interface {
	Archive(ctx context.Context, doc *core.Document, text string) error
}

// Filesystem writes one file per document under a base directory,
// named by the document's content-addressed ID. Re-archiving the same
// document overwrites the previous copy.
type Filesystem struct {
	dir string
}

var _ Archiver = (*Filesystem)(nil)

// NewFilesystem creates a filesystem archiver rooted at dir, creating the
// directory if needed.
func NewFilesystem(dir string) (*Filesystem, error) {
	if dir == "" {
		return nil, ErrDirectoryRequired
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}
	return &Filesystem{dir: dir}, nil
}

func (f *Filesystem) Archive(ctx context.Context, doc *core.Document, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(f.dir, fmt.Sprintf("%d.txt", doc.Id))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("archiving document %d: %w", doc.Id, err)
	}
	return nil
}

// Noop discards archived text. Used when no archive directory is configured.
type Noop struct{}

var _ Archiver = Noop{}

func (Noop) Archive(ctx context.Context, doc *core.Document, text string) error {
	return nil
}
