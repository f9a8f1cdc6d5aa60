// Package blob stores step attachments (itinerary images) outside the database.
package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store persists binary attachments and returns a stable reference.
type Store interface {
	Save(ctx context.Context, name string, content []byte) (string, error)
}

// FSStore writes attachments under a local directory, one file per reference.
type FSStore struct {
	dir string
}

// NewFSStore ensures the directory exists and returns the store.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("platform/blob: mkdir: %w", err)
	}
	return &FSStore{dir: dir}, nil
}

// Save writes the content under a generated reference. The original file name
// only contributes its extension.
func (s *FSStore) Save(_ context.Context, name string, content []byte) (string, error) {
	ref := uuid.NewString() + filepath.Ext(name)
	if err := os.WriteFile(filepath.Join(s.dir, ref), content, 0o644); err != nil {
		return "", fmt.Errorf("platform/blob: write: %w", err)
	}
	return ref, nil
}
