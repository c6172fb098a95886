// internal/document/fsstore.go
package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	apperrors "docgen-service/internal/common/errors"
)

// FSStore keeps documents as <id>.pdf files in a directory.
type FSStore struct {
	dir string
}

func NewFSStore(dir string) *FSStore {
	return &FSStore{dir: dir}
}

func (s *FSStore) Save(ctx context.Context, id string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create document directory %s: %w", s.dir, err)
	}

	if err := os.WriteFile(s.path(id), data, 0o644); err != nil {
		return fmt.Errorf("failed to write document %s: %w", id, err)
	}
	return nil
}

func (s *FSStore) Retrieve(ctx context.Context, id string) ([]byte, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewDocumentNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to read document %s: %w", id, err)
	}
	return data, nil
}

func (s *FSStore) path(id string) string {
	return filepath.Join(s.dir, id+".pdf")
}
