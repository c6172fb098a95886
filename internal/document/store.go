// internal/document/store.go
package document

import "context"

// Store is keyed blob persistence for generated documents. Save overwrites
// an existing id; that is the defined behavior for identical-hash
// regeneration. Retrieve returns a DOCUMENT_NOT_FOUND error for unknown ids.
type Store interface {
	Save(ctx context.Context, id string, data []byte) error
	Retrieve(ctx context.Context, id string) ([]byte, error)
}
