package catalog

import "context"

// Store persists product records. Create fills in the backend-assigned ID.
// GetByID returns ErrNotFound when the record is absent. ListAll returns the
// full catalog with no ordering guarantee; catalogs are assumed small enough
// that unbounded retrieval is acceptable.
type Store interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	ListAll(ctx context.Context) ([]Product, error)
}
