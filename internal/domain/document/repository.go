package document

import (
	"context"

	"shelfkeeper/internal/domain/remote"
)

type Repository interface {
	Create(ctx context.Context, doc Document) error
	Get(ctx context.Context, coll remote.Collection, id string) (Document, error)
	// Update merges fields into the stored document.
	Update(ctx context.Context, coll remote.Collection, id string, fields remote.Fields) error
	Delete(ctx context.Context, coll remote.Collection, id string) error
	QueryByField(ctx context.Context, coll remote.Collection, businessID, field string, value any) ([]Document, error)
}
