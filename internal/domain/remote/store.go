package remote

import (
	"context"

	"shelfkeeper/internal/domain/entity"
)

// Store контракт удаленного хранилища документов.
//
// Patch и Delete принимают только entity.RemoteID: операции над
// сущностями, которые еще не были созданы удаленно, не компилируются.
type Store interface {
	Create(ctx context.Context, coll Collection, fields Fields) (string, error)
	Patch(ctx context.Context, coll Collection, id entity.RemoteID, fields Fields) error
	Delete(ctx context.Context, coll Collection, id entity.RemoteID) error
	QueryByField(ctx context.Context, coll Collection, field string, value any) ([]Document, error)
}
