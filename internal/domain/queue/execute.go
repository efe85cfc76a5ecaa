package queue

import (
	"context"
	"fmt"

	"shelfkeeper/internal/domain/entity"
	"shelfkeeper/internal/domain/remote"
)

// Execute runs op against the remote store and returns the id of a created
// document. Panics are reported as ErrOperationPanic.
func Execute(ctx context.Context, store remote.Store, op Operation) (created string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrOperationPanic, r)
		}
	}()

	switch o := op.(type) {
	case AddItem:
		return store.Create(ctx, o.Collection(), o.Fields())
	case AddProduct:
		return store.Create(ctx, o.Collection(), o.Fields())
	case UpdateItem:
		return "", patch(ctx, store, o.Ref, o.Collection(), o.Fields())
	case MarkItemThrown:
		return "", patch(ctx, store, o.Ref, o.Collection(), o.Fields())
	case UpdateProduct:
		return "", patch(ctx, store, o.Ref, o.Collection(), o.Fields())
	case DeleteItem:
		return "", del(ctx, store, o.Ref, o.Collection())
	case DeleteProduct:
		return "", del(ctx, store, o.Ref, o.Collection())
	}
	return "", fmt.Errorf("%w: %T", ErrUnknownOperation, op)
}

func patch(ctx context.Context, store remote.Store, ref entity.Ref, coll remote.Collection, fields remote.Fields) error {
	id, err := remoteID(ref)
	if err != nil {
		return err
	}
	return store.Patch(ctx, coll, id, fields)
}

func del(ctx context.Context, store remote.Store, ref entity.Ref, coll remote.Collection) error {
	id, err := remoteID(ref)
	if err != nil {
		return err
	}
	return store.Delete(ctx, coll, id)
}

func remoteID(ref entity.Ref) (entity.RemoteID, error) {
	if id, ok := ref.RemoteID(); ok {
		return id, nil
	}
	if ref.IsLocal() {
		return "", ErrLocalTarget
	}
	return "", ErrEmptyTarget
}

// Retryable reports whether a failed direct write should be queued.
// Errors caused by the operation itself never are.
func Retryable(err error) bool {
	if classify(err) == remote.KindPermanent {
		return false
	}
	return remote.ShouldQueue(err)
}
