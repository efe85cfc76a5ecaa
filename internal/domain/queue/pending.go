package queue

import (
	"encoding/json"
	"fmt"

	"shelfkeeper/internal/domain/entity"
	"shelfkeeper/internal/domain/item"
	"shelfkeeper/internal/domain/product"
	"shelfkeeper/internal/domain/remote"
)

// Pending is a queued operation together with its bookkeeping.
type Pending struct {
	// Timestamp is assigned at enqueue, in unix milliseconds, strictly
	// increasing within one manager.
	Timestamp int64
	Attempts  int
	LastError string
	Op        Operation
}

type envelope struct {
	Type      Kind          `json:"type"`
	ID        entity.Ref    `json:"id"`
	Timestamp int64         `json:"timestamp"`
	Attempts  int           `json:"attempts,omitempty"`
	LastError string        `json:"lastError,omitempty"`
	Data      remote.Fields `json:"data"`
}

func (p Pending) MarshalJSON() ([]byte, error) {
	if p.Op == nil {
		return nil, fmt.Errorf("encode pending %d: %w", p.Timestamp, ErrUnknownOperation)
	}
	return json.Marshal(envelope{
		Type:      p.Op.Kind(),
		ID:        p.Op.Target(),
		Timestamp: p.Timestamp,
		Attempts:  p.Attempts,
		LastError: p.LastError,
		Data:      p.Op.Fields(),
	})
}

func (p *Pending) UnmarshalJSON(data []byte) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode pending: %w", err)
	}

	op, err := decodeOperation(env.Type, env.ID, env.Data)
	if err != nil {
		return err
	}

	*p = Pending{
		Timestamp: env.Timestamp,
		Attempts:  env.Attempts,
		LastError: env.LastError,
		Op:        op,
	}
	return nil
}

func decodeOperation(kind Kind, ref entity.Ref, data remote.Fields) (Operation, error) {
	if data == nil {
		data = remote.Fields{}
	}

	switch kind {
	case KindAddItem:
		return AddItem{Ref: ref, Item: item.FromFields(ref, data)}, nil
	case KindUpdateItem:
		return UpdateItem{Ref: ref, Patch: item.PatchFromFields(data)}, nil
	case KindDeleteItem:
		return DeleteItem{Ref: ref}, nil
	case KindMarkItemThrown:
		return MarkItemThrown{Ref: ref, Stamp: item.DiscardStampFromFields(data)}, nil
	case KindAddProduct:
		return AddProduct{Ref: ref, Product: product.FromFields(ref, data)}, nil
	case KindUpdateProduct:
		return UpdateProduct{Ref: ref, Patch: product.PatchFromFields(data)}, nil
	case KindDeleteProduct:
		return DeleteProduct{Ref: ref}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, string(kind))
}
