package queue

import (
	"shelfkeeper/internal/domain/entity"
	"shelfkeeper/internal/domain/item"
	"shelfkeeper/internal/domain/product"
	"shelfkeeper/internal/domain/remote"
)

// Kind is the wire tag of an operation.
type Kind string

const (
	KindAddItem        Kind = "addItem"
	KindUpdateItem     Kind = "updateItem"
	KindDeleteItem     Kind = "deleteItem"
	KindMarkItemThrown Kind = "markItemThrown"
	KindAddProduct     Kind = "addProduct"
	KindUpdateProduct  Kind = "updateProduct"
	KindDeleteProduct  Kind = "deleteProduct"
)

// Operation is a deferred write. The set of implementations is closed.
type Operation interface {
	Kind() Kind
	Target() entity.Ref
	Collection() remote.Collection
	// Fields is the compacted payload sent to the remote store.
	Fields() remote.Fields

	operation()
}

type AddItem struct {
	Ref  entity.Ref
	Item item.Item
}

type UpdateItem struct {
	Ref   entity.Ref
	Patch item.Patch
}

type DeleteItem struct {
	Ref entity.Ref
}

type MarkItemThrown struct {
	Ref   entity.Ref
	Stamp item.DiscardStamp
}

type AddProduct struct {
	Ref     entity.Ref
	Product product.Product
}

type UpdateProduct struct {
	Ref   entity.Ref
	Patch product.Patch
}

type DeleteProduct struct {
	Ref entity.Ref
}

func (AddItem) Kind() Kind        { return KindAddItem }
func (UpdateItem) Kind() Kind     { return KindUpdateItem }
func (DeleteItem) Kind() Kind     { return KindDeleteItem }
func (MarkItemThrown) Kind() Kind { return KindMarkItemThrown }
func (AddProduct) Kind() Kind     { return KindAddProduct }
func (UpdateProduct) Kind() Kind  { return KindUpdateProduct }
func (DeleteProduct) Kind() Kind  { return KindDeleteProduct }

func (o AddItem) Target() entity.Ref        { return o.Ref }
func (o UpdateItem) Target() entity.Ref     { return o.Ref }
func (o DeleteItem) Target() entity.Ref     { return o.Ref }
func (o MarkItemThrown) Target() entity.Ref { return o.Ref }
func (o AddProduct) Target() entity.Ref     { return o.Ref }
func (o UpdateProduct) Target() entity.Ref  { return o.Ref }
func (o DeleteProduct) Target() entity.Ref  { return o.Ref }

func (AddItem) Collection() remote.Collection        { return remote.CollectionItems }
func (UpdateItem) Collection() remote.Collection     { return remote.CollectionItems }
func (DeleteItem) Collection() remote.Collection     { return remote.CollectionItems }
func (MarkItemThrown) Collection() remote.Collection { return remote.CollectionItems }
func (AddProduct) Collection() remote.Collection     { return remote.CollectionProducts }
func (UpdateProduct) Collection() remote.Collection  { return remote.CollectionProducts }
func (DeleteProduct) Collection() remote.Collection  { return remote.CollectionProducts }

func (o AddItem) Fields() remote.Fields        { return o.Item.Fields().Compact() }
func (o UpdateItem) Fields() remote.Fields     { return o.Patch.Fields().Compact() }
func (DeleteItem) Fields() remote.Fields       { return remote.Fields{} }
func (o MarkItemThrown) Fields() remote.Fields { return o.Stamp.Fields().Compact() }
func (o AddProduct) Fields() remote.Fields     { return o.Product.Fields().Compact() }
func (o UpdateProduct) Fields() remote.Fields  { return o.Patch.Fields().Compact() }
func (DeleteProduct) Fields() remote.Fields    { return remote.Fields{} }

func (AddItem) operation()        {}
func (UpdateItem) operation()     {}
func (DeleteItem) operation()     {}
func (MarkItemThrown) operation() {}
func (AddProduct) operation()     {}
func (UpdateProduct) operation()  {}
func (DeleteProduct) operation()  {}

// IsCreate reports whether op creates a new document.
func IsCreate(op Operation) bool {
	switch op.(type) {
	case AddItem, AddProduct:
		return true
	}
	return false
}

// WithRef returns a creation with its target replaced; other operations
// are returned unchanged.
func WithRef(op Operation, ref entity.Ref) Operation {
	switch o := op.(type) {
	case AddItem:
		o.Ref = ref
		o.Item.ID = ref
		return o
	case AddProduct:
		o.Ref = ref
		o.Product.ID = ref
		return o
	}
	return op
}
