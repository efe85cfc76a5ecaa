package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfkeeper/internal/domain/entity"
	"shelfkeeper/internal/domain/item"
	"shelfkeeper/internal/domain/product"
	"shelfkeeper/internal/domain/queue"
	"shelfkeeper/internal/domain/remote"
	"shelfkeeper/internal/domain/user"
)

func newTestCache() *Cache {
	return NewCache(NewMemoryStorage(), testActor(), testLogger())
}

func TestCache_Keys(t *testing.T) {
	c := newTestCache()
	assert.Equal(t, "cache:items:biz-1", c.Key(remote.CollectionItems))
	assert.Equal(t, "cache:products:biz-1:bar", c.Key(remote.CollectionProducts))
	assert.Equal(t, "cache:fridges:biz-1", c.Key(remote.CollectionFridges))

	noDept := NewCache(NewMemoryStorage(), user.Actor{UserID: "u", BusinessID: "biz-2"}, testLogger())
	assert.Equal(t, "cache:products:biz-2", noDept.Key(remote.CollectionProducts))
}

func TestCache_EmptySnapshot(t *testing.T) {
	items, err := newTestCache().Items(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCache_ApplyOptimistic_ItemLifecycle(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()
	ref := entity.Local("offline-1000")

	require.NoError(t, c.ApplyOptimistic(ctx, queue.AddItem{Ref: ref, Item: item.Item{ProductName: "Milk", Amount: 2}}))

	amount := 1.5
	require.NoError(t, c.ApplyOptimistic(ctx, queue.UpdateItem{Ref: ref, Patch: item.Patch{Amount: &amount}}))

	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, c.ApplyOptimistic(ctx, queue.MarkItemThrown{Ref: ref, Stamp: item.DiscardStamp{At: at, By: "u-1", Reason: item.ReasonExpired}}))

	items, err := c.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, ref, items[0].ID)
	assert.Equal(t, 1.5, items[0].Amount)
	assert.True(t, items[0].Discarded)
	assert.True(t, items[0].IsThrown)
	assert.Equal(t, item.ReasonExpired, items[0].DiscardReason)

	require.NoError(t, c.ApplyOptimistic(ctx, queue.DeleteItem{Ref: ref}))
	items, err = c.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCache_ApplyOptimistic_Products(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()
	ref := entity.Remote("p-1")

	require.NoError(t, c.ApplyOptimistic(ctx, queue.AddProduct{Ref: ref, Product: product.Product{Name: "Milk", ShelfLifeDays: 3}}))
	days := 5
	require.NoError(t, c.ApplyOptimistic(ctx, queue.UpdateProduct{Ref: ref, Patch: product.Patch{ShelfLifeDays: &days}}))

	products, err := c.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 5, products[0].ShelfLifeDays)

	require.NoError(t, c.ApplyOptimistic(ctx, queue.DeleteProduct{Ref: ref}))
	products, err = c.Products(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestCache_ResolveRefs(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	require.NoError(t, c.SetItems(ctx, []item.Item{
		{ID: entity.Local("offline-1000"), ProductName: "Milk"},
		{ID: entity.Local("offline-1001"), ProductName: "Lime"},
		{ID: entity.Remote("i-9"), ProductName: "Rum"},
	}))

	require.NoError(t, c.ResolveRefs(ctx, map[string]string{"offline-1000": "i-1"}))

	items, err := c.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, entity.Remote("i-1"), items[0].ID)
	assert.Equal(t, entity.Local("offline-1001"), items[1].ID)
	assert.Equal(t, entity.Remote("i-9"), items[2].ID)
}

func TestCache_FridgeNames(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()
	require.NoError(t, c.SetFridges(ctx, []Fridge{{ID: "f-1", Name: "Bar fridge"}}))

	assert.Equal(t, map[string]string{"f-1": "Bar fridge"}, c.FridgeNames(ctx))
}
