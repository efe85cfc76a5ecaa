package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shelfkeeper/internal/domain/entity"
	"shelfkeeper/internal/domain/remote"
)

func TestRefresher_Refresh(t *testing.T) {
	ctx := context.Background()
	rs := &MockRemote{}
	kitchen := milkDoc("p-2")
	kitchen.Fields["area"] = "kitchen"

	rs.On("QueryByField", mock.Anything, remote.CollectionItems, "businessId", "biz-1").Return([]remote.Document{
		{ID: "i-1", Fields: remote.Fields{"productName": "Milk", "area": "bar", "businessId": "biz-1", "amount": 1.0}},
	}, nil)
	rs.On("QueryByField", mock.Anything, remote.CollectionProducts, "businessId", "biz-1").Return([]remote.Document{
		milkDoc("p-1"), kitchen,
	}, nil)
	rs.On("QueryByField", mock.Anything, remote.CollectionFridges, "businessId", "biz-1").Return([]remote.Document{
		{ID: "f-1", Fields: remote.Fields{"name": "Bar fridge", "area": "bar"}},
	}, nil)
	rs.On("QueryByField", mock.Anything, remote.CollectionCategories, "businessId", "biz-1").
		Return(nil, remote.ErrUnavailable)

	cache := newTestCache()
	r := NewRefresher(rs, cache, testActor(), testLogger())

	err := r.Refresh(ctx)
	assert.ErrorIs(t, err, remote.ErrUnavailable)

	items, err := cache.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, entity.Remote("i-1"), items[0].ID)

	products, err := cache.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1, "products of other departments are filtered out")
	assert.Equal(t, "p-1", products[0].ID.String())

	assert.Equal(t, map[string]string{"f-1": "Bar fridge"}, cache.FridgeNames(ctx))
	rs.AssertExpectations(t)
}

func TestRefresher_OnlyRequestedCollections(t *testing.T) {
	rs := &MockRemote{}
	rs.On("QueryByField", mock.Anything, remote.CollectionItems, "businessId", "biz-1").Return([]remote.Document{}, nil)

	r := NewRefresher(rs, newTestCache(), testActor(), testLogger())
	require.NoError(t, r.Refresh(context.Background(), remote.CollectionItems, remote.CollectionUsers))

	rs.AssertNumberOfCalls(t, "QueryByField", 1)
}
