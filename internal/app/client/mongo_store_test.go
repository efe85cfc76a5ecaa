package client

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"shelfkeeper/internal/domain/entity"
	"shelfkeeper/internal/domain/remote"
)

func TestDocumentFromBSON(t *testing.T) {
	oid := primitive.NewObjectID()
	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	doc := documentFromBSON(bson.M{
		"_id":         oid,
		"productName": "Milk",
		"amount":      int32(2),
		"openingTime": primitive.NewDateTimeFromTime(at),
		"tags":        bson.A{"a", int64(1)},
	})

	assert.Equal(t, oid.Hex(), doc.ID)
	assert.Equal(t, "Milk", doc.Fields.String("productName"))
	amount, ok := doc.Fields.Float("amount")
	assert.True(t, ok)
	assert.Equal(t, 2.0, amount)
	opened, ok := doc.Fields.Time("openingTime")
	assert.True(t, ok)
	assert.True(t, at.Equal(opened))
	assert.Equal(t, []any{"a", 1.0}, doc.Fields["tags"])
	assert.NotContains(t, doc.Fields, "_id")
}

func TestIDFilter(t *testing.T) {
	oid := primitive.NewObjectID()
	assert.Equal(t, bson.M{"_id": oid}, idFilter(entity.RemoteID(oid.Hex())))
	assert.Equal(t, bson.M{"_id": "plain-id"}, idFilter(entity.RemoteID("plain-id")))
}

func TestClassifyMongo(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "deadline",
			err:  context.DeadlineExceeded,
			want: remote.ErrUnavailable,
		},
		{
			name: "unauthorized",
			err:  mongo.CommandError{Code: mongoCodeUnauthorized, Message: "not authorized"},
			want: remote.ErrPermissionDenied,
		},
		{
			name: "validation",
			err:  mongo.CommandError{Code: mongoCodeDocumentValidation, Message: "Document failed validation"},
			want: remote.ErrRejected,
		},
		{
			name: "duplicate key",
			err: mongo.WriteException{WriteErrors: mongo.WriteErrors{
				{Code: 11000, Message: "E11000 duplicate key error"},
			}},
			want: remote.ErrRejected,
		},
		{
			name: "unknown",
			err:  errors.New("boom"),
			want: remote.ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classifyMongo("op", tt.err), tt.want)
		})
	}
}

func TestMongoStore_Integration(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := NewMongoStore(ctx, uri, "shelfkeeper_test", testLogger())
	require.NoError(t, err)
	defer store.Close(context.Background())
	if err := store.HealthCheck(ctx); err != nil {
		t.Skipf("mongo is not available: %v", err)
	}
	defer store.db.Drop(context.Background())

	id, err := store.Create(ctx, remote.CollectionItems, remote.Fields{"productName": "Milk", "businessId": "biz-1"})
	require.NoError(t, err)

	require.NoError(t, store.Patch(ctx, remote.CollectionItems, entity.RemoteID(id), remote.Fields{"amount": 3.0}))

	docs, err := store.QueryByField(ctx, remote.CollectionItems, "businessId", "biz-1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, id, docs[0].ID)
	assert.Equal(t, 3.0, docs[0].Fields["amount"])

	require.NoError(t, store.Delete(ctx, remote.CollectionItems, entity.RemoteID(id)))
	assert.ErrorIs(t, store.Delete(ctx, remote.CollectionItems, entity.RemoteID(id)), remote.ErrNotFound)
}
