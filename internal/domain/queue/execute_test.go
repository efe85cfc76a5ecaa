package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shelfkeeper/internal/domain/entity"
	"shelfkeeper/internal/domain/item"
	"shelfkeeper/internal/domain/remote"
)

func TestExecute_Dispatch(t *testing.T) {
	ctx := context.Background()
	store := &MockRemote{}
	store.On("Create", mock.Anything, remote.CollectionItems, mock.Anything).Return("doc-1", nil).Once()
	store.On("Delete", mock.Anything, remote.CollectionProducts, entity.RemoteID("p-1")).Return(nil).Once()

	id, err := Execute(ctx, store, AddItem{Item: item.Item{ProductName: "Milk"}})
	require.NoError(t, err)
	assert.Equal(t, "doc-1", id)

	id, err = Execute(ctx, store, DeleteProduct{Ref: entity.Remote("p-1")})
	require.NoError(t, err)
	assert.Empty(t, id)

	store.AssertExpectations(t)
}

func TestExecute_LocalTargetNeverReachesStore(t *testing.T) {
	store := &MockRemote{}

	_, err := Execute(context.Background(), store, DeleteItem{Ref: entity.Local("offline-5")})
	assert.ErrorIs(t, err, ErrLocalTarget)

	_, err = Execute(context.Background(), store, UpdateItem{})
	assert.ErrorIs(t, err, ErrEmptyTarget)

	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Patch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_RecoversPanic(t *testing.T) {
	store := &MockRemote{}
	store.On("Patch", mock.Anything, remote.CollectionItems, entity.RemoteID("i-1"), mock.Anything).
		Run(func(mock.Arguments) { panic("driver exploded") })

	_, err := Execute(context.Background(), store, MarkItemThrown{Ref: entity.Remote("i-1")})
	assert.ErrorIs(t, err, ErrOperationPanic)
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "unavailable", err: remote.ErrUnavailable, want: true},
		{name: "unknown", err: errors.New("connection reset"), want: true},
		{name: "permission", err: remote.ErrPermissionDenied, want: true},
		{name: "rejected", err: remote.ErrRejected, want: false},
		{name: "not found", err: remote.ErrNotFound, want: false},
		{name: "panic", err: ErrOperationPanic, want: false},
		{name: "local target", err: ErrLocalTarget, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Retryable(tt.err))
		})
	}
}
