package remote

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		want  Kind
		queue bool
	}{
		{name: "nil", err: nil, want: KindNone},
		{name: "unavailable", err: ErrUnavailable, want: KindTransient, queue: true},
		{name: "wrapped unavailable", err: fmt.Errorf("create: %w", ErrUnavailable), want: KindTransient, queue: true},
		{name: "deadline", err: context.DeadlineExceeded, want: KindTransient, queue: true},
		{name: "unknown", err: errors.New("boom"), want: KindTransient, queue: true},
		{name: "permission", err: fmt.Errorf("patch: %w", ErrPermissionDenied), want: KindPolicy, queue: true},
		{name: "rejected", err: ErrRejected, want: KindPermanent},
		{name: "not found", err: ErrNotFound, want: KindPermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
			assert.Equal(t, tt.queue, ShouldQueue(tt.err))
		})
	}
}

func TestFields_Compact(t *testing.T) {
	var missing *string
	area := "bar"
	f := Fields{
		"productName": "Milk",
		"fridgeId":    nil,
		"area":        &area,
		"note":        missing,
	}

	got := f.Compact()
	assert.Len(t, got, 2)
	assert.Contains(t, got, "productName")
	assert.Contains(t, got, "area")
	assert.NotContains(t, got, "fridgeId")
	assert.NotContains(t, got, "note")
	assert.True(t, f.HasNil())
	assert.False(t, got.HasNil())
}

func TestCollection_Validate(t *testing.T) {
	for _, c := range Collections() {
		assert.NoError(t, c.Validate())
	}
	assert.ErrorIs(t, Collection("orders").Validate(), ErrUnknownCollection)
}
