package item

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfkeeper/internal/domain/user"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedEngine() *Engine {
	return NewEngine(WithClock(func() time.Time { return testNow }))
}

func validRequest() CreateRequest {
	return CreateRequest{
		ProductID:     "p-1",
		ProductName:   "Milk",
		Unit:          UnitKg,
		Amount:        2,
		Area:          "bar",
		BusinessID:    "biz-1",
		UserID:        "u-1",
		FridgeID:      "f-1",
		ShelfLifeDays: 5,
	}
}

var actor = user.Actor{UserID: "u-2", DisplayName: "Anna", BusinessID: "biz-1"}

func TestEngine_Create(t *testing.T) {
	e := fixedEngine()

	it, err := e.Create(validRequest())
	require.NoError(t, err)

	assert.Equal(t, testNow, it.OpeningTime)
	assert.Equal(t, testNow.Add(5*24*time.Hour), it.ExpiryTime)
	assert.Equal(t, StateActive, it.State())
	assert.False(t, it.Discarded)
	assert.False(t, it.Finished)
	assert.False(t, it.IsThrown)
	assert.True(t, it.ID.IsZero())
}

func TestEngine_Create_DefaultUnit(t *testing.T) {
	req := validRequest()
	req.Unit = ""

	it, err := fixedEngine().Create(req)
	require.NoError(t, err)
	assert.Equal(t, UnitUnits, it.Unit)
}

func TestEngine_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateRequest)
		field  string
	}{
		{name: "empty product name", mutate: func(r *CreateRequest) { r.ProductName = " " }, field: "productName"},
		{name: "empty area", mutate: func(r *CreateRequest) { r.Area = "" }, field: "area"},
		{name: "empty business", mutate: func(r *CreateRequest) { r.BusinessID = "" }, field: "businessId"},
		{name: "empty user", mutate: func(r *CreateRequest) { r.UserID = "" }, field: "userId"},
		{name: "NaN amount", mutate: func(r *CreateRequest) { r.Amount = math.NaN() }, field: "amount"},
		{name: "infinite amount", mutate: func(r *CreateRequest) { r.Amount = math.Inf(1) }, field: "amount"},
		{name: "negative shelf life", mutate: func(r *CreateRequest) { r.ShelfLifeDays = -1 }, field: "shelfLifeDays"},
		{name: "unknown unit", mutate: func(r *CreateRequest) { r.Unit = "litre" }, field: "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			it, err := fixedEngine().Create(req)
			require.Error(t, err)
			assert.Nil(t, it)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestEngine_Discard(t *testing.T) {
	e := fixedEngine()
	it, err := e.Create(validRequest())
	require.NoError(t, err)

	qty := 1.5
	got, err := e.Discard(it, actor, DiscardOptions{Quantity: &qty, Reason: ReasonDamaged})
	require.NoError(t, err)
	assert.Same(t, it, got)

	assert.True(t, it.Discarded)
	assert.True(t, it.IsThrown)
	require.NotNil(t, it.DiscardedAt)
	assert.Equal(t, testNow, *it.DiscardedAt)
	assert.Equal(t, "u-2", it.DiscardedBy)
	assert.Equal(t, "Anna", it.DiscardedByName)
	require.NotNil(t, it.DiscardedQuantity)
	assert.Equal(t, 1.5, *it.DiscardedQuantity)
	assert.Equal(t, ReasonDamaged, it.DiscardReason)
	assert.Equal(t, StateDiscarded, it.State())
}

func TestEngine_Discard_NonPositiveQuantityNotRecorded(t *testing.T) {
	e := fixedEngine()
	it, err := e.Create(validRequest())
	require.NoError(t, err)

	zero := 0.0
	_, err = e.Discard(it, actor, DiscardOptions{Quantity: &zero})
	require.NoError(t, err)
	assert.Nil(t, it.DiscardedQuantity)
	assert.Empty(t, it.DiscardReason)
	assert.Equal(t, it.Amount, it.DiscardedAmount())
}

func TestEngine_Discard_NonFiniteQuantityNotRecorded(t *testing.T) {
	e := fixedEngine()

	for _, q := range []float64{math.NaN(), math.Inf(1)} {
		it, err := e.Create(validRequest())
		require.NoError(t, err)

		_, err = e.Discard(it, actor, DiscardOptions{Quantity: &q})
		require.NoError(t, err)
		assert.Nil(t, it.DiscardedQuantity)
	}
}

func TestEngine_Discard_InvalidReason(t *testing.T) {
	e := fixedEngine()
	it, err := e.Create(validRequest())
	require.NoError(t, err)

	_, err = e.Discard(it, actor, DiscardOptions{Reason: "stolen"})
	require.ErrorIs(t, err, ErrValidation)
	assert.False(t, it.Discarded)
	assert.Nil(t, it.DiscardedAt)
}

func TestEngine_Finish(t *testing.T) {
	e := fixedEngine()
	it, err := e.Create(validRequest())
	require.NoError(t, err)

	_, err = e.Finish(it, actor)
	require.NoError(t, err)
	assert.True(t, it.Finished)
	require.NotNil(t, it.FinishedAt)
	assert.Equal(t, testNow, *it.FinishedAt)
	assert.Equal(t, "u-2", it.FinishedBy)
	assert.Equal(t, "Anna", it.FinishedByName)
	assert.False(t, it.Discarded)
}

func TestEngine_TerminalGuard(t *testing.T) {
	e := fixedEngine()
	it, err := e.Create(validRequest())
	require.NoError(t, err)

	_, err = e.Discard(it, actor, DiscardOptions{Reason: ReasonExpired})
	require.NoError(t, err)
	before := *it

	_, err = e.Finish(it, actor)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTerminal)

	var serr *StateError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "finish", serr.Op)
	assert.Equal(t, StateDiscarded, serr.State)

	assert.Equal(t, before, *it)
	assert.False(t, it.Finished)

	_, err = e.Discard(it, actor, DiscardOptions{})
	assert.ErrorIs(t, err, ErrTerminal)
}

func TestEngine_TerminalGuard_AfterFinish(t *testing.T) {
	e := fixedEngine()
	it, err := e.Create(validRequest())
	require.NoError(t, err)

	_, err = e.Finish(it, actor)
	require.NoError(t, err)
	before := *it

	_, err = e.Discard(it, actor, DiscardOptions{Reason: ReasonOther})
	assert.ErrorIs(t, err, ErrTerminal)
	assert.Equal(t, before, *it)
}

func TestEngine_NameFallsBackToUserID(t *testing.T) {
	e := fixedEngine()
	it, err := e.Create(validRequest())
	require.NoError(t, err)

	_, err = e.Finish(it, user.Actor{UserID: "u-9"})
	require.NoError(t, err)
	assert.Equal(t, "u-9", it.FinishedByName)
}
