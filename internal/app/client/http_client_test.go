package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfkeeper/internal/app/server/api"
	"shelfkeeper/internal/app/server/api/http/middleware/auth"
	"shelfkeeper/internal/domain/entity"
	"shelfkeeper/internal/domain/remote"
	"shelfkeeper/internal/domain/user"
	"shelfkeeper/internal/infrastructure/storage"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(api.New(api.Deps{
		Documents: storage.NewMemoryRepository(),
		Secret:    testSecret,
	}, testLogger()))
	t.Cleanup(srv.Close)
	return srv
}

func newTestHTTPStore(t *testing.T, srv *httptest.Server, actor user.Actor) *HTTPStore {
	t.Helper()
	token, err := auth.IssueToken(testSecret, actor, 0)
	require.NoError(t, err)
	return NewHTTPStore(srv.URL, token, testLogger())
}

func TestHTTPStore_RoundTrip(t *testing.T) {
	srv := newTestServer(t)
	hs := newTestHTTPStore(t, srv, testActor())
	ctx := context.Background()

	require.NoError(t, hs.HealthCheck(ctx))

	id, err := hs.Create(ctx, remote.CollectionItems, remote.Fields{
		"productName": "Milk",
		"amount":      2.0,
		"area":        "bar",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, hs.Patch(ctx, remote.CollectionItems, entity.RemoteID(id), remote.Fields{"finished": true}))

	docs, err := hs.QueryByField(ctx, remote.CollectionItems, "businessId", "biz-1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, id, docs[0].ID)
	assert.True(t, docs[0].Fields.Bool("finished"))
	assert.Equal(t, "biz-1", docs[0].Fields.String("businessId"))

	docs, err = hs.QueryByField(ctx, remote.CollectionItems, "finished", true)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	require.NoError(t, hs.Delete(ctx, remote.CollectionItems, entity.RemoteID(id)))

	err = hs.Delete(ctx, remote.CollectionItems, entity.RemoteID(id))
	assert.ErrorIs(t, err, remote.ErrNotFound)
}

func TestHTTPStore_ErrorKinds(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	staff := testActor()
	staff.IsManager = false
	hs := newTestHTTPStore(t, srv, staff)

	_, err := hs.Create(ctx, remote.CollectionProducts, remote.Fields{"name": "Lime"})
	assert.ErrorIs(t, err, remote.ErrPermissionDenied)
	assert.Equal(t, remote.KindPolicy, remote.KindOf(err))

	_, err = hs.Create(ctx, remote.CollectionItems, remote.Fields{})
	assert.ErrorIs(t, err, remote.ErrRejected)

	anon := NewHTTPStore(srv.URL, "", testLogger())
	_, err = anon.QueryByField(ctx, remote.CollectionItems, "businessId", "biz-1")
	assert.ErrorIs(t, err, remote.ErrPermissionDenied)
}

func TestHTTPStore_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	hs := NewHTTPStore(addr, "", testLogger())
	err := hs.HealthCheck(context.Background())
	assert.ErrorIs(t, err, remote.ErrUnavailable)
	assert.True(t, remote.ShouldQueue(err))
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    error
		message string
	}{
		{name: "unauthorized", status: 401, body: `{"detail":"missing token"}`, want: remote.ErrPermissionDenied, message: "missing token"},
		{name: "forbidden", status: 403, body: `{"detail":"catalog changes require a manager"}`, want: remote.ErrPermissionDenied, message: "require a manager"},
		{name: "not found", status: 404, body: `{"error":"no such document"}`, want: remote.ErrNotFound, message: "no such document"},
		{name: "bad request", status: 400, body: `{}`, want: remote.ErrRejected, message: "статус 400"},
		{name: "conflict", status: 409, body: `not json`, want: remote.ErrRejected, message: "статус 409"},
		{name: "too many requests", status: 429, body: ``, want: remote.ErrUnavailable},
		{name: "server error", status: 503, body: ``, want: remote.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := statusError(tt.status, []byte(tt.body))
			assert.ErrorIs(t, err, tt.want)
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

func TestEncodeQueryValue(t *testing.T) {
	tests := []struct {
		in      any
		raw     string
		typeTag string
	}{
		{in: "bar", raw: "bar", typeTag: "string"},
		{in: true, raw: "true", typeTag: "bool"},
		{in: 3, raw: "3", typeTag: "number"},
		{in: 2.5, raw: "2.5", typeTag: "number"},
	}
	for _, tt := range tests {
		raw, typ := encodeQueryValue(tt.in)
		assert.Equal(t, tt.raw, raw)
		assert.Equal(t, tt.typeTag, typ)
	}
}
