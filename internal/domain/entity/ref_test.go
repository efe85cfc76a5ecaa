package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRef_RemoteID(t *testing.T) {
	id, ok := Remote("abc").RemoteID()
	assert.True(t, ok)
	assert.Equal(t, RemoteID("abc"), id)

	_, ok = NewLocal(1000).RemoteID()
	assert.False(t, ok)

	_, ok = Ref{}.RemoteID()
	assert.False(t, ok)
}

func TestNewLocal(t *testing.T) {
	ref := NewLocal(1000)
	assert.True(t, ref.IsLocal())
	assert.Equal(t, "offline-1000", ref.String())
}

func TestRef_JSON(t *testing.T) {
	tests := []struct {
		name string
		ref  Ref
		want string
	}{
		{name: "remote", ref: Remote("abc"), want: `{"remote":"abc"}`},
		{name: "local", ref: Local("offline-7"), want: `{"local":"offline-7"}`},
		{name: "zero", ref: Ref{}, want: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.ref)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))

			var got Ref
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, tt.ref, got)
		})
	}
}

func TestRef_UnmarshalLegacyString(t *testing.T) {
	var ref Ref
	require.NoError(t, json.Unmarshal([]byte(`"offline-42"`), &ref))
	assert.True(t, ref.IsLocal())

	require.NoError(t, json.Unmarshal([]byte(`"doc-1"`), &ref))
	assert.False(t, ref.IsLocal())
	assert.Equal(t, "doc-1", ref.String())
}

func TestRef_UnmarshalEmptyObject(t *testing.T) {
	var ref Ref
	err := json.Unmarshal([]byte(`{}`), &ref)
	assert.ErrorIs(t, err, ErrEmptyRef)
}
