package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homefinder/internal/cache"
	"homefinder/internal/model"
)

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemorySessionStore()
	store.now = func() time.Time { return now }

	session := Session{ID: "abc", UserID: 3, Role: model.RoleSeller, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, store.Create(ctx, session))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, session, *got)

	now = now.Add(2 * time.Hour)
	got, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemorySessionStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	require.NoError(t, store.Create(ctx, Session{ID: "abc", UserID: 1, ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, store.Delete(ctx, "abc"))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisSessionStore(t *testing.T) {
	srv := miniredis.RunT(t)
	client := cache.New(srv.Addr(), "", 0)
	defer client.Close()
	store := NewRedisSessionStore(client)
	ctx := context.Background()

	session := Session{ID: "xyz", UserID: 9, Role: model.RoleAdmin, ExpiresAt: time.Now().Add(time.Hour).UTC().Truncate(time.Second)}
	require.NoError(t, store.Create(ctx, session))
	assert.True(t, srv.Exists("session:xyz"))

	got, err := store.Get(ctx, "xyz")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint(9), got.UserID)
	assert.True(t, session.ExpiresAt.Equal(got.ExpiresAt))

	srv.FastForward(2 * time.Hour)
	got, err = store.Get(ctx, "xyz")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisSessionStore_SurfacesRedisErrors(t *testing.T) {
	srv := miniredis.RunT(t)
	client := cache.New(srv.Addr(), "", 0)
	defer client.Close()
	store := NewRedisSessionStore(client)
	ctx := context.Background()

	srv.Close()

	err := store.Create(ctx, Session{ID: "s1", UserID: 1, ExpiresAt: time.Now().Add(time.Hour)})
	assert.Error(t, err)

	got, err := store.Get(ctx, "s1")
	assert.Error(t, err)
	assert.Nil(t, got)

	assert.Error(t, store.Delete(ctx, "s1"))
}

func TestRedisSessionStore_Disabled(t *testing.T) {
	store := NewRedisSessionStore(cache.New("", "", 0))

	assert.Error(t, store.Create(context.Background(), Session{ID: "s1"}))
	_, err := store.Get(context.Background(), "s1")
	assert.Error(t, err)
}
