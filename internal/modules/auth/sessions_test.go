package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_Lifecycle(t *testing.T) {
	clock := newFakeClock()
	store := NewSessionStore(newTestDB(t), 24*time.Hour).WithClock(clock.Now)
	ctx := context.Background()

	token, sess, err := store.Create(ctx, testEmail, RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, token, 64)
	assert.NotEqual(t, token, sess.TokenHash)
	assert.Equal(t, clock.Now().Add(24*time.Hour), sess.ExpiresAt)

	got, err := store.Lookup(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, testEmail, got.Email)

	n, err := store.ActiveCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, store.Delete(ctx, token))
	_, err = store.Lookup(ctx, token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionStore_Expiry(t *testing.T) {
	clock := newFakeClock()
	store := NewSessionStore(newTestDB(t), time.Hour).WithClock(clock.Now)
	ctx := context.Background()

	token, _, err := store.Create(ctx, testEmail, RoleAdmin)
	require.NoError(t, err)

	clock.Advance(time.Hour + time.Second)
	_, err = store.Lookup(ctx, token)
	assert.ErrorIs(t, err, ErrNoSession)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)
}

func TestSessionStore_TouchesLastSeen(t *testing.T) {
	clock := newFakeClock()
	store := NewSessionStore(newTestDB(t), 24*time.Hour).WithClock(clock.Now)
	ctx := context.Background()

	token, sess, err := store.Create(ctx, testEmail, RoleAdmin)
	require.NoError(t, err)

	clock.Advance(10 * time.Second)
	got, err := store.Lookup(ctx, token)
	require.NoError(t, err)
	assert.True(t, got.LastSeenAt.Equal(sess.LastSeenAt))

	clock.Advance(2 * time.Minute)
	got, err = store.Lookup(ctx, token)
	require.NoError(t, err)
	assert.True(t, got.LastSeenAt.Equal(clock.Now()))
}

func TestSessionStore_UnknownToken(t *testing.T) {
	store := NewSessionStore(newTestDB(t), time.Hour)
	ctx := context.Background()

	_, err := store.Lookup(ctx, "")
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = store.Lookup(ctx, "deadbeef")
	assert.ErrorIs(t, err, ErrNoSession)
	assert.NoError(t, store.Delete(ctx, "deadbeef"))
}
