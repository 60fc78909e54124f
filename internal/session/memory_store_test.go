package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCreatesFreshSession(t *testing.T) {
	store := NewMemoryStore(30 * time.Minute)

	sess, created := store.Resolve(context.Background(), "")
	require.True(t, created)
	require.NotEmpty(t, sess.ID)
	assert.Empty(t, sess.ConversationHistory)
	assert.Empty(t, sess.RecentRecommendations)
	assert.Equal(t, 1, store.Len())
}

func TestResolveReusesExistingSession(t *testing.T) {
	store := NewMemoryStore(30 * time.Minute)

	first, _ := store.Resolve(context.Background(), "")
	first.AppendTurn(RoleUser, "hi")

	second, created := store.Resolve(context.Background(), first.ID)
	require.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, second.ConversationHistory, 1)
	assert.Equal(t, 1, store.Len())
}

func TestResolveUnknownIDMintsNewSession(t *testing.T) {
	store := NewMemoryStore(30 * time.Minute)

	sess, created := store.Resolve(context.Background(), "no-such-session")
	require.True(t, created)
	assert.NotEqual(t, "no-such-session", sess.ID)
}

func TestResolveRefreshesLastUpdated(t *testing.T) {
	store := NewMemoryStore(30 * time.Minute)

	sess, _ := store.Resolve(context.Background(), "")
	sess.LastUpdated = time.Now().Add(-29 * time.Minute)

	again, _ := store.Resolve(context.Background(), sess.ID)
	assert.WithinDuration(t, time.Now(), again.LastUpdated, time.Second)
}

func TestSweepExpiredEvictsIdleSessions(t *testing.T) {
	store := NewMemoryStore(30 * time.Minute)
	now := time.Now()

	stale, _ := store.Resolve(context.Background(), "")
	stale.LastUpdated = now.Add(-31 * time.Minute)

	fresh, _ := store.Resolve(context.Background(), "")
	fresh.LastUpdated = now.Add(-29 * time.Minute)

	removed := store.SweepExpired(context.Background(), now)
	assert.Equal(t, 1, removed)

	_, created := store.Resolve(context.Background(), stale.ID)
	assert.True(t, created, "stale session should have been evicted")

	_, created = store.Resolve(context.Background(), fresh.ID)
	assert.False(t, created, "fresh session should have been retained")
}

func TestDelete(t *testing.T) {
	store := NewMemoryStore(30 * time.Minute)

	sess, _ := store.Resolve(context.Background(), "")
	store.Delete(context.Background(), sess.ID)
	assert.Equal(t, 0, store.Len())
}
