package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gasfinder/gasfinder/internal/auth"
	"github.com/gasfinder/gasfinder/internal/session"
	"github.com/gasfinder/gasfinder/internal/stations"
)

type noopFetcher struct{}

func (noopFetcher) All(_ context.Context) ([]stations.Station, error)              { return nil, nil }
func (noopFetcher) Search(_ context.Context, _ string) ([]stations.Station, error) { return nil, nil }
func (noopFetcher) Nearby(_ context.Context, _, _ float64) ([]stations.Station, error) {
	return nil, nil
}

func newStore(ttl time.Duration) *session.Store {
	return session.NewStore(session.StoreConfig{
		Fetcher: noopFetcher{},
		TTL:     ttl,
		Logger:  zerolog.Nop(),
	})
}

func TestStore_CreateAndGet(t *testing.T) {
	store := newStore(time.Minute)

	created := store.Create()
	require.NotEmpty(t, created.ID)
	require.NotNil(t, created.Coordinator)

	got, ok := store.Get(created.ID)
	require.True(t, ok)
	assert.Same(t, created, got)

	_, ok = store.Get("unknown")
	assert.False(t, ok)
}

func TestStore_SessionsAreIndependent(t *testing.T) {
	store := newStore(time.Minute)

	a := store.Create()
	b := store.Create()

	a.Coordinator.JoinChat(stations.Station{ID: 1})
	require.True(t, a.Coordinator.CompleteSignUp())

	assert.True(t, a.Coordinator.LoggedIn())
	assert.False(t, b.Coordinator.LoggedIn())
}

func TestStore_AuthSession(t *testing.T) {
	store := newStore(time.Minute)
	sess := store.Create()

	assert.Nil(t, sess.Auth())

	sess.SetAuth(&auth.Session{Username: "ada", Token: "tok"})
	require.NotNil(t, sess.Auth())
	assert.Equal(t, "ada", sess.Auth().Username)
}

func TestStore_JanitorSweepsIdleSessions(t *testing.T) {
	store := session.NewStore(session.StoreConfig{
		Fetcher:       noopFetcher{},
		TTL:           10 * time.Millisecond,
		SweepInterval: 5 * time.Millisecond,
		Logger:        zerolog.Nop(),
	})

	sess := store.Create()
	require.Equal(t, 1, store.Count())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store.StartJanitor(ctx)

	// Polling Get would refresh the idle timer, so watch the count instead.
	assert.Eventually(t, func() bool {
		return store.Count() == 0
	}, time.Second, 5*time.Millisecond)

	_, ok := store.Get(sess.ID)
	assert.False(t, ok)
}

func TestStore_StartJanitorDoesNotBlock(t *testing.T) {
	store := newStore(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		store.StartJanitor(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("StartJanitor did not return with a live context")
	}
}
