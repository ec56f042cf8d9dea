package xclient

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go-xclient/store"
)

func TestSession_LoadAnonymous(t *testing.T) {
	env := newTestEnv(t)
	s := NewSession(env.client)

	require.NoError(t, s.Load(context.Background()))
	assert.Nil(t, s.CurrentUser())
	assert.Zero(t, env.transport.callCount(), "no token means no query")
}

func TestSession_LoadResolvesUser(t *testing.T) {
	env := newTestEnv(t)
	env.withToken(t, "tok-1")
	env.transport.reply("GetCurrentUser", "getCurrentUser", userJSON("u1", "Ada", "L", "u3"))

	s := NewSession(env.client)
	require.NoError(t, s.Load(context.Background()))

	u := s.CurrentUser()
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "tok-1", env.client.Token())
	calls := env.transport.callsTo("GetCurrentUser")
	require.Len(t, calls, 1)
	assert.Equal(t, "Bearer tok-1", calls[0].Headers["authorization"])
}

func TestSession_LoadFailureKeepsToken(t *testing.T) {
	env := newTestEnv(t)
	env.withToken(t, "stale")
	env.transport.handle("GetCurrentUser", func(map[string]any) fakeResponse {
		return fakeResponse{Status: 200, Body: gqlErrors(map[string]any{
			"message": "jwt expired", "extensions": map[string]any{"code": "UNAUTHENTICATED"},
		})}
	})

	s := NewSession(env.client)
	err := s.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindAuthentication, KindOf(err))
	assert.Nil(t, s.CurrentUser())

	tok, ok, err := env.store.Get(context.Background(), store.TokenKey)
	require.NoError(t, err)
	assert.True(t, ok, "stale token is not cleared automatically")
	assert.Equal(t, "stale", tok)
}

func TestSession_InvalidateRefetches(t *testing.T) {
	env := newTestEnv(t)
	env.withToken(t, "tok-1")

	following := []string{"u3"}
	var mu sync.Mutex
	env.transport.handle("GetCurrentUser", func(map[string]any) fakeResponse {
		mu.Lock()
		defer mu.Unlock()
		return fakeResponse{Status: 200, Body: gqlData("getCurrentUser", userJSON("u1", "Ada", "L", following...))}
	})

	s := NewSession(env.client)
	var events []SessionEvent
	s.Subscribe(func(ev SessionEvent) { events = append(events, ev) })
	require.NoError(t, s.Load(context.Background()))
	assert.False(t, IsFollowing(s.CurrentUser(), "u2"))

	mu.Lock()
	following = append(following, "u2")
	mu.Unlock()

	require.NoError(t, s.Invalidate(context.Background()))
	assert.True(t, IsFollowing(s.CurrentUser(), "u2"))
	assert.False(t, s.Stale())
	assert.Equal(t, []SessionEvent{EventResolved, EventInvalidated, EventResolved}, events)
	assert.Len(t, env.transport.callsTo("GetCurrentUser"), 2)
}

func TestSession_InvalidateAnonymous(t *testing.T) {
	env := newTestEnv(t)
	s := NewSession(env.client)
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.Invalidate(context.Background()))
	assert.Nil(t, s.CurrentUser())
	assert.Zero(t, env.transport.callCount())
}

func TestSession_Logout(t *testing.T) {
	env := newTestEnv(t)
	env.withToken(t, "tok-1")
	env.transport.reply("GetCurrentUser", "getCurrentUser", userJSON("u1", "Ada", "L"))

	s := NewSession(env.client)
	require.NoError(t, s.Load(context.Background()))
	require.NotNil(t, s.CurrentUser())

	require.NoError(t, s.Logout(context.Background()))
	assert.Nil(t, s.CurrentUser())
	assert.Empty(t, env.client.Token())

	_, ok, _ := env.store.Get(context.Background(), store.TokenKey)
	assert.False(t, ok, "token removed")

	// Next start: no resolvable user and no query.
	before := env.transport.callCount()
	next := NewSession(env.client)
	require.NoError(t, next.Load(context.Background()))
	assert.Nil(t, next.CurrentUser())
	assert.Equal(t, before, env.transport.callCount())

	fired, err := next.ConsumeLogoutFlag(context.Background())
	require.NoError(t, err)
	assert.True(t, fired)
	assert.Equal(t, []string{msgLoggedOut}, env.notifier.Successes())

	fired, err = next.ConsumeLogoutFlag(context.Background())
	require.NoError(t, err)
	assert.False(t, fired, "flag is consumed once")
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(-time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "u1",
		"exp": exp.Unix(),
	}).SignedString([]byte("server-secret"))
	require.NoError(t, err)

	got, ok := tokenExpiry(signed)
	require.True(t, ok)
	assert.True(t, got.Equal(exp))

	_, ok = tokenExpiry("opaque-token")
	assert.False(t, ok)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "u1"}).SignedString([]byte("k"))
	require.NoError(t, err)
	_, ok = tokenExpiry(noExp)
	assert.False(t, ok)
}

type failingStore struct{ store.Store }

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk gone")
}

func TestSession_LoadStoreError(t *testing.T) {
	env := newTestEnv(t)
	s := NewSession(env.client)
	s.store = failingStore{env.store}
	assert.Error(t, s.Load(context.Background()))
	assert.Zero(t, env.transport.callCount())
}

func TestSession_RefreshFailureKeepsUser(t *testing.T) {
	g, s := newGraphEnv(t, "u3")
	before := s.CurrentUser()
	require.NotNil(t, before)

	g.transport.handle("GetCurrentUser", func(map[string]any) fakeResponse {
		return fakeResponse{Status: 502, Body: "bad gateway"}
	})
	require.NoError(t, NewRelationships(s).Follow(context.Background(), &User{ID: "u2"}))

	assert.Same(t, before, s.CurrentUser(), "a failed refresh does not sign the user out")
	assert.True(t, s.Stale())
	assert.Equal(t, "tok-1", g.client.Token())

	err := s.Invalidate(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Same(t, before, s.CurrentUser())
	assert.True(t, s.Stale())

	// The next successful fetch clears the stale mark.
	g.transport.handle("GetCurrentUser", func(map[string]any) fakeResponse {
		return fakeResponse{Status: 200, Body: gqlData("getCurrentUser", userJSON("u1", "Ada", "L", "u3", "u2"))}
	})
	require.NoError(t, s.Invalidate(context.Background()))
	assert.False(t, s.Stale())
	assert.True(t, IsFollowing(s.CurrentUser(), "u2"))
}

func TestSession_NullUserClears(t *testing.T) {
	g, s := newGraphEnv(t)
	require.NotNil(t, s.CurrentUser())

	g.transport.reply("GetCurrentUser", "getCurrentUser", nil)
	require.NoError(t, s.Invalidate(context.Background()))
	assert.Nil(t, s.CurrentUser())
	assert.False(t, s.Stale())
}

// flagFailStore accepts everything except the logout flag.
type flagFailStore struct{ store.Store }

func (f flagFailStore) Set(ctx context.Context, key, value string) error {
	if key == store.LogoutFlagKey {
		return errors.New("disk full")
	}
	return f.Store.Set(ctx, key, value)
}

func TestSession_LogoutResetsWhenStoreFails(t *testing.T) {
	env := newTestEnv(t)
	env.withToken(t, "tok-1")
	env.transport.reply("GetCurrentUser", "getCurrentUser", userJSON("u1", "Ada", "L"))

	s := NewSession(env.client)
	require.NoError(t, s.Load(context.Background()))
	s.store = flagFailStore{env.store}

	var events []SessionEvent
	s.Subscribe(func(ev SessionEvent) { events = append(events, ev) })

	require.Error(t, s.Logout(context.Background()))
	assert.Nil(t, s.CurrentUser())
	assert.Empty(t, env.client.Token())
	assert.Equal(t, []SessionEvent{EventLoggedOut}, events)

	_, ok, _ := env.store.Get(context.Background(), store.TokenKey)
	assert.False(t, ok)
}
