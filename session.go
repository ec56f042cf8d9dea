package xclient

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"github.com/anatolykoptev/go-xclient/store"
)

// currentUserKey is the cache key for the resolved session user.
const currentUserKey = "current-user"

// SessionEvent is delivered to session subscribers.
type SessionEvent int

const (
	EventResolved    SessionEvent = iota // current user (re)fetched, possibly nil
	EventInvalidated                     // cache marked stale
	EventLoggedIn                        // token persisted after verification
	EventLoggedOut                       // token removed and state reset
)

func (e SessionEvent) String() string {
	switch e {
	case EventResolved:
		return "resolved"
	case EventInvalidated:
		return "invalidated"
	case EventLoggedIn:
		return "logged_in"
	case EventLoggedOut:
		return "logged_out"
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// Session owns the current-user state for one client instance.
type Session struct {
	client *Client
	store  store.Store
	group  singleflight.Group

	mu    sync.RWMutex
	user  *User
	stale bool
	subs  []func(SessionEvent)
}

// NewSession binds a session to a client and its token store.
func NewSession(c *Client) *Session {
	return &Session{client: c, store: c.Store()}
}

// Subscribe registers fn for every subsequent session event. fn runs on
// the goroutine that caused the event.
func (s *Session) Subscribe(fn func(SessionEvent)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Session) emit(ev SessionEvent) {
	s.mu.RLock()
	subs := append([]func(SessionEvent){}, s.subs...)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// Load reads the persisted token and resolves the current user. Without a
// token the session is anonymous and no request is made. A failed lookup
// leaves the user unset and the token in place.
func (s *Session) Load(ctx context.Context) error {
	token, ok, err := s.store.Get(ctx, store.TokenKey)
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	if !ok || token == "" {
		s.client.SetToken("")
		slog.Debug("no session token, anonymous")
		return nil
	}
	if exp, ok := tokenExpiry(token); ok && exp.Before(time.Now()) {
		slog.Warn("session token looks expired", slog.Time("exp", exp))
	}
	s.client.SetToken(token)
	return s.refetch(ctx)
}

// CurrentUser returns the cached user, or nil when anonymous or unresolved.
func (s *Session) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Stale reports whether the cached user awaits a refetch.
func (s *Session) Stale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stale
}

// Invalidate marks the current user stale and refetches it. Concurrent
// calls share one fetch. If the fetch fails the previous user is kept and
// Stale stays true.
func (s *Session) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
	s.emit(EventInvalidated)

	if s.client.Token() == "" {
		s.setUser(nil)
		return nil
	}
	return s.refetch(ctx)
}

func (s *Session) refetch(ctx context.Context) error {
	_, err, shared := s.group.Do(currentUserKey, func() (any, error) {
		u, err := s.client.GetCurrentUser(ctx)
		if err != nil {
			// Keep the last known user; it stays stale until a fetch succeeds.
			slog.Warn("resolve current user failed", slog.Any("error", err))
			s.mu.Lock()
			s.stale = true
			s.mu.Unlock()
			return nil, err
		}
		s.setUser(u)
		return u, nil
	})
	if shared {
		slog.Debug("current user fetch shared")
	}
	return err
}

func (s *Session) setUser(u *User) {
	s.mu.Lock()
	s.user = u
	s.stale = false
	s.mu.Unlock()
	s.emit(EventResolved)
}

// storeToken persists a freshly verified token and activates it.
func (s *Session) storeToken(ctx context.Context, token string) error {
	if err := s.store.Set(ctx, store.TokenKey, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	s.client.SetToken(token)
	s.emit(EventLoggedIn)
	return nil
}

// Logout resets in-memory state, removes the token and leaves a one-shot
// logout flag for the next start. The in-memory reset happens even when
// the store fails.
func (s *Session) Logout(ctx context.Context) error {
	s.client.SetToken("")
	s.mu.Lock()
	s.user = nil
	s.stale = false
	s.mu.Unlock()
	s.emit(EventLoggedOut)

	if err := s.store.Delete(ctx, store.TokenKey); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	if err := s.store.Set(ctx, store.LogoutFlagKey, "true"); err != nil {
		return fmt.Errorf("write logout flag: %w", err)
	}
	return nil
}

// ConsumeLogoutFlag reports whether a logout happened since the last
// check and clears the flag. The confirmation toast is shown when it fires.
func (s *Session) ConsumeLogoutFlag(ctx context.Context) (bool, error) {
	_, ok, err := s.store.Get(ctx, store.LogoutFlagKey)
	if err != nil || !ok {
		return false, err
	}
	if err := s.store.Delete(ctx, store.LogoutFlagKey); err != nil {
		return false, err
	}
	s.client.Notifier().Success(msgLoggedOut)
	return true, nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// client holds no key and only uses it for diagnostics.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
