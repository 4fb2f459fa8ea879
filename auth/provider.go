package auth

import (
	"context"
	"sync"
	"time"

	"outpost/models"
	"outpost/utils"
)

// Provider is what the rest of the shell sees of the identity session: a
// nullable current identity, a loading flag while the session is being
// restored, and token issuance for backend requests.
type Provider interface {
	Current() *models.User
	Loading() bool
	Token(ctx context.Context) (string, error)
}

// Listener is notified whenever the current identity changes. A nil user
// means the session ended.
type Listener func(*models.User)

// Session holds the app-global identity state. It starts in the loading
// state until Restore has run.
type Session struct {
	mu        sync.RWMutex
	current   *models.User
	loading   bool
	listeners []Listener

	secret string
	ttl    time.Duration
}

// NewSession creates an identity session that signs tokens with the given
// secret.
func NewSession(secret string, ttl time.Duration) *Session {
	return &Session{
		loading: true,
		secret:  secret,
		ttl:     ttl,
	}
}

// Current returns the active identity, or nil when logged out.
func (s *Session) Current() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Loading reports whether the session is still being restored.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Token mints a bearer token for the current identity.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	user := s.current
	s.mu.RUnlock()

	if user == nil {
		return "", utils.UnauthorizedError("no active session", nil)
	}
	return GenerateToken(user.Username, user.Email, s.secret, s.ttl)
}

// Subscribe registers a listener for identity changes. Listeners are
// invoked synchronously, outside the session lock.
func (s *Session) Subscribe(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// SetCurrent installs a new identity (login) and notifies listeners.
func (s *Session) SetCurrent(user *models.User) {
	s.mu.Lock()
	s.current = user
	s.loading = false
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(user)
	}
}

// Clear ends the session (logout) and notifies listeners with nil.
func (s *Session) Clear() {
	s.SetCurrent(nil)
}

// Restore finishes session startup with whatever identity the store held.
// A nil user simply settles the loading flag.
func (s *Session) Restore(user *models.User) {
	if user != nil {
		utils.Log.Info("Restored session for %s", user.Username)
	}
	s.SetCurrent(user)
}
