// Package session holds the bearer credential used for every backend call.
//
// A Session is created once at startup and injected into the components that
// talk to the backend. Nothing else reads the credential file directly.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of token claims the client displays. The client never
// verifies the signature; the backend is the authority.
type Claims struct {
	Role string `json:"role,omitempty"`
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

var ErrNoCredential = errors.New("no credential stored")

// Session is the explicit credential context.
type Session struct {
	store CredentialStore

	mu         sync.Mutex
	onRedirect func(reason string)
}

func New(store CredentialStore) *Session {
	return &Session{store: store}
}

// OnLoginRequired registers the callback fired when the user must log in
// again. The CLI prints instructions; the browse view shows a banner.
func (s *Session) OnLoginRequired(fn func(reason string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRedirect = fn
}

// Token returns the stored credential, or "" when absent or unreadable.
func (s *Session) Token() string {
	token, err := s.store.Load()
	if err != nil {
		return ""
	}
	return token
}

func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}

func (s *Session) Login(token string) error {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return fmt.Errorf("token must not be empty")
	}
	return s.store.Save(token)
}

func (s *Session) Logout() error {
	return s.store.Delete()
}

// RequireLogin fires the redirect callback.
func (s *Session) RequireLogin(reason string) {
	s.mu.Lock()
	fn := s.onRedirect
	s.mu.Unlock()
	if fn != nil {
		fn(reason)
	}
}

// Expire clears the credential after the backend rejected it and fires the
// redirect. Expiry is only ever detected this way, from a 401 or 403.
func (s *Session) Expire(reason string) error {
	err := s.store.Delete()
	s.RequireLogin(reason)
	return err
}

// Claims decodes the stored token without verifying it.
func (s *Session) Claims() (*Claims, error) {
	token := s.Token()
	if token == "" {
		return nil, ErrNoCredential
	}
	return ParseClaims(token)
}

func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decoding token: %w", err)
	}
	return claims, nil
}

// ExpiresIn reports the time left on the token, false if it has no expiry.
func (c *Claims) ExpiresIn(now time.Time) (time.Duration, bool) {
	if c.ExpiresAt == nil {
		return 0, false
	}
	return c.ExpiresAt.Sub(now), true
}
