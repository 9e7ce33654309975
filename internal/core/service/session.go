package service

import (
	"context"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// A Session is the single-operator admin gate.
//
// Credentials are held and compared as plain text; the gate keeps honest
// visitors out of the admin views and is not a security boundary.
type Session struct {
	kv       port.KeyValueStore
	notifier port.NotificationShower
	bus      port.EventBus

	mu            sync.RWMutex
	authenticated bool
	creds         domain.Credentials
}

// NewSession starts unauthenticated with credentials read from kv, falling
// back to the compiled-in defaults for keys that are missing or empty.
func NewSession(
	ctx context.Context,
	kv port.KeyValueStore,
	notifier port.NotificationShower,
	bus port.EventBus,
) *Session {
	defaults := domain.DefaultCredentials()
	return &Session{
		kv:       kv,
		notifier: notifier,
		bus:      bus,
		creds: domain.Credentials{
			Username: load(ctx, kv, domain.KeyAdminUsername, defaults.Username),
			Password: load(ctx, kv, domain.KeyAdminPassword, defaults.Password),
		},
	}
}

// Login authenticates on an exact, case-sensitive match of both fields.
// A mismatch changes nothing and is reported only through the result.
func (s *Session) Login(username, password string) bool {
	s.mu.Lock()
	ok := s.creds.Match(username, password)
	changed := ok && !s.authenticated
	if ok {
		s.authenticated = true
	}
	s.mu.Unlock()

	if changed {
		s.publish(true)
	}
	return ok
}

func (s *Session) Logout() {
	s.mu.Lock()
	changed := s.authenticated
	s.authenticated = false
	s.mu.Unlock()

	if changed {
		s.publish(false)
	}
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds.Username
}

// UpdateCredentials always replaces the username and replaces the password
// only when a new one is given. The session stays authenticated.
func (s *Session) UpdateCredentials(username, password string) {
	s.mu.Lock()
	s.creds.Username = username
	if password != "" {
		s.creds.Password = password
	}
	creds := s.creds
	s.mu.Unlock()

	persist(s.kv, domain.KeyAdminUsername, creds.Username)
	if password != "" {
		persist(s.kv, domain.KeyAdminPassword, creds.Password)
	}
	s.notifier.Show(domain.MsgCredentialsUpdated, domain.SeveritySuccess)
}

// Subscribe calls fn with the authenticated flag on every transition.
func (s *Session) Subscribe(fn func(authenticated bool)) (unsubscribe func()) {
	if s.bus == nil {
		return func() {}
	}
	return s.bus.Subscribe(domain.TopicSessionChanged, func(p any) {
		if v, ok := p.(bool); ok {
			fn(v)
		}
	})
}

func (s *Session) publish(authenticated bool) {
	if s.bus != nil {
		s.bus.Publish(domain.TopicSessionChanged, authenticated)
	}
}
