package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"stayhere_backend/pkg/authn"
)

var ErrCredentialsRequired = errors.New("email and password are required")

type State int

const (
	Uninitialized State = iota
	Authenticated
	Anonymous
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	}
	return "uninitialized"
}

// Session holds the current identity of one auth client. It owns a single
// listener on the client for its lifetime and fans identity changes out to
// its own subscribers.
type Session struct {
	client *authn.Client

	mu          sync.RWMutex
	identity    *authn.Identity
	state       State
	subscribers map[uint64]func(*authn.Identity)
	nextID      uint64
	closed      bool

	ready       chan struct{}
	readyOnce   sync.Once
	unsubscribe func()
}

// Open starts a session over client. The session is loading until the
// client reports its first identity.
func Open(client *authn.Client) *Session {
	s := &Session{
		client:      client,
		subscribers: make(map[uint64]func(*authn.Identity)),
		ready:       make(chan struct{}),
	}
	s.unsubscribe = client.OnAuthStateChanged(s.handle)
	return s
}

func (s *Session) handle(identity *authn.Identity) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.identity = identity
	if identity != nil {
		s.state = Authenticated
	} else {
		s.state = Anonymous
	}
	subscribers := make([]func(*authn.Identity), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	s.readyOnce.Do(func() { close(s.ready) })

	for _, fn := range subscribers {
		fn(copyIdentity(identity))
	}
}

// Current returns a copy of the signed-in identity, or nil.
func (s *Session) Current() *authn.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyIdentity(s.identity)
}

func (s *Session) Loading() bool {
	return s.State() == Uninitialized
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Ready is closed once the first identity has been resolved.
func (s *Session) Ready() <-chan struct{} {
	return s.ready
}

// Wait blocks until the session has resolved or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) SignIn(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return ErrCredentialsRequired
	}
	if _, err := s.client.SignIn(ctx, email, password); err != nil {
		log.Printf("Sign in failed for %s: %v", email, err)
		return err
	}
	return nil
}

// SignUp creates the account and then stores displayName on it, so Current
// carries the display name once SignUp returns.
func (s *Session) SignUp(ctx context.Context, email, password, displayName string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return ErrCredentialsRequired
	}
	if _, err := s.client.CreateUser(ctx, email, password); err != nil {
		log.Printf("Sign up failed for %s: %v", email, err)
		return err
	}
	if displayName == "" {
		return nil
	}
	if _, err := s.client.UpdateProfile(ctx, authn.Profile{DisplayName: &displayName}); err != nil {
		log.Printf("Setting display name failed for %s: %v", email, err)
		return err
	}
	return nil
}

func (s *Session) SignOut(ctx context.Context) error {
	if err := s.client.SignOut(ctx); err != nil {
		log.Printf("Sign out failed: %v", err)
		return err
	}
	return nil
}

// Tokens returns the client's current ID and refresh tokens.
func (s *Session) Tokens() (idToken, refreshToken string) {
	return s.client.Tokens()
}

// Subscribe calls fn on every identity change until the returned cancel func
// is called. A session that has already resolved delivers the current
// identity immediately.
func (s *Session) Subscribe(fn func(*authn.Identity)) (cancel func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return func() {}
	}
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	state := s.state
	identity := copyIdentity(s.identity)
	s.mu.Unlock()

	if state != Uninitialized {
		fn(identity)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

// Close detaches the session from its client and drops all subscribers.
// It is safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.subscribers = make(map[uint64]func(*authn.Identity))
	s.mu.Unlock()

	s.unsubscribe()
}

func copyIdentity(identity *authn.Identity) *authn.Identity {
	if identity == nil {
		return nil
	}
	c := *identity
	return &c
}
