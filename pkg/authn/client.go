package authn

import (
	"context"
	"log"
	"sync"
	"time"
)

// Listener receives the current identity, or nil when signed out.
type Listener func(*Identity)

type ClientOption func(*Client)

// WithIDToken restores a previously issued ID token on first resolution.
func WithIDToken(token string) ClientOption {
	return func(c *Client) { c.restoreID = token }
}

// WithRefreshToken restores a session from a refresh token on first
// resolution when no ID token is given or the ID token is rejected.
func WithRefreshToken(token string) ClientOption {
	return func(c *Client) { c.restoreRefresh = token }
}

// WithResolveTimeout bounds the provider calls made while restoring tokens.
// Non-positive values keep the default.
func WithResolveTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.resolveTimeout = d
		}
	}
}

// Client holds one auth session over a Provider and notifies listeners of
// identity changes. The first OnAuthStateChanged call triggers resolution of
// any restored tokens; later state changes notify synchronously before the
// mutating call returns.
type Client struct {
	provider Provider

	restoreID      string
	restoreRefresh string
	resolveTimeout time.Duration

	mu        sync.Mutex
	cred      *Credential
	resolved  bool
	resolving bool
	version   uint64
	listeners map[uint64]Listener
	nextID    uint64
}

func NewClient(provider Provider, opts ...ClientOption) *Client {
	c := &Client{
		provider:       provider,
		resolveTimeout: 10 * time.Second,
		listeners:      make(map[uint64]Listener),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnAuthStateChanged registers fn and returns a func that removes it. If the
// client has already resolved, fn is called with the current identity before
// OnAuthStateChanged returns.
func (c *Client) OnAuthStateChanged(fn Listener) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	resolved := c.resolved
	current := c.identityLocked()
	startResolve := !c.resolved && !c.resolving
	if startResolve {
		c.resolving = true
	}
	version := c.version
	c.mu.Unlock()

	if resolved {
		fn(current)
	}
	if startResolve {
		go c.resolve(version)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

func (c *Client) resolve(version uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), c.resolveTimeout)
	defer cancel()

	var cred *Credential
	if c.restoreID != "" {
		identity, err := c.provider.Lookup(ctx, c.restoreID)
		if err == nil {
			cred = &Credential{Identity: *identity, IDToken: c.restoreID, RefreshToken: c.restoreRefresh}
		} else {
			log.Printf("auth: restoring ID token failed: %v", err)
		}
	}
	if cred == nil && c.restoreRefresh != "" {
		refreshed, err := c.provider.Refresh(ctx, c.restoreRefresh)
		if err == nil {
			cred = refreshed
			if cred.RefreshToken == "" {
				cred.RefreshToken = c.restoreRefresh
			}
		} else {
			log.Printf("auth: restoring refresh token failed: %v", err)
		}
	}

	c.mu.Lock()
	c.resolving = false
	if c.version != version {
		// A sign-in or sign-out already settled the state
		c.mu.Unlock()
		return
	}
	c.setLocked(cred)
	c.mu.Unlock()

	c.notify()
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	cred, err := c.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return c.apply(cred), nil
}

// CreateUser registers a new account and signs it in.
func (c *Client) CreateUser(ctx context.Context, email, password string) (*Identity, error) {
	cred, err := c.provider.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return c.apply(cred), nil
}

// UpdateProfile changes the signed-in identity's profile.
func (c *Client) UpdateProfile(ctx context.Context, p Profile) (*Identity, error) {
	c.mu.Lock()
	if c.cred == nil {
		c.mu.Unlock()
		return nil, ErrNotSignedIn
	}
	idToken, refreshToken := c.cred.IDToken, c.cred.RefreshToken
	c.mu.Unlock()

	cred, err := c.provider.UpdateProfile(ctx, idToken, p)
	if err != nil {
		return nil, err
	}
	if cred.RefreshToken == "" {
		cred.RefreshToken = refreshToken
	}
	return c.apply(cred), nil
}

func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	var refreshToken string
	if c.cred != nil {
		refreshToken = c.cred.RefreshToken
	}
	c.mu.Unlock()

	if err := c.provider.Revoke(ctx, refreshToken); err != nil {
		return err
	}

	c.mu.Lock()
	c.setLocked(nil)
	c.mu.Unlock()
	c.notify()
	return nil
}

// CurrentUser returns a copy of the signed-in identity, or nil.
func (c *Client) CurrentUser() *Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identityLocked()
}

// Tokens returns the current ID and refresh tokens, empty when signed out.
func (c *Client) Tokens() (idToken, refreshToken string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cred == nil {
		return "", ""
	}
	return c.cred.IDToken, c.cred.RefreshToken
}

func (c *Client) apply(cred *Credential) *Identity {
	c.mu.Lock()
	c.setLocked(cred)
	identity := c.identityLocked()
	c.mu.Unlock()

	c.notify()
	return identity
}

func (c *Client) setLocked(cred *Credential) {
	c.cred = cred
	c.resolved = true
	c.version++
}

func (c *Client) identityLocked() *Identity {
	if c.cred == nil {
		return nil
	}
	identity := c.cred.Identity
	return &identity
}

// notify calls every listener with the state at call time, outside the lock.
func (c *Client) notify() {
	c.mu.Lock()
	identity := c.identityLocked()
	listeners := make([]Listener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		if identity == nil {
			fn(nil)
			continue
		}
		copied := *identity
		fn(&copied)
	}
}
