package authn

import (
	"context"
	"net/mail"
	"sync"

	"github.com/google/uuid"
)

type memoryAccount struct {
	identity Identity
	password string
}

// MemoryProvider keeps accounts and tokens in process memory. Used by tests
// and the "memory" auth driver for local development. Passwords are stored
// in clear text.
type MemoryProvider struct {
	mu       sync.Mutex
	accounts map[string]*memoryAccount // by email
	idTokens map[string]string         // token -> email
	refresh  map[string]string         // token -> email
	revoked  map[string]bool
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		accounts: make(map[string]*memoryAccount),
		idTokens: make(map[string]string),
		refresh:  make(map[string]string),
		revoked:  make(map[string]bool),
	}
}

func (m *MemoryProvider) SignUp(ctx context.Context, email, password string) (*Credential, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[email]; ok {
		return nil, ErrEmailExists
	}
	acc := &memoryAccount{identity: Identity{UID: uuid.NewString(), Email: email}, password: password}
	m.accounts[email] = acc
	return m.issueLocked(acc, true), nil
}

func (m *MemoryProvider) SignIn(ctx context.Context, email, password string) (*Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[normalizeEmail(email)]
	if !ok || acc.password != password {
		return nil, ErrInvalidCredentials
	}
	return m.issueLocked(acc, true), nil
}

func (m *MemoryProvider) UpdateProfile(ctx context.Context, idToken string, p Profile) (*Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[m.idTokens[idToken]]
	if !ok {
		return nil, ErrInvalidToken
	}
	if p.DisplayName != nil {
		acc.identity.DisplayName = *p.DisplayName
	}
	if p.PhotoURL != nil {
		acc.identity.PhotoURL = *p.PhotoURL
	}
	return m.issueLocked(acc, false), nil
}

func (m *MemoryProvider) Refresh(ctx context.Context, refreshToken string) (*Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[m.refresh[refreshToken]]
	if !ok || m.revoked[refreshToken] {
		return nil, ErrInvalidToken
	}
	cred := m.issueLocked(acc, false)
	cred.RefreshToken = refreshToken
	return cred, nil
}

func (m *MemoryProvider) Lookup(ctx context.Context, idToken string) (*Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[m.idTokens[idToken]]
	if !ok {
		return nil, ErrInvalidToken
	}
	identity := acc.identity
	return &identity, nil
}

func (m *MemoryProvider) Revoke(ctx context.Context, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if refreshToken != "" {
		m.revoked[refreshToken] = true
	}
	return nil
}

func (m *MemoryProvider) issueLocked(acc *memoryAccount, withRefresh bool) *Credential {
	idToken := uuid.NewString()
	m.idTokens[idToken] = acc.identity.Email

	cred := &Credential{Identity: acc.identity, IDToken: idToken}
	if withRefresh {
		cred.RefreshToken = uuid.NewString()
		m.refresh[cred.RefreshToken] = acc.identity.Email
	}
	return cred
}
