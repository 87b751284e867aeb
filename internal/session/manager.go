package session

import (
	"context"

	"stayhere_backend/pkg/authn"
)

// Manager creates isolated sessions over a shared provider.
type Manager struct {
	provider authn.Provider
	opts     []authn.ClientOption
}

// NewManager applies opts to every client it creates.
func NewManager(provider authn.Provider, opts ...authn.ClientOption) *Manager {
	return &Manager{provider: provider, opts: opts}
}

func (m *Manager) clientOptions(extra ...authn.ClientOption) []authn.ClientOption {
	opts := make([]authn.ClientOption, 0, len(m.opts)+len(extra))
	opts = append(opts, m.opts...)
	return append(opts, extra...)
}

// New opens a fresh session with no restored credentials.
func (m *Manager) New() *Session {
	return Open(authn.NewClient(m.provider, m.clientOptions()...))
}

// Resume opens a session from previously issued tokens and waits for it to
// resolve. The returned session is anonymous if the tokens were rejected.
// Callers own the session and must Close it.
func (m *Manager) Resume(ctx context.Context, idToken, refreshToken string) (*Session, error) {
	s := Open(authn.NewClient(m.provider, m.clientOptions(
		authn.WithIDToken(idToken),
		authn.WithRefreshToken(refreshToken),
	)...))
	if err := s.Wait(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
