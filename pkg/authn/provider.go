package authn

import (
	"context"
	"errors"
	"time"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password should be at least 6 characters")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNotSignedIn        = errors.New("not signed in")
)

type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url"`
}

// Credential is a signed-in identity plus the tokens that prove it.
type Credential struct {
	Identity     Identity
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// Profile is a partial identity update; nil fields are left untouched.
type Profile struct {
	DisplayName *string
	PhotoURL    *string
}

// Provider is the identity backend. UpdateProfile and Refresh may return an
// empty RefreshToken, meaning the previous one stays valid.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*Credential, error)
	SignIn(ctx context.Context, email, password string) (*Credential, error)
	UpdateProfile(ctx context.Context, idToken string, p Profile) (*Credential, error)
	Refresh(ctx context.Context, refreshToken string) (*Credential, error)
	Lookup(ctx context.Context, idToken string) (*Identity, error)
	Revoke(ctx context.Context, refreshToken string) error
}
