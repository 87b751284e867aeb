package authn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultIdentityToolkitURL = "https://identitytoolkit.googleapis.com/v1"
	defaultSecureTokenURL     = "https://securetoken.googleapis.com/v1/token"
)

type IdentityToolkitConfig struct {
	APIKey   string
	BaseURL  string // override for the auth emulator
	TokenURL string
	Timeout  time.Duration
}

// IdentityToolkit talks to Firebase Authentication over its REST API.
type IdentityToolkit struct {
	apiKey     string
	baseURL    string
	tokenURL   string
	httpClient *http.Client
}

func NewIdentityToolkit(cfg IdentityToolkitConfig) *IdentityToolkit {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultIdentityToolkitURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultSecureTokenURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &IdentityToolkit{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		tokenURL:   cfg.TokenURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type tokenResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	PhotoURL     string `json:"photoUrl"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

func (r tokenResponse) credential() *Credential {
	return &Credential{
		Identity: Identity{
			UID:         r.LocalID,
			Email:       r.Email,
			DisplayName: r.DisplayName,
			PhotoURL:    r.PhotoURL,
		},
		IDToken:      r.IDToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    expiresAt(r.ExpiresIn),
	}
}

func (t *IdentityToolkit) SignUp(ctx context.Context, email, password string) (*Credential, error) {
	var resp tokenResponse
	err := t.call(ctx, "accounts:signUp", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.credential(), nil
}

func (t *IdentityToolkit) SignIn(ctx context.Context, email, password string) (*Credential, error) {
	var resp tokenResponse
	err := t.call(ctx, "accounts:signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	cred := resp.credential()
	// The sign-in response omits the photo URL
	identity, err := t.Lookup(ctx, cred.IDToken)
	if err != nil {
		return nil, err
	}
	cred.Identity = *identity
	return cred, nil
}

func (t *IdentityToolkit) UpdateProfile(ctx context.Context, idToken string, p Profile) (*Credential, error) {
	body := map[string]interface{}{
		"idToken":           idToken,
		"returnSecureToken": true,
	}
	var deleteAttrs []string
	if p.DisplayName != nil {
		if *p.DisplayName == "" {
			deleteAttrs = append(deleteAttrs, "DISPLAY_NAME")
		} else {
			body["displayName"] = *p.DisplayName
		}
	}
	if p.PhotoURL != nil {
		if *p.PhotoURL == "" {
			deleteAttrs = append(deleteAttrs, "PHOTO_URL")
		} else {
			body["photoUrl"] = *p.PhotoURL
		}
	}
	if len(deleteAttrs) > 0 {
		body["deleteAttribute"] = deleteAttrs
	}

	var resp tokenResponse
	if err := t.call(ctx, "accounts:update", body, &resp); err != nil {
		return nil, err
	}
	if resp.IDToken == "" {
		resp.IDToken = idToken
	}
	return resp.credential(), nil
}

func (t *IdentityToolkit) Refresh(ctx context.Context, refreshToken string) (*Credential, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint(t.tokenURL), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    string `json:"expires_in"`
	}
	if err := t.do(req, &resp); err != nil {
		return nil, err
	}

	identity, err := t.Lookup(ctx, resp.IDToken)
	if err != nil {
		return nil, err
	}
	return &Credential{
		Identity:     *identity,
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    expiresAt(resp.ExpiresIn),
	}, nil
}

func (t *IdentityToolkit) Lookup(ctx context.Context, idToken string) (*Identity, error) {
	var resp struct {
		Users []struct {
			LocalID     string `json:"localId"`
			Email       string `json:"email"`
			DisplayName string `json:"displayName"`
			PhotoURL    string `json:"photoUrl"`
		} `json:"users"`
	}
	if err := t.call(ctx, "accounts:lookup", map[string]interface{}{"idToken": idToken}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Users) == 0 {
		return nil, ErrInvalidToken
	}

	u := resp.Users[0]
	return &Identity{UID: u.LocalID, Email: u.Email, DisplayName: u.DisplayName, PhotoURL: u.PhotoURL}, nil
}

// Revoke is a no-op: Firebase refresh tokens can only be revoked with admin
// credentials, so signing out just forgets the tokens client side.
func (t *IdentityToolkit) Revoke(ctx context.Context, refreshToken string) error {
	return nil
}

func (t *IdentityToolkit) call(ctx context.Context, method string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint(t.baseURL+"/"+method), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return t.do(req, out)
}

func (t *IdentityToolkit) do(req *http.Request, out interface{}) error {
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error calling identity toolkit: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return mapError(apiErr.Error.Message)
		}
		return fmt.Errorf("identity toolkit error: status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}

func (t *IdentityToolkit) endpoint(base string) string {
	return base + "?key=" + url.QueryEscape(t.apiKey)
}

// mapError translates Identity Toolkit error codes such as
// "WEAK_PASSWORD : Password should be at least 6 characters".
func mapError(message string) error {
	code := strings.TrimSpace(strings.SplitN(message, ":", 2)[0])
	switch code {
	case "EMAIL_EXISTS":
		return ErrEmailExists
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED":
		return ErrInvalidCredentials
	case "WEAK_PASSWORD":
		return ErrWeakPassword
	case "INVALID_EMAIL", "MISSING_EMAIL":
		return ErrInvalidEmail
	case "INVALID_ID_TOKEN", "TOKEN_EXPIRED", "INVALID_REFRESH_TOKEN", "USER_NOT_FOUND", "CREDENTIAL_TOO_OLD_LOGIN_AGAIN":
		return ErrInvalidToken
	}
	return fmt.Errorf("identity toolkit error: %s", message)
}

func expiresAt(expiresIn string) time.Time {
	secs, err := strconv.Atoi(expiresIn)
	if err != nil || secs <= 0 {
		return time.Time{}
	}
	return time.Now().Add(time.Duration(secs) * time.Second)
}
