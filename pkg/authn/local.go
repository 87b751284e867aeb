package authn

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"stayhere_backend/pkg/utils/jwt"
)

const minPasswordLength = 6

type Account struct {
	gorm.Model
	UID         string `gorm:"uniqueIndex;size:64;not null"`
	Email       string `gorm:"uniqueIndex;not null"`
	Password    string `gorm:"not null"`
	DisplayName string
	PhotoURL    string
}

func (a Account) identity() Identity {
	return Identity{UID: a.UID, Email: a.Email, DisplayName: a.DisplayName, PhotoURL: a.PhotoURL}
}

type RefreshToken struct {
	gorm.Model
	AccountID uint      `gorm:"index;not null"`
	TokenHash string    `gorm:"uniqueIndex;size:64;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	RevokedAt *time.Time
}

type LocalConfig struct {
	Secret     string
	Issuer     string
	TokenTTL   time.Duration
	RefreshTTL time.Duration
}

// LocalProvider keeps accounts in the relational database and issues HS256
// ID tokens with opaque refresh tokens.
type LocalProvider struct {
	db         *gorm.DB
	secret     []byte
	issuer     string
	tokenTTL   time.Duration
	refreshTTL time.Duration
}

func NewLocalProvider(db *gorm.DB, cfg LocalConfig) *LocalProvider {
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = 30 * 24 * time.Hour
	}
	return &LocalProvider{
		db:         db,
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		tokenTTL:   cfg.TokenTTL,
		refreshTTL: cfg.RefreshTTL,
	}
}

// Models returns the tables the provider needs migrated.
func (p *LocalProvider) Models() []interface{} {
	return []interface{}{&Account{}, &RefreshToken{}}
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (*Credential, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	db := p.db.WithContext(ctx)
	var existing Account
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("could not hash password: %w", err)
	}

	account := Account{
		UID:      uuid.NewString(),
		Email:    email,
		Password: string(hashedPassword),
	}
	if err := db.Create(&account).Error; err != nil {
		return nil, fmt.Errorf("could not create account: %w", err)
	}

	return p.issue(ctx, account, true)
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Credential, error) {
	var account Account
	if err := p.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return p.issue(ctx, account, true)
}

func (p *LocalProvider) UpdateProfile(ctx context.Context, idToken string, profile Profile) (*Credential, error) {
	account, err := p.accountForToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if profile.DisplayName != nil {
		updates["display_name"] = *profile.DisplayName
		account.DisplayName = *profile.DisplayName
	}
	if profile.PhotoURL != nil {
		updates["photo_url"] = *profile.PhotoURL
		account.PhotoURL = *profile.PhotoURL
	}
	if len(updates) > 0 {
		if err := p.db.WithContext(ctx).Model(&account).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("could not update profile: %w", err)
		}
	}

	return p.issue(ctx, account, false)
}

func (p *LocalProvider) Refresh(ctx context.Context, refreshToken string) (*Credential, error) {
	var token RefreshToken
	err := p.db.WithContext(ctx).
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?", hashToken(refreshToken), time.Now()).
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	var account Account
	if err := p.db.WithContext(ctx).First(&account, token.AccountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	cred, err := p.issue(ctx, account, false)
	if err != nil {
		return nil, err
	}
	cred.RefreshToken = refreshToken
	return cred, nil
}

func (p *LocalProvider) Lookup(ctx context.Context, idToken string) (*Identity, error) {
	account, err := p.accountForToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	identity := account.identity()
	return &identity, nil
}

func (p *LocalProvider) Revoke(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return revokeQuery(p.db.WithContext(ctx), refreshToken, time.Now()).Error
}

// revokeQuery marks the stored hash of refreshToken revoked at now. Already
// revoked tokens keep their original timestamp.
func revokeQuery(tx *gorm.DB, refreshToken string, now time.Time) *gorm.DB {
	return tx.Model(&RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", hashToken(refreshToken)).
		Update("revoked_at", &now)
}

func (p *LocalProvider) accountForToken(ctx context.Context, idToken string) (Account, error) {
	claims, err := jwt.ValidateToken(p.secret, idToken)
	if err != nil {
		return Account{}, ErrInvalidToken
	}

	var account Account
	if err := p.db.WithContext(ctx).Where("uid = ?", claims.UID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Account{}, ErrInvalidToken
		}
		return Account{}, err
	}
	return account, nil
}

// issue signs an ID token for account and, when withRefresh is set, stores a
// new refresh token.
func (p *LocalProvider) issue(ctx context.Context, account Account, withRefresh bool) (*Credential, error) {
	identity := account.identity()
	idToken, err := jwt.GenerateToken(p.secret, p.issuer, jwt.Claims{
		UID:     identity.UID,
		Email:   identity.Email,
		Name:    identity.DisplayName,
		Picture: identity.PhotoURL,
	}, p.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	cred := &Credential{
		Identity:  identity,
		IDToken:   idToken,
		ExpiresAt: time.Now().Add(p.tokenTTL),
	}
	if !withRefresh {
		return cred, nil
	}

	raw, err := randomToken()
	if err != nil {
		return nil, err
	}
	err = p.db.WithContext(ctx).Create(&RefreshToken{
		AccountID: account.ID,
		TokenHash: hashToken(raw),
		ExpiresAt: time.Now().Add(p.refreshTTL),
	}).Error
	if err != nil {
		return nil, fmt.Errorf("could not store refresh token: %w", err)
	}
	cred.RefreshToken = raw
	return cred, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("could not generate refresh token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
