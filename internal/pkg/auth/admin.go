// internal/pkg/auth/admin.go
package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/your-org/toyshop-storefront/internal/config"
)

var (
	// ErrInvalidCredentials is returned for a wrong email or password
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAdminDisabled is returned when no admin account is configured
	ErrAdminDisabled = errors.New("admin login is not configured")
)

// Session is an issued admin token
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AdminAuthenticator checks the single configured admin account
type AdminAuthenticator struct {
	email     string
	hash      string
	passwords *PasswordManager
	tokens    *JWTManager
}

// NewAdminAuthenticator creates the authenticator from ADMIN_EMAIL and
// ADMIN_PASSWORD_HASH
func NewAdminAuthenticator(cfg *config.Config, tokens *JWTManager) *AdminAuthenticator {
	return &AdminAuthenticator{
		email:     strings.ToLower(strings.TrimSpace(cfg.Admin.Email)),
		hash:      cfg.Admin.PasswordHash,
		passwords: NewPasswordManager(),
		tokens:    tokens,
	}
}

// Enabled reports whether an admin account is configured
func (a *AdminAuthenticator) Enabled() bool {
	return a.email != "" && a.hash != ""
}

// Login verifies the credentials and issues an access token
func (a *AdminAuthenticator) Login(email, password string) (*Session, error) {
	if !a.Enabled() {
		return nil, ErrAdminDisabled
	}

	email = strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(a.email)) == 1
	// Always run bcrypt so a wrong email takes as long as a wrong password
	passwordOK := a.passwords.VerifyPassword(password, a.hash) == nil
	if !emailOK || !passwordOK {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := a.tokens.GenerateAccessToken(a.email)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}
