package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/toyshop-storefront/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Plushie2026"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.App.Name = "Toy Shop Storefront"
	cfg.JWT.Secret = "a-test-secret-that-is-long-enough-for-hs256"
	cfg.JWT.AccessTokenExpiry = time.Hour
	cfg.Admin.Email = "Admin@ToyShop.tn"
	cfg.Admin.PasswordHash = string(hash)
	return cfg
}

func TestJWT_RoundTrip(t *testing.T) {
	manager := NewJWTManager(testConfig(t))

	token, expiresAt, err := manager.GenerateAccessToken("admin@toyshop.tn")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@toyshop.tn", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestJWT_RejectsExpiredAndForeignTokens(t *testing.T) {
	cfg := testConfig(t)
	manager := NewJWTManager(cfg)

	token, _, err := manager.GenerateAccessToken("admin@toyshop.tn")
	require.NoError(t, err)

	manager.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = manager.ValidateAccessToken(token)
	assert.Error(t, err)

	other := *cfg
	other.JWT.Secret = "another-secret-that-is-also-long-enough"
	_, err = NewJWTManager(&other).ValidateAccessToken(token)
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Email: "x", Role: RoleAdmin, TokenType: "access"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = manager.ValidateAccessToken(unsigned)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("Basic abc"))
	assert.Equal(t, "", ExtractTokenFromHeader(""))
}

func TestAdminLogin(t *testing.T) {
	cfg := testConfig(t)
	tokens := NewJWTManager(cfg)
	admin := NewAdminAuthenticator(cfg, tokens)
	require.True(t, admin.Enabled())

	session, err := admin.Login(" admin@toyshop.tn ", "Plushie2026")
	require.NoError(t, err)
	claims, err := tokens.ValidateAccessToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin@toyshop.tn", claims.Email)

	_, err = admin.Login("admin@toyshop.tn", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = admin.Login("someone@toyshop.tn", "Plushie2026")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminLogin_Disabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Admin.PasswordHash = ""
	admin := NewAdminAuthenticator(cfg, NewJWTManager(cfg))

	_, err := admin.Login("admin@toyshop.tn", "Plushie2026")
	assert.ErrorIs(t, err, ErrAdminDisabled)
}

func TestPasswordManager(t *testing.T) {
	p := NewPasswordManager()
	p.cost = bcrypt.MinCost

	hash, err := p.HashPassword("Plushie2026")
	require.NoError(t, err)
	assert.NoError(t, p.VerifyPassword("Plushie2026", hash))
	assert.Error(t, p.VerifyPassword("plushie2026", hash))

	for _, weak := range []string{"short1A", "alllowercase123", "ALLUPPERCASE123", "NoNumbersHere"} {
		_, err := p.HashPassword(weak)
		assert.Error(t, err, weak)
	}
}
