package server

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/slide-deck-generator/internal/config"
)

func setupTestTokenService(_ *testing.T, expirationHours int) *TokenService {
	cfg := &config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing-minimum-32-bytes",
		ExpirationHours: expirationHours,
		Issuer:          "slide-agent",
	}
	return NewTokenService(cfg)
}

func TestTokenService_GenerateToken(t *testing.T) {
	service := setupTestTokenService(t, 24)

	token, err := service.GenerateToken("slides-web")
	require.NoError(t, err)

	// Test token format is valid JWT (three parts separated by dots)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "slides-web", claims.Subject)
	assert.Equal(t, "slide-agent", claims.Issuer)
	assert.NotEmpty(t, claims.ID)

	_, err = service.GenerateToken("")
	assert.Error(t, err)
}

func TestTokenService_UniqueTokens(t *testing.T) {
	service := setupTestTokenService(t, 24)

	token1, err := service.GenerateToken("a")
	require.NoError(t, err)
	token2, err := service.GenerateToken("a")
	require.NoError(t, err)
	assert.NotEqual(t, token1, token2, "token IDs make every token unique")
}

func TestTokenService_ValidateToken_Errors(t *testing.T) {
	service := setupTestTokenService(t, 24)
	token, err := service.GenerateToken("slides-web")
	require.NoError(t, err)

	other := NewTokenService(&config.JWTConfig{Secret: "a-different-secret-of-some-length", ExpirationHours: 24, Issuer: "slide-agent"})
	_, err = other.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signature")

	_, err = service.ValidateToken("")
	assert.Error(t, err)

	_, err = service.ValidateToken("not.a.jwt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")

	wrongIssuer := NewTokenService(&config.JWTConfig{Secret: "test-secret-key-for-jwt-signing-minimum-32-bytes", ExpirationHours: 24, Issuer: "someone-else"})
	_, err = wrongIssuer.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	service := setupTestTokenService(t, 24)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject: "attacker",
		Issuer:  "slide-agent",
	}})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = service.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestTokenService_Expiration(t *testing.T) {
	service := setupTestTokenService(t, 1)
	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return issued }

	token, err := service.GenerateToken("slides-web")
	require.NoError(t, err)

	service.now = func() time.Time { return issued.Add(59 * time.Minute) }
	_, err = service.ValidateToken(token)
	require.NoError(t, err)

	service.now = func() time.Time { return issued.Add(61 * time.Minute) }
	_, err = service.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestTokenService_AsTokenValidator(t *testing.T) {
	service := setupTestTokenService(t, 24)
	token, err := service.GenerateToken("cli")
	require.NoError(t, err)

	claims, err := service.AsTokenValidator().ValidateToken(token)
	require.NoError(t, err)
	subject, err := claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "cli", subject)

	_, err = service.AsTokenValidator().ValidateToken("garbage")
	assert.Error(t, err)
}
