package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(secret, "stayhere", Claims{UID: "u1", Email: "a@b.com", Name: "Ada"}, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UID)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, "stayhere", claims.Issuer)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken(secret, "stayhere", Claims{UID: "u1"}, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(secret, token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(secret, "stayhere", Claims{UID: "u1"}, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken([]byte("other"), token)
	assert.Error(t, err)
}
