package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	manager := NewJWTManager("secret")

	token, err := manager.GenerateToken("u1", "admin", "a@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestValidateRejects(t *testing.T) {
	manager := NewJWTManager("secret")

	expired, err := manager.GenerateToken("u1", "user", "", -time.Minute)
	require.NoError(t, err)

	otherKey, err := NewJWTManager("other").GenerateToken("u1", "user", "", time.Hour)
	require.NoError(t, err)

	noUser, err := manager.GenerateToken("", "user", "", time.Hour)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":   expired,
		"other key": otherKey,
		"no user":   noUser,
		"alg none":  unsigned,
		"garbage":   "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := manager.ValidateToken(token)
			assert.Error(t, err)
		})
	}
}
