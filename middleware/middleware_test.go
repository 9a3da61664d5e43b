package middleware

import (
	"testing"
	"time"

	"philately/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T) string {
	t.Helper()
	claims := &Claims{
		Username: "collector",
		UserID:   "u1234567890",
		Role:     []string{"user"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	require.NoError(t, err)
	return token
}

func TestValidateJWTRequiresBearerScheme(t *testing.T) {
	token := signedToken(t)

	// A raw token without the scheme is rejected outright, not sliced blindly.
	_, err := ValidateJWT(token)
	assert.EqualError(t, err, "invalid token")

	_, err = ValidateJWT("")
	assert.EqualError(t, err, "invalid token")

	claims, err := ValidateJWT("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "u1234567890", claims.UserID)
	assert.Equal(t, []string{"user"}, claims.Role)
}

func TestValidateJWTRejectsTamperedToken(t *testing.T) {
	token := signedToken(t)

	_, err := ValidateJWT("Bearer " + token + "x")
	assert.Error(t, err)
}
