package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripledger/internal/models"
)

const testSecret = "test-secret-key-that-is-long-enough"

func TestGenerateAndValidate(t *testing.T) {
	m := NewJWTManager(testSecret, "tripledger", time.Hour)

	token, err := m.Generate(&models.User{ID: "user-1", Email: "a@example.com"})
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestValidateRejects(t *testing.T) {
	m := NewJWTManager(testSecret, "tripledger", time.Hour)
	user := &models.User{ID: "user-1"}

	expired, err := NewJWTManager(testSecret, "tripledger", -time.Minute).Generate(user)
	require.NoError(t, err)
	otherSecret, err := NewJWTManager("another-secret", "tripledger", time.Hour).Generate(user)
	require.NoError(t, err)
	otherIssuer, err := NewJWTManager(testSecret, "someone-else", time.Hour).Generate(user)
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "tripledger"},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"expired", expired},
		{"wrong secret", otherSecret},
		{"wrong issuer", otherIssuer},
		{"no subject", noSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Validate(tt.token)
			assert.True(t, errors.Is(err, ErrInvalidToken), "got %v", err)
		})
	}
}

func TestValidateSubjectOnly(t *testing.T) {
	m := NewJWTManager(testSecret, "", time.Hour)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-9",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", claims.UserID)
}

func TestBearerToken(t *testing.T) {
	token, err := BearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	_, err = BearerToken("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = BearerToken("Basic dXNlcjpwYXNz")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = BearerToken("Bearer")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
