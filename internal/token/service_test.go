package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	svc := NewService("test_secret", 7*24*time.Hour)
	userID := uuid.New()

	tokenString, err := svc.Issue("alice", userID)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := svc.Verify(tokenString)
	require.NoError(t, err)

	// Утверждения восстанавливаются без искажений
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, userID, claims.UserID)
	assert.NotNil(t, claims.IssuedAt)
	assert.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestVerifyExpiredToken(t *testing.T) {
	// Отрицательный TTL — токен истекает в момент выпуска
	svc := NewService("test_secret", -time.Hour)

	tokenString, err := svc.Issue("alice", uuid.New())
	require.NoError(t, err)

	claims, err := svc.Verify(tokenString)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewService("secret_one", time.Hour)
	verifier := NewService("secret_two", time.Hour)

	tokenString, err := issuer.Issue("alice", uuid.New())
	require.NoError(t, err)

	claims, err := verifier.Verify(tokenString)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformedToken(t *testing.T) {
	svc := NewService("test_secret", time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{name: "пустая строка", token: ""},
		{name: "мусор", token: "not-a-token"},
		{name: "обрезанный токен", token: "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ4In0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.Verify(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
