package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/save-n-serve/internal/model"
)

const testSecret = "test-secret-key-0123456789abcdef"

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	uid := int64(42)
	token, err := svc.Issue("a@x.com", model.RoleBuyer, &uid)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.Equal(t, model.RoleBuyer, claims.Role)
	require.NotNil(t, claims.UserID)
	assert.Equal(t, int64(42), *claims.UserID)

	assert.True(t, svc.Validate(token))
	assert.True(t, svc.ValidateFor(token, "a@x.com"))
	assert.False(t, svc.ValidateFor(token, "b@x.com"))
}

func TestTokenService_AdminTokenOmitsUserID(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	token, err := svc.Issue("admin", model.RoleAdmin, nil)
	require.NoError(t, err)

	claims, err := svc.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Nil(t, claims.UserID)
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService(testSecret, -time.Minute)

	token, err := svc.Issue("a@x.com", model.RoleBuyer, nil)
	require.NoError(t, err)

	_, err = svc.Decode(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.False(t, svc.Validate(token))
}

func TestTokenService_WrongKey(t *testing.T) {
	issuer := NewTokenService(testSecret, time.Hour)
	verifier := NewTokenService("another-secret-key", time.Hour)

	token, err := issuer.Issue("a@x.com", model.RoleBuyer, nil)
	require.NoError(t, err)

	_, err = verifier.Decode(token)
	assert.ErrorIs(t, err, ErrSignatureInvalid)
	assert.False(t, verifier.Validate(token))
}

func TestTokenService_Malformed(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-token"},
		{name: "truncated", token: "eyJhbGciOiJIUzI1NiJ9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Decode(tt.token)
			assert.ErrorIs(t, err, ErrTokenMalformed)
			assert.False(t, svc.Validate(tt.token))
		})
	}
}
