package service

import (
	"testing"
	"time"

	"eatprofile/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Login(t *testing.T) {
	svc := NewAuthService("admin", "s3cret", "test-secret", time.Hour)

	resp, err := svc.Login("admin", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	claims, err := svc.ValidateAdminToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.AdminID, claims.AdminID)

	_, err = svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_EmptyPasswordDisablesLogin(t *testing.T) {
	svc := NewAuthService("admin", "", "test-secret", time.Hour)
	_, err := svc.Login("admin", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RejectsBadTokens(t *testing.T) {
	svc := NewAuthService("admin", "s3cret", "test-secret", time.Hour)
	other := NewAuthService("admin", "s3cret", "other-secret", time.Hour)

	resp, err := other.Login("admin", "s3cret")
	require.NoError(t, err)
	_, err = svc.ValidateAdminToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateAdminToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &model.AdminClaims{
		AdminID: "admin_x",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateAdminToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
