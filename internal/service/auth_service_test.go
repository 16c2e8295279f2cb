package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/edushare/edushare-api/internal/models"
	appErrors "github.com/edushare/edushare-api/pkg/errors"
)

func newAuthService(t *testing.T) *AuthService {
	hash, err := bcrypt.GenerateFromPassword([]byte("edushare@123"), bcrypt.MinCost)
	require.NoError(t, err)
	verifier := NewStaticVerifier("admin@admin.com", string(hash), "")
	return NewAuthService(verifier, "test_secret", time.Hour, "edushare-api", zap.NewNop())
}

func TestAuthServiceLoginIssuesValidToken(t *testing.T) {
	svc := newAuthService(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "Admin@Admin.com",
		Password: "edushare@123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, models.RoleLecturer, resp.User.Role)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin@admin.com", claims.Email)
	assert.True(t, claims.Identity().IsPrivileged())
}

func TestAuthServiceLoginRejectsWrongPassword(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@admin.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAuthServiceLoginRejectsUnknownEmail(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "someone@else.com",
		Password: "edushare@123",
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestStaticVerifierFallbackPassword(t *testing.T) {
	verifier := NewStaticVerifier("admin@admin.com", "", "edushare@123")

	identity, err := verifier.Verify(context.Background(), "admin@admin.com", "edushare@123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleLecturer, identity.Role)

	_, err = verifier.Verify(context.Background(), "admin@admin.com", "nope")
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthServiceValidateTokenRejectsForeignSignature(t *testing.T) {
	svc := newAuthService(t)
	other := NewAuthService(NewStaticVerifier("admin@admin.com", "", "edushare@123"), "other_secret", time.Hour, "edushare-api", zap.NewNop())

	resp, err := other.Login(context.Background(), models.LoginRequest{Email: "admin@admin.com", Password: "edushare@123"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}
