package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/student-crm-api/pkg/config"
	appErrors "github.com/noah-isme/student-crm-api/pkg/errors"
)

func newAuthService(cfg config.AdminConfig) *AuthService {
	return NewAuthService(cfg, zap.NewNop())
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	svc := newAuthService(config.AdminConfig{Password: "admin", TokenSecret: "secret", TokenExpiry: time.Hour})

	res, err := svc.Login("admin")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Scope)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc := newAuthService(config.AdminConfig{Password: "admin", TokenSecret: "secret", TokenExpiry: time.Hour})

	_, err := svc.Login("wrong")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidPassword.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginHashTakesPrecedence(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-secret"), bcrypt.DefaultCost)
	require.NoError(t, err)
	svc := newAuthService(config.AdminConfig{Password: "admin", PasswordHash: string(hash), TokenSecret: "secret", TokenExpiry: time.Hour})

	_, err = svc.Login("admin")
	require.Error(t, err)

	res, err := svc.Login("hashed-secret")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
}

func TestAuthServiceValidateTokenWrongSecret(t *testing.T) {
	issuer := newAuthService(config.AdminConfig{Password: "admin", TokenSecret: "secret-a", TokenExpiry: time.Hour})
	verifier := newAuthService(config.AdminConfig{Password: "admin", TokenSecret: "secret-b", TokenExpiry: time.Hour})

	res, err := issuer.Login("admin")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(res.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenGarbage(t *testing.T) {
	svc := newAuthService(config.AdminConfig{Password: "admin", TokenSecret: "secret", TokenExpiry: time.Hour})

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
