package service

import (
	"crypto/subtle"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/student-crm-api/internal/models"
	"github.com/noah-isme/student-crm-api/pkg/config"
	appErrors "github.com/noah-isme/student-crm-api/pkg/errors"
)

const adminScope = "admin"

// AuthService exchanges the shared admin password for a short-lived token.
type AuthService struct {
	cfg    config.AdminConfig
	logger *zap.Logger
}

// NewAuthService constructs the auth service.
func NewAuthService(cfg config.AdminConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{cfg: cfg, logger: logger}
}

// Login verifies the admin password and issues an HS256 access token.
// When ADMIN_PASSWORD_HASH is configured it takes precedence over the
// plaintext ADMIN_PASSWORD.
func (s *AuthService) Login(password string) (*models.AdminLoginResponse, error) {
	if !s.verify(password) {
		return nil, appErrors.Clone(appErrors.ErrInvalidPassword, "")
	}

	now := time.Now()
	expiry := s.cfg.TokenExpiry
	if expiry <= 0 {
		expiry = 2 * time.Hour
	}

	claims := models.AdminClaims{
		Scope: adminScope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.TokenSecret))
	if err != nil {
		s.logger.Error("failed to sign admin token", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue admin token")
	}

	return &models.AdminLoginResponse{
		AccessToken: signed,
		ExpiresIn:   int64(expiry.Seconds()),
	}, nil
}

// ValidateToken parses and verifies an admin access token.
func (s *AuthService) ValidateToken(tokenString string) (*models.AdminClaims, error) {
	claims := &models.AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return []byte(s.cfg.TokenSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	if claims.Scope != adminScope {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "insufficient scope")
	}
	return claims, nil
}

func (s *AuthService) verify(password string) bool {
	if s.cfg.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(password)) == nil
	}
	if s.cfg.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.cfg.Password), []byte(password)) == 1
}
