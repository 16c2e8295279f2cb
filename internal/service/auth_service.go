package service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/edushare/edushare-api/internal/models"
	appErrors "github.com/edushare/edushare-api/pkg/errors"
)

// CredentialVerifier checks a credential pair and returns the identity it
// grants. Implementations decide where credentials live; the service only
// cares that verification either yields an identity or fails.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (models.Identity, error)
}

// StaticVerifier grants the lecturer role to a single configured credential
// pair. Passwords are checked against a bcrypt hash when one is configured,
// otherwise against the plaintext fallback.
type StaticVerifier struct {
	email        string
	passwordHash string
	fallback     string
}

// NewStaticVerifier builds the default single-lecturer verifier.
func NewStaticVerifier(email, passwordHash, fallbackPassword string) *StaticVerifier {
	return &StaticVerifier{email: email, passwordHash: passwordHash, fallback: fallbackPassword}
}

// Verify implements CredentialVerifier.
func (v *StaticVerifier) Verify(_ context.Context, email, password string) (models.Identity, error) {
	if models.NormalizeEmail(email) != models.NormalizeEmail(v.email) {
		return models.Identity{}, appErrors.ErrInvalidCredentials
	}
	if v.passwordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(v.passwordHash), []byte(password)); err != nil {
			return models.Identity{}, appErrors.ErrInvalidCredentials
		}
	} else if subtle.ConstantTimeCompare([]byte(password), []byte(v.fallback)) != 1 {
		return models.Identity{}, appErrors.ErrInvalidCredentials
	}
	return models.Identity{Email: models.NormalizeEmail(v.email), Role: models.RoleLecturer}, nil
}

// AuthService authenticates the lecturer and manages session tokens.
type AuthService struct {
	verifier    CredentialVerifier
	jwtSecret   []byte
	tokenExpiry time.Duration
	issuer      string
	logger      *zap.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(verifier CredentialVerifier, jwtSecret string, tokenExpiry time.Duration, issuer string, logger *zap.Logger) *AuthService {
	if tokenExpiry <= 0 {
		tokenExpiry = 24 * time.Hour
	}
	return &AuthService{
		verifier:    verifier,
		jwtSecret:   []byte(jwtSecret),
		tokenExpiry: tokenExpiry,
		issuer:      issuer,
		logger:      logger,
	}
}

// Login verifies the credential pair and issues a signed session token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	identity, err := s.verifier.Verify(ctx, req.Email, req.Password)
	if err != nil {
		s.logger.Warn("login rejected", zap.String("email", models.NormalizeEmail(req.Email)))
		return nil, appErrors.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	claims := models.JWTClaims{
		Email: identity.Email,
		Role:  identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Email,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	s.logger.Info("lecturer logged in", zap.String("email", identity.Email))
	return &models.LoginResponse{
		AccessToken: signed,
		ExpiresIn:   int64(s.tokenExpiry.Seconds()),
		IssuedAt:    now,
		User:        identity,
	}, nil
}

// ValidateToken parses and verifies a session token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.ErrUnauthorized
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.ErrUnauthorized
	}
	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok {
		return nil, appErrors.ErrUnauthorized
	}
	return claims, nil
}
