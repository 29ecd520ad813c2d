package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tiksliukai-lt/tutoring-service/internal/models"
	"github.com/tiksliukai-lt/tutoring-service/internal/repositories"
	"github.com/tiksliukai-lt/tutoring-service/internal/validator"
)

const tokenIssuer = "tiksliukai.lt"

// SessionClaims is the signed session artifact: account id (subject) and
// role, consumed by the auth middleware to branch views. Not backed by any
// server-side session store.
type SessionClaims struct {
	Role  models.UserRole `json:"role"`
	Email string          `json:"email"`
	jwt.RegisteredClaims
}

// AuthConfig carries the session-token settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type authService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	config    AuthConfig
}

func NewAuthService(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	config AuthConfig,
) AuthService {
	return &authService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		config:    config,
	}
}

// Login verifies submitted credentials and issues a session token. Every
// verification miss collapses into ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, ErrInvalidCredentials
	}

	email := NormalizeEmail(req.Email)

	accountID, err := s.repo.Credentials().Verify(ctx, email, req.Password)
	if err != nil {
		s.logger.Debug("login rejected", "email", email)
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.User().GetByID(ctx, accountID)
	if err != nil {
		// Credential without a profile should not happen; treat as a miss.
		s.logger.Warn("credential verified but profile missing", "account_id", accountID)
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.config.TokenTTL)
	claims := SessionClaims{
		Role:  user.Role,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	s.logger.Info("session issued", "account_id", user.ID, "role", user.Role)

	return &LoginResult{
		Token:     token,
		AccountID: user.ID,
		Role:      user.Role,
		ExpiresAt: expiresAt,
	}, nil
}

// ParseToken validates a session token and returns its claims.
func (s *authService) ParseToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	return claims, nil
}
