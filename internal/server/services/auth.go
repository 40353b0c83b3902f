package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/server/auth"
	"github.com/dmitrijs2005/portfolio/internal/server/config"
	"golang.org/x/crypto/bcrypt"
)

// Session is an issued admin token.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// AuthService checks the admin password and issues session tokens.
type AuthService struct {
	passwordHash                []byte
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	now                         func() time.Time
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		passwordHash:                []byte(cfg.AdminPasswordHash),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		now:                         time.Now,
	}
}

// Login compares password with the configured bcrypt hash.
func (s *AuthService) Login(ctx context.Context, password string) (*Session, error) {
	if len(s.passwordHash) == 0 {
		return nil, common.ErrPasswordNotSetUp
	}
	if password == "" {
		return nil, common.ErrInvalidPassword
	}

	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	token, expiresAt, err := auth.GenerateToken(s.jwtSecret, s.accessTokenValidityDuration, s.now())
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}

// Verify validates a session token.
func (s *AuthService) Verify(token string) (*auth.Claims, error) {
	return auth.ParseToken(token, s.jwtSecret)
}

// HashPassword returns the bcrypt hash of password for the admin config.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", common.ErrInvalidPassword
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
