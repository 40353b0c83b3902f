// Package auth issues and verifies the admin session tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// AdminSubject is the subject of every admin token; there is a single admin.
const AdminSubject = "admin"

// ErrTokenExpired is returned for well-formed tokens past their expiry.
var ErrTokenExpired = errors.New("token expired")

// Claims carries the registered claims plus the login time of the session.
type Claims struct {
	jwt.RegisteredClaims
	Authenticated bool      `json:"authenticated"`
	LoginTime     time.Time `json:"loginTime"`
}

// GenerateToken signs an HS256 admin token valid for validityDuration from
// now and returns it together with its expiry.
func GenerateToken(secretKey []byte, validityDuration time.Duration, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(validityDuration)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   AdminSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Authenticated: true,
		LoginTime:     now,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken verifies tokenString and returns its claims.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	if !token.Valid || !claims.Authenticated || claims.Subject != AdminSubject {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}
