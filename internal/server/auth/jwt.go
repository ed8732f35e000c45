// Package auth implements the credential and session primitives of the
// server: password hashing, session token signing/verification, and the
// session cookie lifecycle.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/proxy201/nexus-auth/internal/common"
)

// Claims is the session token payload: the user id under the standard "sub"
// field, the username, plus issued-at and expires-at.
type Claims struct {
	UserID int64  `json:"sub"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies session tokens with a process-wide HS256
// secret. Verification failures of any kind collapse to
// common.ErrInvalidToken so callers cannot distinguish forged, malformed and
// expired tokens.
type TokenService struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewTokenService(secret []byte, validity time.Duration) *TokenService {
	return &TokenService{secret: secret, validity: validity, now: time.Now}
}

// WithClock replaces the time source. Used by tests to probe the expiry
// boundary.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Issue creates a signed session token for the given user.
func (s *TokenService) Issue(userID int64, name string) (string, error) {
	issued := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.validity)),
		},
	})
	return token.SignedString(s.secret)
}

// Verify checks signature and expiry and returns the decoded claims. The
// payload shape is validated as well: a validly signed token whose subject
// is not a positive integer or whose name is empty is rejected.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	if claims.UserID <= 0 || claims.Name == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
