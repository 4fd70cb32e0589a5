// Package auth issues and validates session tokens and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gpatracker/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the session payload. The tenant name lets data requests be routed
// without a user lookup; tenant names are immutable, so this stays valid for
// the token's lifetime. Any future tenant rename must also invalidate tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID     int64  `json:"userId"`
	UserName   string `json:"username"`
	TenantName string `json:"tableName"`
}

// SessionIssuer signs and verifies HS256 session tokens.
type SessionIssuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewSessionIssuer(secretKey []byte, ttl time.Duration) *SessionIssuer {
	return &SessionIssuer{key: secretKey, ttl: ttl, now: time.Now}
}

// Issue returns a signed token for the user valid for the issuer's TTL.
func (s *SessionIssuer) Issue(userID int64, userName, tenantName string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID:     userID,
		UserName:   userName,
		TenantName: tenantName,
	})

	return token.SignedString(s.key)
}

// Validate verifies signature and expiry. An empty token yields
// ErrUnauthenticated; anything else that fails yields ErrInvalidToken (expired
// tokens additionally match ErrTokenExpired).
func (s *SessionIssuer) Validate(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, common.ErrUnauthenticated
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.key, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.TenantName == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
