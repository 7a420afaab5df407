// Package auth resolves bearer credentials to owner identities.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/agenthands/jai/internal/apperr"
)

// Resolver maps a raw credential to an owner id. A missing credential is
// Unauthenticated; one that cannot be trusted is Forbidden.
type Resolver interface {
	Resolve(ctx context.Context, credential string) (string, error)
}

// Claims carries the owner as "id" and an optional email.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Email  string `json:"email,omitempty"`
}

// JWT verifies and issues HS256 tokens.
type JWT struct {
	secret []byte
	issuer string
	now    func() time.Time
}

type Option func(*JWT)

func WithIssuer(issuer string) Option {
	return func(j *JWT) { j.issuer = issuer }
}

func WithClock(now func() time.Time) Option {
	return func(j *JWT) { j.now = now }
}

func NewJWT(secret string, opts ...Option) *JWT {
	j := &JWT{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *JWT) Resolve(_ context.Context, credential string) (string, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return "", apperr.Unauthenticated("access token required")
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	}
	if j.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(j.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(credential, claims, func(*jwt.Token) (interface{}, error) {
		return j.secret, nil
	}, parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperr.Forbidden("token expired", err)
		}
		return "", apperr.Forbidden("invalid token", err)
	}
	if !token.Valid || claims.UserID == "" {
		return "", apperr.Forbidden("invalid token", nil)
	}
	return claims.UserID, nil
}

// Issue signs a token for ownerID valid for ttl.
func (j *JWT) Issue(ownerID, email string, ttl time.Duration) (string, error) {
	if ownerID == "" {
		return "", errors.New("owner id is required")
	}
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   ownerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: ownerID,
		Email:  email,
	})
	return token.SignedString(j.secret)
}
