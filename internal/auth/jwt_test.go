package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/jai/internal/apperr"
)

func TestIssueAndResolve(t *testing.T) {
	j := NewJWT("super-secret", WithIssuer("jai"))

	tok, err := j.Issue("user-123", "a@example.com", time.Hour)
	require.NoError(t, err)

	owner, err := j.Resolve(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", owner)
}

func TestResolve_Missing(t *testing.T) {
	_, err := NewJWT("s").Resolve(context.Background(), "  ")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestResolve_Expired(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer := NewJWT("s", WithClock(func() time.Time { return issuedAt }))
	tok, err := issuer.Issue("u1", "", time.Minute)
	require.NoError(t, err)

	later := NewJWT("s", WithClock(func() time.Time { return issuedAt.Add(time.Hour) }))
	_, err = later.Resolve(context.Background(), tok)
	require.ErrorIs(t, err, apperr.ErrForbidden)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestResolve_Forbidden(t *testing.T) {
	j := NewJWT("right", WithIssuer("jai"))

	wrongSecret, err := NewJWT("wrong", WithIssuer("jai")).Issue("u1", "", time.Hour)
	require.NoError(t, err)

	wrongIssuer, err := NewJWT("right", WithIssuer("someone-else")).Issue("u1", "", time.Hour)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "jai"},
		UserID:           "u1",
	}).SignedString([]byte("right"))
	require.NoError(t, err)

	noOwner, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "jai", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("right"))
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "jai", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "u1",
	}).SignedString([]byte("right"))
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"garbage":      "not.a.jwt",
		"wrong secret": wrongSecret,
		"wrong issuer": wrongIssuer,
		"no expiry":    noExp,
		"no owner":     noOwner,
		"other alg":    hs512,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := j.Resolve(context.Background(), tok)
			assert.ErrorIs(t, err, apperr.ErrForbidden)
		})
	}
}

func TestIssue_RequiresOwner(t *testing.T) {
	_, err := NewJWT("s").Issue("", "", time.Hour)
	assert.Error(t, err)
}

func TestClaimsWireNames(t *testing.T) {
	j := NewJWT("s")
	tok, err := j.Issue("u9", "u9@example.com", time.Hour)
	require.NoError(t, err)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)
	assert.Equal(t, "u9", claims.UserID)
	assert.Equal(t, "u9@example.com", claims.Email)

	raw := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, raw)
	require.NoError(t, err)
	assert.Equal(t, "u9", raw["id"])
	assert.Equal(t, "u9@example.com", raw["email"])
}
