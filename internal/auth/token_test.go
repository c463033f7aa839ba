package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer(StaticSecret("test-secret"), 0)

	token, err := issuer.Issue(issuer.NewClaims("a@x.com"))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Subject)
	assert.Equal(t, FarFutureExpiry, claims.ExpiresAt.Unix())
}

func TestIssueReadsSecretAtCallTime(t *testing.T) {
	issuer := NewTokenIssuer(EnvSecret("JWT_SECRET"), 0)

	t.Setenv("JWT_SECRET", "")
	_, err := issuer.Issue(issuer.NewClaims("a@x.com"))
	assert.ErrorIs(t, err, ErrMissingSecret)

	t.Setenv("JWT_SECRET", "later-secret")
	token, err := issuer.Issue(issuer.NewClaims("a@x.com"))
	require.NoError(t, err)

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return []byte("later-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	signer := NewTokenIssuer(StaticSecret("one"), 0)
	verifier := NewTokenIssuer(StaticSecret("two"), 0)

	token, err := signer.Issue(signer.NewClaims("a@x.com"))
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer(StaticSecret("test-secret"), time.Minute)
	issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issued }

	token, err := issuer.Issue(issuer.NewClaims("a@x.com"))
	require.NoError(t, err)

	issuer.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsNonHMAC(t *testing.T) {
	issuer := NewTokenIssuer(StaticSecret("test-secret"), 0)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, issuer.NewClaims("a@x.com")).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewClaimsWithTTL(t *testing.T) {
	issuer := NewTokenIssuer(StaticSecret("test-secret"), time.Hour)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return now }

	claims := issuer.NewClaims("a@x.com")
	assert.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.Equal(t, now.Unix(), claims.IssuedAt.Unix())
}
