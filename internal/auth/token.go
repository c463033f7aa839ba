package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// FarFutureExpiry is the expiry stamped on tokens when no TTL is configured.
const FarFutureExpiry int64 = 10000000000

var (
	// ErrMissingSecret is returned when no signing secret is available.
	ErrMissingSecret = errors.New("jwt secret is not set")
	// ErrInvalidToken is returned when a token fails verification.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the signed payload of a login token.
type Claims struct {
	jwt.RegisteredClaims
}

// SecretFunc supplies the signing secret when a token is issued or parsed.
type SecretFunc func() (string, error)

// EnvSecret reads the secret from the environment variable key on every call.
func EnvSecret(key string) SecretFunc {
	return func() (string, error) {
		secret := strings.TrimSpace(os.Getenv(key))
		if secret == "" {
			return "", fmt.Errorf("%w: %s", ErrMissingSecret, key)
		}
		return secret, nil
	}
}

// StaticSecret always returns secret.
func StaticSecret(secret string) SecretFunc {
	return func() (string, error) {
		if strings.TrimSpace(secret) == "" {
			return "", ErrMissingSecret
		}
		return secret, nil
	}
}

// TokenIssuer signs and verifies HS256 tokens.
type TokenIssuer struct {
	secret SecretFunc
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer builds an issuer. A zero ttl stamps FarFutureExpiry on every token.
func NewTokenIssuer(secret SecretFunc, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// NewClaims builds claims for subject.
func (i *TokenIssuer) NewClaims(subject string) Claims {
	now := i.now()
	expiresAt := time.Unix(FarFutureExpiry, 0)
	if i.ttl > 0 {
		expiresAt = now.Add(i.ttl)
	}
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
}

// Issue signs claims with the current secret.
func (i *TokenIssuer) Issue(claims Claims) (string, error) {
	secret, err := i.secret()
	if err != nil {
		return "", err
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies tokenString and returns its claims.
func (i *TokenIssuer) Parse(tokenString string) (Claims, error) {
	secret, err := i.secret()
	if err != nil {
		return Claims{}, err
	}

	claims := Claims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}
