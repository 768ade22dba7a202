package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dom/shift-monitor/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenMalformed = fmt.Errorf("%w: malformed token", domain.ErrNotAuthenticated)
	ErrTokenSignature = fmt.Errorf("%w: token signature mismatch", domain.ErrNotAuthenticated)
	ErrTokenExpired   = fmt.Errorf("%w: token expired", domain.ErrNotAuthenticated)
)

// Claims is the decoded payload of a session token.
type Claims struct {
	UserID      uuid.UUID
	AccessLevel domain.AccessLevel
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

type tokenClaims struct {
	AccessLevel string `json:"nivel_acesso"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 session tokens with one process-wide secret.
// Changing the secret invalidates every outstanding token.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock returns a copy of c that reads time from now.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	cp := *c
	cp.now = now
	return &cp
}

func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue mints a token for userID at the given access level, expiring after the codec TTL.
func (c *TokenCodec) Issue(userID uuid.UUID, level domain.AccessLevel) (string, error) {
	return c.IssueWithTTL(userID, level, c.ttl)
}

func (c *TokenCodec) IssueWithTTL(userID uuid.UUID, level domain.AccessLevel, ttl time.Duration) (string, error) {
	if !level.IsValid() {
		return "", fmt.Errorf("issue token: unknown access level %q", level)
	}
	now := c.now()
	claims := tokenClaims{
		AccessLevel: level.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify checks signature and expiry and decodes the claims. Errors are
// ErrTokenMalformed, ErrTokenSignature or ErrTokenExpired.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, c.key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, classifyTokenError(err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrTokenMalformed)
	}
	level, err := domain.ParseAccessLevel(claims.AccessLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	out := &Claims{
		UserID:      userID,
		AccessLevel: level,
		ExpiresAt:   claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

func (c *TokenCodec) key(*jwt.Token) (interface{}, error) {
	return c.secret, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrTokenSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}
