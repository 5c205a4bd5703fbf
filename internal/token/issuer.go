// Package token issues and validates the stateless HS256 session tokens
// handed to clients after register/login.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ErlanBelekov/item-tracker/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is what a validated token asserts about its bearer.
type Identity struct {
	UserID   int64
	Email    string
	FullName string
}

// Claims is the JWT payload. Subject carries the user id as a decimal string.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

type Issuer struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

type Option func(*Issuer)

// WithClock overrides time.Now for issuing and validating.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

func NewIssuer(key []byte, issuer, audience string, ttl time.Duration, opts ...Option) *Issuer {
	i := &Issuer{
		key:      key,
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// TTL reports how long issued tokens stay valid.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token for user. The returned expiry matches the exp claim,
// which has second precision.
func (i *Issuer) Issue(user *domain.User) (string, time.Time, error) {
	if user == nil {
		return "", time.Time{}, errors.New("issue token: nil user")
	}

	now := i.now()
	exp := jwt.NewNumericDate(now.Add(i.ttl))

	claims := Claims{
		Email: user.Email,
		Name:  user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: exp,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign jwt: %w", err)
	}
	return signed, exp.Time.UTC(), nil
}

// Validate verifies signature, algorithm, issuer, audience and expiry with
// no leeway. Every failure wraps domain.ErrTokenInvalid.
func (i *Issuer) Validate(raw string) (*Identity, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithAudience(i.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(0),
		jwt.WithTimeFunc(i.now),
	)

	var claims Claims
	tok, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return i.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenInvalid, err)
	}
	if !tok.Valid {
		return nil, domain.ErrTokenInvalid
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("%w: bad subject %q", domain.ErrTokenInvalid, claims.Subject)
	}

	return &Identity{
		UserID:   userID,
		Email:    claims.Email,
		FullName: claims.Name,
	}, nil
}
