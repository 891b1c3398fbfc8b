package session

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const (
	TierDurable   = "durable"
	TierEphemeral = "ephemeral"

	keySize = 32
)

type itemsClaims struct {
	Items map[string]string `json:"items"`
	jwt.RegisteredClaims
}

// Codec signs a tier's items into a compact JWT. Each tier derives its own
// HMAC key, so a value minted for one tier does not verify in the other.
type Codec struct {
	tier string
	key  []byte
	ttl  time.Duration
	now  func() time.Time
}

func NewCodec(secret string, tier string, ttl time.Duration) (*Codec, error) {
	if len(secret) < keySize {
		return nil, fmt.Errorf("session secret must be at least %d bytes", keySize)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%s session ttl must be positive", tier)
	}

	key := make([]byte, keySize)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("course-portal/session/"+tier))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive %s session key: %w", tier, err)
	}

	return &Codec{tier: tier, key: key, ttl: ttl, now: time.Now}, nil
}

func (c *Codec) Tier() string {
	return c.tier
}

func (c *Codec) TTL() time.Duration {
	return c.ttl
}

func (c *Codec) Encode(items map[string]string) (string, error) {
	now := c.now()
	claims := itemsClaims{
		Items: items,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.tier,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign %s session: %w", c.tier, err)
	}
	return signed, nil
}

func (c *Codec) Decode(value string) (map[string]string, error) {
	claims := &itemsClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (any, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithSubject(c.tier),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parse %s session: %w", c.tier, err)
	}
	if !token.Valid {
		return nil, errors.New("invalid session token")
	}

	if claims.Items == nil {
		claims.Items = map[string]string{}
	}
	return claims.Items, nil
}
