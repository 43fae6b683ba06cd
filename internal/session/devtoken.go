package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DevTokenIssuer mints and validates short-lived HS256 tokens for local
// development sign-in, where no external identity provider is configured.
type DevTokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewDevTokenIssuer creates an issuer from a shared secret. TTL defaults to
// one hour when zero.
func NewDevTokenIssuer(secret string, ttl time.Duration) (*DevTokenIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("dev token secret is required")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &DevTokenIssuer{secret: []byte(secret), ttl: ttl}, nil
}

// Issue mints a signed token for the given user.
func (i *DevTokenIssuer) Issue(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(i.ttl).Unix(),
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign dev token: %w", err)
	}
	return signed, nil
}

// Validate parses a token minted by Issue and returns the identity it names.
func (i *DevTokenIssuer) Validate(tokenString string) (*ProviderIdentity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse dev token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type")
	}
	sub, _ := claims["sub"].(string)

	identity := &ProviderIdentity{UserID: sub, AccessToken: tokenString}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		secs := int64(time.Until(exp.Time).Seconds())
		identity.ExpiresIn = &secs
	}
	return identity, nil
}

// DevProvider is the IdentityProvider for local development: its handshake
// mints a token for a fixed user instead of talking to an external issuer.
type DevProvider struct {
	issuer *DevTokenIssuer
	userID string
}

// NewDevProvider creates a provider that signs in as userID.
func NewDevProvider(issuer *DevTokenIssuer, userID string) *DevProvider {
	return &DevProvider{issuer: issuer, userID: userID}
}

func (d *DevProvider) Name() string { return "dev" }

func (d *DevProvider) Handshake(_ context.Context) (*ProviderIdentity, error) {
	token, err := d.issuer.Issue(d.userID)
	if err != nil {
		return nil, err
	}
	return d.issuer.Validate(token)
}

func (d *DevProvider) SignOut(_ context.Context) error { return nil }
