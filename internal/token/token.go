// Package token implements the identity/token issuer collaborator: it signs
// JWTs at login and turns bearer tokens back into an authenticated identity.
// The rest of the system trusts the identity without re-verifying credentials.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pdfmarket/internal/config"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is the authenticated caller extracted from a verified token.
type Identity struct {
	UserID   string
	UserName string
	Role     string
}

// Issuer signs and verifies HS256 JWTs.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewIssuer creates an Issuer from config. The secret must be non-empty.
func NewIssuer(cfg config.JWTConfig) (*Issuer, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	ttl := time.Duration(cfg.TTLMin) * time.Minute
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Issuer{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    ttl,
	}, nil
}

// Issue signs a token carrying the user's id, display name and role.
func (i *Issuer) Issue(userID, userName, role string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  userID,
		"name": userName,
		"role": role,
		"iss":  i.issuer,
		"iat":  now.Unix(),
		"exp":  now.Add(i.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a signed token and returns the caller identity.
func (i *Issuer) Verify(raw string) (*Identity, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)

	return &Identity{UserID: sub, UserName: name, Role: role}, nil
}
