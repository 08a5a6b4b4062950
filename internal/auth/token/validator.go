package token

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed structure, expired, not yet valid, wrong algorithm. Callers
// must not be able to distinguish these cases.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the verified subset of token claims the service consumes.
// Absent claims are not an error: empty Subject means anonymous, Admin
// defaults to false.
type Claims struct {
	Subject string
	Admin   bool
}

// Validator verifies HMAC-signed bearer tokens against a shared secret.
// It holds no mutable state and is safe for concurrent use.
type Validator struct {
	secret []byte
}

func NewValidator(secret string) *Validator {
	return &Validator{secret: []byte(secret)}
}

// Validate parses and verifies a token string, returning the consumed
// claims. exp and nbf are honored when present.
func (v *Validator) Validate(tokenString string) (*Claims, error) {
	parsed, err := jwt.Parse(strings.TrimSpace(tokenString), func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	if subject, ok := mapClaims["sub"].(string); ok {
		claims.Subject = subject
	}
	if admin, ok := mapClaims["es_admin"].(bool); ok {
		claims.Admin = admin
	}
	return claims, nil
}
