package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-test-secret-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateAdminToken(t *testing.T) {
	v := NewValidator(testSecret)

	signed := signToken(t, testSecret, jwt.MapClaims{
		"sub":      "alice",
		"es_admin": true,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	claims, err := v.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.True(t, claims.Admin)
}

func TestValidateAbsentClaimsDefault(t *testing.T) {
	v := NewValidator(testSecret)

	signed := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	claims, err := v.Validate(signed)
	require.NoError(t, err)
	assert.Empty(t, claims.Subject)
	assert.False(t, claims.Admin)
}

func TestValidateWrongSecret(t *testing.T) {
	v := NewValidator(testSecret)

	signed := signToken(t, "another-secret-another-secret-123", jwt.MapClaims{
		"sub":      "alice",
		"es_admin": true,
	})

	_, err := v.Validate(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpired(t *testing.T) {
	v := NewValidator(testSecret)

	signed := signToken(t, testSecret, jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	_, err := v.Validate(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateNotYetValid(t *testing.T) {
	v := NewValidator(testSecret)

	signed := signToken(t, testSecret, jwt.MapClaims{
		"sub": "alice",
		"nbf": time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.Validate(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateMalformed(t *testing.T) {
	v := NewValidator(testSecret)

	for _, raw := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := v.Validate(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", raw)
	}
}

func TestValidateRejectsUnsignedAlg(t *testing.T) {
	v := NewValidator(testSecret)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":      "alice",
		"es_admin": true,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = v.Validate(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
