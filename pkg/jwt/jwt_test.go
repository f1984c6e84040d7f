package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("secret", time.Minute)
	token, err := m.Issue(42, "maya", "Maya R", "Admin")
	require.NoError(t, err)

	claims, err := m.Verify("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.ID())
	assert.Equal(t, "maya", claims.Username)
	assert.Equal(t, "Maya R", claims.FullName)
	assert.Equal(t, []string{"Admin"}, claims.Roles)
}

func TestVerify_AlternateClaimSpellings(t *testing.T) {
	m := NewManager("secret", 0)
	token := sign(t, "secret", jwt.MapClaims{
		"userId":      17,
		"unique_name": "jo",
		"role":        "User",
		"exp":         time.Now().Add(time.Minute).Unix(),
	})

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(17), claims.ID())
	assert.Equal(t, "jo", claims.Username)
	assert.Equal(t, []string{"User"}, claims.Roles)
}

func TestVerify_Failures(t *testing.T) {
	m := NewManager("secret", 0)

	expired := sign(t, "secret", jwt.MapClaims{"id": "1", "exp": time.Now().Add(-time.Minute).Unix()})
	_, err := m.Verify(expired)
	assert.ErrorIs(t, err, ErrExpiredToken)

	forged := sign(t, "other", jwt.MapClaims{"id": "1"})
	_, err = m.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
