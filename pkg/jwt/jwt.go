package jwt

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims is the payload of an NYC360 access token. The identity provider
// has shipped several claim spellings; UnmarshalJSON accepts all of them.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string   `json:"id,omitempty"`
	Username string   `json:"username,omitempty"`
	FullName string   `json:"name,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// UnmarshalJSON reads id/userId/sub as string or number, username from
// username/unique_name/email, and roles from a string or a list under
// roles or role.
func (c *Claims) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &c.RegisteredClaims); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.UserID = firstString(raw, "id", "userId", "nameid", "sub")
	c.Username = firstString(raw, "username", "unique_name", "email")
	c.FullName = firstString(raw, "name", "fullName")
	c.Roles = stringList(raw, "roles", "role")
	return nil
}

// ID returns the numeric user id, or 0 when the token carries none
func (c *Claims) ID() int64 {
	id, err := strconv.ParseInt(c.UserID, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Manager verifies and issues HMAC signed tokens
type Manager struct {
	secretKey []byte
	expiresIn time.Duration
}

// NewManager creates a manager. expiresIn is only used by Issue.
func NewManager(secret string, expiresIn time.Duration) *Manager {
	if expiresIn <= 0 {
		expiresIn = time.Hour
	}
	return &Manager{secretKey: []byte(secret), expiresIn: expiresIn}
}

// Verify parses tokenString and returns its claims
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// Issue signs a token for the given identity. Used by local tooling and tests;
// production tokens come from the NYC360 identity service.
func (m *Manager) Issue(userID int64, username, fullName string, roles ...string) (string, error) {
	now := time.Now()
	claims := map[string]any{
		"id":       strconv.FormatInt(userID, 10),
		"username": username,
		"name":     fullName,
		"roles":    roles,
		"iat":      now.Unix(),
		"exp":      now.Add(m.expiresIn).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims(claims))
	return token.SignedString(m.secretKey)
}

func firstString(raw map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil && s != "" {
			return s
		}
		var n json.Number
		if err := json.Unmarshal(v, &n); err == nil && n != "" {
			return n.String()
		}
	}
	return ""
}

func stringList(raw map[string]json.RawMessage, keys ...string) []string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		var list []string
		if err := json.Unmarshal(v, &list); err == nil {
			return list
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil && s != "" {
			return []string{s}
		}
	}
	return nil
}
