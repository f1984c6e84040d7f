package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nyc360/feed-engine/internal/common"
	"github.com/nyc360/feed-engine/internal/session"
	"github.com/nyc360/feed-engine/pkg/jwt"
)

const (
	userKey   = "session_user"
	viewerKey = "viewer_key"

	// ViewerCookie keeps anonymous viewers on the same workspace
	ViewerCookie = "nyc360_viewer"
	// TokenCookie may carry the upstream access token instead of the header
	TokenCookie = "nyc360_token"
)

// Viewer resolves who is calling. A valid bearer token signs the viewer in
// and the token is kept for forwarding upstream. Without a token the viewer
// is anonymous and identified by a cookie. A token that fails verification
// is rejected so the client can refresh it.
func Viewer(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Set(viewerKey, anonymousKey(c))
			c.Next()
			return
		}

		claims, err := jwtManager.Verify(token)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, http.StatusUnauthorized, "Token expired", common.ErrExpiredToken)
			} else {
				common.ErrorResponse(c, http.StatusUnauthorized, "Invalid token", common.ErrInvalidToken)
			}
			c.Abort()
			return
		}

		user := &session.User{
			ID:       claims.ID(),
			Username: claims.Username,
			FullName: claims.FullName,
			Roles:    claims.Roles,
			Token:    token,
		}
		c.Set(userKey, user)
		c.Set(viewerKey, "user:"+user.IDString())
		c.Next()
	}
}

// RequireLogin rejects anonymous viewers
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetSessionUser(c) == nil {
			common.ErrorResponse(c, http.StatusUnauthorized, "Login required", common.ErrLoginRequired)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetSessionUser returns the signed-in user or nil
func GetSessionUser(c *gin.Context) *session.User {
	v, exists := c.Get(userKey)
	if !exists {
		return nil
	}
	user, _ := v.(*session.User)
	return user
}

// GetUserID returns the signed-in user id or an empty string
func GetUserID(c *gin.Context) string {
	if user := GetSessionUser(c); user != nil {
		return user.IDString()
	}
	return ""
}

// GetViewerKey returns the workspace key of the caller
func GetViewerKey(c *gin.Context) string {
	if v, ok := c.Get(viewerKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	// browsers cannot set headers on a websocket upgrade
	return c.Query("access_token")
}

func anonymousKey(c *gin.Context) string {
	id, err := c.Cookie(ViewerCookie)
	if err != nil || uuid.Validate(id) != nil {
		id = uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(ViewerCookie, id, 0, "/", "", false, true)
	}
	return "anon:" + id
}
