package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nyc360/feed-engine/internal/common"
)

// CSRFCookie holds the double-submit token for cookie-authenticated viewers
const CSRFCookie = "nyc360_csrf"

// SecurityHeaders adds common security headers to all responses. The BFF only
// serves JSON, so nothing may be framed or executed from it.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// CSRFProtection guards state-changing requests authenticated by the token
// cookie. The X-CSRF-Token header must match the CSRF cookie. Bearer-header
// clients and anonymous viewers are not checked.
func CSRFProtection() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if strings.HasPrefix(c.GetHeader("Authorization"), "Bearer ") {
			c.Next()
			return
		}
		if token, err := c.Cookie(TokenCookie); err != nil || token == "" {
			c.Next()
			return
		}

		csrfCookie, err := c.Cookie(CSRFCookie)
		if err != nil || csrfCookie == "" {
			common.ErrorResponse(c, http.StatusForbidden, "CSRF token missing", nil)
			c.Abort()
			return
		}

		if c.GetHeader("X-CSRF-Token") != csrfCookie {
			common.ErrorResponse(c, http.StatusForbidden, "CSRF token mismatch", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// GenerateCSRFToken issues a new CSRF token and sets it as a cookie
// GET /api/v1/csrf
func GenerateCSRFToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenBytes := make([]byte, 32)
		if _, err := rand.Read(tokenBytes); err != nil {
			common.ErrorResponse(c, http.StatusInternalServerError, "Failed to generate CSRF token", err)
			return
		}
		token := hex.EncodeToString(tokenBytes)

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CSRFCookie, token, 3600, "/", "", c.Request.TLS != nil, false) // readable by the page script
		common.Success(c, gin.H{"csrfToken": token})
	}
}
