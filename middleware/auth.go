package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"inkwell/utils"
)

// ContextModeratorKey is the gin context key carrying the moderator username.
const ContextModeratorKey = "moderator"

// SessionCookie is the name of the back office session cookie.
const SessionCookie = "admin_session"

// ModeratorAuth guards back office routes. It accepts the session cookie or
// an Authorization bearer header, verifies the signature and expiry, and
// rejects tokens revoked by logout.
func ModeratorAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			utils.Error(c, 401, 40100, "authentication required")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.Error(c, 401, 40101, "invalid or expired session")
			c.Abort()
			return
		}

		if utils.IsTokenBlacklisted(c.Request.Context(), token) {
			utils.Error(c, 401, 40102, "session revoked")
			c.Abort()
			return
		}

		c.Set(ContextModeratorKey, claims.Username)
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
