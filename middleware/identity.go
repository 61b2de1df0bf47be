package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextVisitorKey is the gin context key carrying the visitor id.
const ContextVisitorKey = "visitor_id"

const visitorCookie = "visitor_id"
const visitorCookieMaxAge = 365 * 24 * 3600

// VisitorIdentity assigns every browser a stable random id via cookie. The
// id anchors reaction and like uniqueness without any account system.
func VisitorIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(visitorCookie)
		if err != nil || !validVisitorID(id) {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(visitorCookie, id, visitorCookieMaxAge, "/", "", false, true)
		}
		c.Set(ContextVisitorKey, id)
		c.Next()
	}
}

func validVisitorID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// VisitorID returns the visitor id from the context, empty if absent.
func VisitorID(c *gin.Context) string {
	if v, ok := c.Get(ContextVisitorKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
