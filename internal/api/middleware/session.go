package middleware

import (
	"github.com/gin-gonic/gin"
)

const SessionKey = "session_id"

// Session copies the session cookie, if present, into the request context.
// Unknown or expired ids are resolved later by the session manager.
func Session(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := c.Cookie(cookieName); err == nil && id != "" {
			c.Set(SessionKey, id)
		}
		c.Next()
	}
}

// SessionID returns the id set by Session, or "".
func SessionID(c *gin.Context) string {
	return c.GetString(SessionKey)
}
