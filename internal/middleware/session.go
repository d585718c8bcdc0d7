package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const SessionIDKey = "session_id"

// SessionID extracts the session identifier from the X-Session-ID header.
// Each session owns its own record store; there is no cross-session state.
func SessionID() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.GetHeader("X-Session-ID")
		if sid == "" {
			c.Next()
			return
		}
		c.Set(SessionIDKey, sid)
		c.Next()
	}
}

// GetSessionID retrieves the session ID from the context
func GetSessionID(c *gin.Context) (string, bool) {
	sid, exists := c.Get(SessionIDKey)
	if !exists {
		return "", false
	}
	return sid.(string), true
}

// RequireSession ensures a session ID is present
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := GetSessionID(c); !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "X-Session-ID header required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
