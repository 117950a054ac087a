package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamboard/internal/handler"
	"teamboard/internal/session"
)

// AuthMiddleware resolves the session cookie into a user id and aborts with
// 401 when no valid session exists. No handler behind it runs without an
// authenticated caller.
func AuthMiddleware(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(handler.SessionCookie)
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			c.Abort()
			return
		}

		userID, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
