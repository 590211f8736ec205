package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"issuetrack/api/internal/security"
)

// SessionCookie is the name of the HTTP-only cookie carrying the session
// token.
const SessionCookie = "session"

const userIDKey = "user_id"

// Auth verifies the session cookie and stores the authenticated user id in
// the request context. Missing and invalid tokens both end the request with
// 401; a missing cookie is reported distinctly so clients know to log in.
// When a denylist is configured, tokens revoked by logout are rejected too.
func Auth(jwtSecret string, denylist *security.Denylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(SessionCookie)
		if err != nil || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "no token provided"})
			return
		}

		claims, err := security.ParseSessionToken(tokenStr, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}

		// A denylist lookup failure is not treated as revocation; the
		// token's own expiry bounds the exposure.
		if revoked, err := denylist.IsRevoked(c.Request.Context(), claims.ID); err == nil && revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}

		c.Set(userIDKey, claims.UserID)

		c.Next()
	}
}

// UserID returns the authenticated user id set by Auth. The boolean is false
// on routes that did not pass through Auth.
func UserID(c *gin.Context) (string, bool) {
	val, ok := c.Get(userIDKey)
	if !ok {
		return "", false
	}
	id, ok := val.(string)
	return id, ok && id != ""
}
