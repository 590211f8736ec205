package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"issuetrack/api/internal/middleware"
	"issuetrack/api/internal/security"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	userID, err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created", "userId": userID})
}

func (h HandlerSet) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.setSessionCookie(c, token, int(h.auth.SessionTTL().Seconds()))
	c.JSON(http.StatusOK, gin.H{"message": "Logged in successfully"})
}

// Logout clears the cookie and, when a denylist is configured, revokes the
// presented token for the rest of its lifetime. It succeeds regardless of
// whether a valid session was presented.
func (h HandlerSet) Logout(c *gin.Context) {
	if tokenStr, err := c.Cookie(middleware.SessionCookie); err == nil && tokenStr != "" {
		if claims, err := security.ParseSessionToken(tokenStr, h.cfg.Security.JWTSecret); err == nil {
			if err := h.denylist.Revoke(c.Request.Context(), claims); err != nil {
				h.log.Warn().Err(err).Msg("session revoke failed")
			}
		}
	}

	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// CheckAuth reports whether the request carries a live session. Always 200;
// the boolean is the answer.
func (h HandlerSet) CheckAuth(c *gin.Context) {
	authenticated := false
	if tokenStr, err := c.Cookie(middleware.SessionCookie); err == nil && tokenStr != "" {
		if claims, err := security.ParseSessionToken(tokenStr, h.cfg.Security.JWTSecret); err == nil {
			revoked, err := h.denylist.IsRevoked(c.Request.Context(), claims.ID)
			authenticated = err == nil && !revoked
		}
	}

	c.JSON(http.StatusOK, gin.H{"isAuthenticated": authenticated})
}

// setSessionCookie writes the HTTP-only session cookie. Production deploys
// serve the browser client from another origin, so the cookie is Secure +
// SameSite=None there; development stays on Lax without Secure so plain
// localhost works.
func (h HandlerSet) setSessionCookie(c *gin.Context, token string, maxAge int) {
	sameSite := http.SameSiteLaxMode
	if h.cfg.Production() {
		sameSite = http.SameSiteNoneMode
	}
	c.SetSameSite(sameSite)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.cfg.Production(), true)
}
