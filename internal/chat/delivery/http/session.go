package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionCookie is the cookie carrying the opaque session identifier.
const SessionCookie = "session_id"

// sessionID reads the session cookie.
func sessionID(c *gin.Context) (string, bool) {
	id, err := c.Cookie(SessionCookie)
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

// ensureSession returns the existing session ID or mints a fresh one and
// sets the cookie on the response. HttpOnly, SameSite=Lax, path /.
func ensureSession(c *gin.Context) string {
	if id, ok := sessionID(c); ok {
		return id
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, 0, "/", "", false, true)
	return id
}

// expireSession clears the cookie on the response.
func expireSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
}
