package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CookieName   = "jwt"
	loggedOutVal = "loggedout"
)

// SetTokenCookie stores the session token; Secure is only set in production.
func SetTokenCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, maxAge, "/", "", secure, true)
}

// ClearTokenCookie overwrites the session cookie with a short-lived dummy.
func ClearTokenCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, loggedOutVal, 10, "/", "", secure, true)
}
