package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieConfig describes the session cookie. Setting and clearing use the
// same attributes so browsers treat them as the same cookie.
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
	MaxAge time.Duration
}

func (cc CookieConfig) Set(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(cc.Name, token, int(cc.MaxAge.Seconds()), "/", cc.Domain, cc.Secure, true)
}

func (cc CookieConfig) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(cc.Name, "", -1, "/", cc.Domain, cc.Secure, true)
}

// TokenFromRequest reads the session token from the cookie, falling back to
// an "Authorization: Bearer" header.
func TokenFromRequest(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
