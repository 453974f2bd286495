package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const SessionCookieName = "token"

// CookieSpec describes how a session cookie must be placed on the response.
// Building it and attaching it are separate so the auth flow stays transport-free.
type CookieSpec struct {
	Name     string
	Value    string
	Path     string
	Domain   string
	MaxAge   int
	HTTPOnly bool
	Secure   bool
}

// Manager derives cookie attributes from the deployment mode: development
// cookies are HttpOnly, production cookies are Secure. Exactly one flag is set.
type Manager struct {
	Domain      string
	Development bool
}

func NewCookie(domain string, development bool) *Manager {
	return &Manager{Domain: domain, Development: development}
}

// Session builds the cookie for a token expiring at exp, measured from now.
func (m *Manager) Session(token string, exp, now time.Time) CookieSpec {
	return CookieSpec{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   m.Domain,
		MaxAge:   maxAgeFrom(exp, now),
		HTTPOnly: m.Development,
		Secure:   !m.Development,
	}
}

// Cleared is the cookie that removes the session cookie.
func (m *Manager) Cleared() CookieSpec {
	return CookieSpec{
		Name:     SessionCookieName,
		Path:     "/",
		Domain:   m.Domain,
		MaxAge:   -1,
		HTTPOnly: m.Development,
		Secure:   !m.Development,
	}
}

// Apply writes spec to the response.
func Apply(c *gin.Context, spec CookieSpec) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(spec.Name, spec.Value, spec.MaxAge, spec.Path, spec.Domain, spec.Secure, spec.HTTPOnly)
}

func maxAgeFrom(exp, now time.Time) int {
	sec := int(exp.Sub(now).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
