package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-otp-auth/pkg/helpers"
	"github.com/oksasatya/go-otp-auth/pkg/response"
)

const (
	CtxClaimsKey = "claims"
	CtxUserIDKey = "userID"
)

// SessionParser validates a session token.
type SessionParser interface {
	ParseSession(token string) (*helpers.SessionClaims, error)
}

// ProtectRoute accepts the session from the token cookie or, failing that,
// an Authorization bearer header. Valid claims are stored under CtxClaimsKey.
func ProtectRoute(parser SessionParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Not authenticated")
			return
		}
		claims, err := parser.ParseSession(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Not authenticated")
			return
		}
		c.Set(CtxClaimsKey, claims)
		c.Set(CtxUserIDKey, claims.UserID())
		c.Next()
	}
}

// Claims returns the claims ProtectRoute stored, or nil.
func Claims(c *gin.Context) *helpers.SessionClaims {
	v, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*helpers.SessionClaims)
	return claims
}

func sessionToken(c *gin.Context) string {
	if tok, err := c.Cookie(helpers.SessionCookieName); err == nil && tok != "" {
		return tok
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
