package application

import (
	"time"

	"github.com/oksasatya/go-otp-auth/internal/domain/entity"
	"github.com/oksasatya/go-otp-auth/pkg/clock"
	"github.com/oksasatya/go-otp-auth/pkg/helpers"
)

// Session is a freshly signed token plus the cookie that carries it.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Cookie    helpers.CookieSpec
}

// SessionIssuer signs session tokens and describes their cookie. It never
// writes to a response itself.
type SessionIssuer struct {
	jwt     *helpers.JWTManager
	cookies *helpers.Manager
	clock   clock.Clocker
}

func NewSessionIssuer(secret string, ttl time.Duration, cookies *helpers.Manager, clk clock.Clocker) *SessionIssuer {
	if clk == nil {
		clk = clock.System{}
	}
	jwtm := helpers.NewJWTManager(secret, ttl)
	jwtm.Now = clk.Now
	return &SessionIssuer{jwt: jwtm, cookies: cookies, clock: clk}
}

func (s *SessionIssuer) Issue(u *entity.User) (Session, error) {
	now := s.clock.Now()
	token, exp, err := s.jwt.GenerateSessionToken(u.ID, u.Username, u.Email, u.College)
	if err != nil {
		return Session{}, err
	}
	return Session{
		Token:     token,
		ExpiresAt: exp,
		Cookie:    s.cookies.Session(token, exp, now),
	}, nil
}

// ClearCookie is the cookie that logs the browser out.
func (s *SessionIssuer) ClearCookie() helpers.CookieSpec {
	return s.cookies.Cleared()
}

// Parse validates signature and expiry of a session token.
func (s *SessionIssuer) Parse(token string) (*helpers.SessionClaims, error) {
	return s.jwt.ParseSessionToken(token)
}
