package application

import (
	"github.com/oksasatya/go-otp-auth/pkg/helpers"
)

// LogoutOutput is the cookie that ends the browser session.
type LogoutOutput struct {
	Cookie  helpers.CookieSpec
	Message string
}

// Logout only clears the cookie. Issued tokens stay valid until they expire.
func (s *AuthService) Logout() LogoutOutput {
	return LogoutOutput{Cookie: s.sessions.ClearCookie(), Message: MsgLoggedOut}
}

// Identity is the public view of an authenticated session.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	College  string `json:"college,omitempty"`
}

// AuthCheck echoes the identity of a session already validated by the
// gatekeeper middleware.
func (s *AuthService) AuthCheck(claims *helpers.SessionClaims) (Identity, error) {
	if claims == nil || claims.UserID() == "" {
		return Identity{}, ErrUnauthenticated
	}
	return Identity{
		ID:       claims.UserID(),
		Username: claims.Username,
		Email:    claims.Email,
		College:  claims.College,
	}, nil
}

// ParseSession exposes token validation to the gatekeeper.
func (s *AuthService) ParseSession(token string) (*helpers.SessionClaims, error) {
	return s.sessions.Parse(token)
}
