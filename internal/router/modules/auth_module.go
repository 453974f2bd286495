package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-otp-auth/internal/interface/http"
	"github.com/oksasatya/go-otp-auth/internal/interface/middleware"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	Parser  middleware.SessionParser
}

func NewAuthModule(h *handlers.AuthHandler, parser middleware.SessionParser) *AuthModule {
	return &AuthModule{Handler: h, Parser: parser}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.POST("/signup", m.Handler.Signup)
	auth.POST("/login", m.Handler.Login)
	auth.POST("/verify-otp", m.Handler.VerifyOTP)
	auth.POST("/resend-otp", m.Handler.ResendOTP)
	auth.GET("/logout", m.Handler.Logout)

	auth.GET("/authcheck", middleware.ProtectRoute(m.Parser), m.Handler.AuthCheck)
}
