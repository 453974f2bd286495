package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-otp-auth/internal/application"
	"github.com/oksasatya/go-otp-auth/internal/domain/entity"
	"github.com/oksasatya/go-otp-auth/internal/interface/middleware"
	"github.com/oksasatya/go-otp-auth/pkg/apperror"
	"github.com/oksasatya/go-otp-auth/pkg/helpers"
	"github.com/oksasatya/go-otp-auth/pkg/response"
	"github.com/oksasatya/go-otp-auth/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger logrus.FieldLogger
}

func NewAuthHandler(svc *application.AuthService, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

// Field rules live in the service so every transport gets the same messages.
type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	College  string `json:"college"`
}

type loginRequest struct {
	Identity string `json:"identity"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r loginRequest) identity() string {
	switch {
	case r.Identity != "":
		return r.Identity
	case r.Email != "":
		return r.Email
	default:
		return r.Username
	}
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type resendOTPRequest struct {
	Email string `json:"email"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	College   string    `json:"college"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u entity.User) userResponse {
	u = u.Sanitized()
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.Password,
		College:   u.College,
		CreatedAt: u.CreatedAt,
	}
}

type verifyOTPResponse struct {
	response.APIResponse[any]
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type authCheckResponse struct {
	response.APIResponse[any]
	User application.Identity `json:"user"`
}

// Signup POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if !h.bind(c, &req) {
		return
	}
	res, err := h.Svc.Signup(c.Request.Context(), application.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		College:  req.College,
	}, requestMeta(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, res.Message)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !h.bind(c, &req) {
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), application.LoginInput{
		Identity: req.identity(),
		Password: req.Password,
	}, requestMeta(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, res.Message)
}

// VerifyOTP POST /api/auth/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if !h.bind(c, &req) {
		return
	}
	out, err := h.Svc.VerifyOTP(c.Request.Context(), application.VerifyOTPInput{
		Email: req.Email,
		OTP:   req.OTP,
	}, requestMeta(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	helpers.Apply(c, out.Cookie)
	c.JSON(http.StatusOK, verifyOTPResponse{
		APIResponse: response.Envelope[any](c, http.StatusOK, true, out.Message),
		Token:       out.Token,
		User:        toUserResponse(out.User),
	})
}

// ResendOTP POST /api/auth/resend-otp
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req resendOTPRequest
	if !h.bind(c, &req) {
		return
	}
	res, err := h.Svc.ResendOTP(c.Request.Context(), application.ResendOTPInput{Email: req.Email}, requestMeta(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, res.Message)
}

// Logout GET /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	out := h.Svc.Logout()
	helpers.Apply(c, out.Cookie)
	response.Success[any](c, http.StatusOK, nil, out.Message)
}

// AuthCheck GET /api/auth/authcheck, behind ProtectRoute
func (h *AuthHandler) AuthCheck(c *gin.Context) {
	id, err := h.Svc.AuthCheck(middleware.Claims(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, authCheckResponse{
		APIResponse: response.Envelope[any](c, http.StatusOK, true, ""),
		User:        id,
	})
}

func (h *AuthHandler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_PAYLOAD", "invalid payload", validation.ToDetails(err))
		return false
	}
	return true
}

// writeError turns any service error into the client-safe envelope. Causes
// of internal errors are logged here and never serialized.
func (h *AuthHandler) writeError(c *gin.Context, err error) {
	ae := apperror.From(err)
	if ae.Kind() == apperror.KindInternal {
		helpers.LogError(h.Logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString(middleware.CtxRequestIDKey),
			"path":       c.FullPath(),
			"code":       ae.Code(),
		})
	}
	response.Error(c, ae.StatusCode(), ae.Code(), ae.Message(), nil)
}

func requestMeta(c *gin.Context) entity.RequestMeta {
	return entity.RequestMeta{
		RequestID: c.GetString(middleware.CtxRequestIDKey),
		IP:        middleware.ClientIP(c),
		UserAgent: c.Request.UserAgent(),
	}
}
