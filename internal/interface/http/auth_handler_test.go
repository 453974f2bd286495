package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-otp-auth/internal/application"
	"github.com/oksasatya/go-otp-auth/internal/domain/entity"
	"github.com/oksasatya/go-otp-auth/internal/infrastructure/memory"
	"github.com/oksasatya/go-otp-auth/internal/interface/middleware"
	"github.com/oksasatya/go-otp-auth/pkg/clock"
	"github.com/oksasatya/go-otp-auth/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

type inbox struct {
	mu    sync.Mutex
	codes map[string]string
}

func (b *inbox) Deliver(_ context.Context, d entity.OTPDelivery) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.codes[d.Email] = d.Code
	return nil
}

func (b *inbox) code(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.codes[email]
}

type brokenStore struct{}

func (brokenStore) Put(context.Context, string, string, time.Duration) error {
	return errors.New("dial tcp 10.0.0.5:6379: connection refused")
}
func (brokenStore) Get(context.Context, string) (string, bool, error)     { return "", false, nil }
func (brokenStore) Delete(context.Context, string) error                  { return nil }
func (brokenStore) Consume(context.Context, string, string) (bool, error) { return false, nil }

type env struct {
	engine *gin.Engine
	inbox  *inbox
	clock  *clock.Manual
}

func newEnv(t *testing.T, development bool, otps func(clock.Clocker) application.Deps) *env {
	t.Helper()
	e := &env{
		inbox: &inbox{codes: map[string]string{}},
		clock: clock.NewManual(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)),
	}
	d := otps(e.clock)
	d.Users = memory.NewUserRepository()
	d.Sessions = application.NewSessionIssuer("test-secret", 24*time.Hour, helpers.NewCookie("", development), e.clock)
	d.Notifier = e.inbox
	d.Clock = e.clock
	svc := application.NewAuthService(d)

	h := NewAuthHandler(svc, helpers.NewDiscardLogger())
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RealIP())
	g := r.Group("/api/auth")
	g.POST("/signup", h.Signup)
	g.POST("/login", h.Login)
	g.POST("/verify-otp", h.VerifyOTP)
	g.POST("/resend-otp", h.ResendOTP)
	g.GET("/logout", h.Logout)
	g.GET("/authcheck", middleware.ProtectRoute(svc), h.AuthCheck)
	e.engine = r
	return e
}

func memoryOTPs(c clock.Clocker) application.Deps {
	return application.Deps{OTPs: memory.NewOTPStore(c)}
}

func (e *env) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == helpers.SessionCookieName {
			return ck
		}
	}
	return nil
}

func TestSignupVerifyAuthCheckLogout(t *testing.T) {
	e := newEnv(t, true, memoryOTPs)

	rec, body := e.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "alice", "email": "a@x.com", "password": "secret1", "college": "MIT",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OTP sent. Please verify to complete signup.", body["message"])
	assert.NotContains(t, body, "token")
	assert.Nil(t, sessionCookie(rec))

	rec, body = e.do(t, http.MethodPost, "/api/auth/verify-otp", map[string]string{"email": "a@x.com", "otp": "000000x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid OTP", body["message"])

	rec, body = e.do(t, http.MethodPost, "/api/auth/verify-otp", map[string]string{"email": "a@x.com", "otp": e.inbox.code("a@x.com")})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User Successfully Signed In", body["message"])
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "", user["password"])
	assert.Equal(t, "alice", user["username"])

	ck := sessionCookie(rec)
	require.NotNil(t, ck)
	assert.Equal(t, body["token"], ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.False(t, ck.Secure)

	rec, body = e.do(t, http.MethodGet, "/api/auth/authcheck", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@x.com", body["user"].(map[string]any)["email"])

	rec, body = e.do(t, http.MethodGet, "/api/auth/logout", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged out successfully", body["message"])
	cleared := sessionCookie(rec)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.True(t, cleared.MaxAge < 0)
}

func TestProductionCookieIsSecure(t *testing.T) {
	e := newEnv(t, false, memoryOTPs)
	e.do(t, http.MethodPost, "/api/auth/signup", map[string]string{"username": "alice", "email": "a@x.com", "password": "secret1"})

	rec, _ := e.do(t, http.MethodPost, "/api/auth/verify-otp", map[string]string{"email": "a@x.com", "otp": e.inbox.code("a@x.com")})
	ck := sessionCookie(rec)
	require.NotNil(t, ck)
	assert.True(t, ck.Secure)
	assert.False(t, ck.HttpOnly)
}

func TestLoginErrorsAreIdentical(t *testing.T) {
	e := newEnv(t, true, memoryOTPs)
	e.do(t, http.MethodPost, "/api/auth/signup", map[string]string{"username": "alice", "email": "a@x.com", "password": "secret1"})

	recA, _ := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "nobody@x.com", "password": "secret1"})
	recB, _ := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "a@x.com", "password": "wrong!!"})

	assert.Equal(t, http.StatusBadRequest, recA.Code)
	assert.Equal(t, recA.Code, recB.Code)

	strip := func(rec *httptest.ResponseRecorder) map[string]any {
		var m map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
		delete(m, "timestamp")
		delete(m, "request_id")
		return m
	}
	assert.Equal(t, strip(recA), strip(recB))
	assert.Equal(t, "Invalid credentials", strip(recA)["message"])
}

func TestLoginByIdentityThenVerify(t *testing.T) {
	e := newEnv(t, true, memoryOTPs)
	e.do(t, http.MethodPost, "/api/auth/signup", map[string]string{"username": "alice", "email": "a@x.com", "password": "secret1"})
	signupCode := e.inbox.code("a@x.com")

	rec, body := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"identity": "alice", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OTP sent. Please verify to complete login.", body["message"])

	if signupCode != e.inbox.code("a@x.com") {
		rec, _ = e.do(t, http.MethodPost, "/api/auth/verify-otp", map[string]string{"email": "a@x.com", "otp": signupCode})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	rec, _ = e.do(t, http.MethodPost, "/api/auth/verify-otp", map[string]string{"email": "a@x.com", "otp": e.inbox.code("a@x.com")})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVerifyAfterExpiry(t *testing.T) {
	e := newEnv(t, true, memoryOTPs)
	e.do(t, http.MethodPost, "/api/auth/signup", map[string]string{"username": "alice", "email": "a@x.com", "password": "secret1"})
	e.clock.Advance(301 * time.Second)

	rec, body := e.do(t, http.MethodPost, "/api/auth/verify-otp", map[string]string{"email": "a@x.com", "otp": e.inbox.code("a@x.com")})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "OTP expired or not found", body["message"])
	assert.Equal(t, "OTP_EXPIRED_OR_ABSENT", body["code"])
}

func TestResendOTPEndpoint(t *testing.T) {
	e := newEnv(t, true, memoryOTPs)

	rec, body := e.do(t, http.MethodPost, "/api/auth/resend-otp", map[string]string{"email": "a@x.com"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "New OTP Sent", body["message"])

	rec, body = e.do(t, http.MethodPost, "/api/auth/resend-otp", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email required", body["message"])

	// the code verifies but nobody owns the address
	rec, body = e.do(t, http.MethodPost, "/api/auth/verify-otp", map[string]string{"email": "a@x.com", "otp": e.inbox.code("a@x.com")})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", body["message"])
}

func TestSignupValidationMessages(t *testing.T) {
	e := newEnv(t, true, memoryOTPs)

	rec, body := e.do(t, http.MethodPost, "/api/auth/signup", map[string]string{"username": "a", "email": "bad", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid Email", body["message"])

	_, body = e.do(t, http.MethodPost, "/api/auth/signup", map[string]string{"username": "a", "email": "a@x.com", "password": "123"})
	assert.Equal(t, "Password must be at least 6 characters long", body["message"])

	e.do(t, http.MethodPost, "/api/auth/signup", map[string]string{"username": "a", "email": "a@x.com", "password": "secret1"})
	_, body = e.do(t, http.MethodPost, "/api/auth/signup", map[string]string{"username": "b", "email": "a@x.com", "password": "secret1"})
	assert.Equal(t, "Email already exists", body["message"])
}

func TestMalformedJSON(t *testing.T) {
	e := newEnv(t, true, memoryOTPs)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_PAYLOAD")
}

func TestAuthCheckWithoutSession(t *testing.T) {
	e := newEnv(t, true, memoryOTPs)
	rec, body := e.do(t, http.MethodGet, "/api/auth/authcheck", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authenticated", body["message"])
}

func TestStoreFailureHidesCause(t *testing.T) {
	e := newEnv(t, true, func(clock.Clocker) application.Deps { return application.Deps{OTPs: brokenStore{}} })

	rec, body := e.do(t, http.MethodPost, "/api/auth/signup", map[string]string{"username": "alice", "email": "a@x.com", "password": "secret1"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body["message"])
	assert.Equal(t, "OTP_STORAGE_FAILURE", body["code"])
	assert.NotContains(t, rec.Body.String(), "6379")
}
