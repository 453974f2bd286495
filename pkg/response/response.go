package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
	Success   bool        `json:"success"`
	Code      string      `json:"code,omitempty"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// Envelope builds the common fields without writing anything.
func Envelope[T any](ctx *gin.Context, status int, success bool, message string) APIResponse[T] {
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   success,
		Message:   message,
	}
}

// Success writes a success envelope and returns it.
func Success[T any](ctx *gin.Context, status int, data T, message string) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := Envelope[T](ctx, status, true, message)
	resp.Data = data
	ctx.JSON(status, resp)
	return resp
}

// Error writes an error envelope and returns it. details is serialized as-is,
// so callers must only pass client-safe values.
func Error(ctx *gin.Context, status int, code, message string, details interface{}) APIResponse[any] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := Envelope[any](ctx, status, false, message)
	resp.Code = code
	resp.Error = details
	ctx.JSON(status, resp)
	return resp
}

// Abort is Error for middleware: it also stops the handler chain.
func Abort(ctx *gin.Context, status int, code, message string) {
	Error(ctx, status, code, message, nil)
	ctx.Abort()
}
