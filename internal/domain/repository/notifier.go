package repository

import (
	"context"

	"github.com/oksasatya/go-otp-auth/internal/domain/entity"
)

// Notifier hands a code to the user's delivery channel.
type Notifier interface {
	Deliver(ctx context.Context, d entity.OTPDelivery) error
}

// AuditSink records authentication events. Implementations must not block
// the calling flow for long and must tolerate being called concurrently.
type AuditSink interface {
	Record(ctx context.Context, ev entity.AuthEvent)
}
