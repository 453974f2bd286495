package notify

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-otp-auth/internal/domain/entity"
	"github.com/oksasatya/go-otp-auth/internal/domain/repository"
	"github.com/oksasatya/go-otp-auth/pkg/mailer"
	mailtpl "github.com/oksasatya/go-otp-auth/pkg/mailer/templates"
)

// LogNotifier writes the code to the application log instead of reaching
// the user. Meant for local development.
type LogNotifier struct {
	Logger logrus.FieldLogger
}

func NewLogNotifier(logger logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{Logger: logger}
}

func (n *LogNotifier) Deliver(_ context.Context, d entity.OTPDelivery) error {
	n.Logger.WithFields(logrus.Fields{
		"email":      d.Email,
		"purpose":    d.Purpose,
		"otp":        d.Code,
		"expires_at": d.ExpiresAt,
	}).Info("otp issued")
	return nil
}

// Publisher is satisfied by helpers.RabbitPublisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier enqueues an otp_code email job for the email worker.
type QueueNotifier struct {
	Pub         Publisher
	Branding    mailtpl.Branding
	SendEnabled bool
	Logger      logrus.FieldLogger
}

func NewQueueNotifier(pub Publisher, branding mailtpl.Branding, sendEnabled bool, logger logrus.FieldLogger) *QueueNotifier {
	return &QueueNotifier{Pub: pub, Branding: branding, SendEnabled: sendEnabled, Logger: logger}
}

func (n *QueueNotifier) Deliver(ctx context.Context, d entity.OTPDelivery) error {
	if !n.SendEnabled {
		n.Logger.WithField("email", d.Email).Debug("mail sending disabled, otp email skipped")
		return nil
	}
	data := mailtpl.NewOTPData(
		n.Branding,
		d.Username,
		d.Email,
		d.Code,
		string(d.Purpose),
		mailtpl.WithExpiresAt(d.ExpiresAt),
		mailtpl.WithIP(d.IP),
		mailtpl.WithUserAgent(d.UserAgent),
	)
	job := mailer.EmailJob{To: d.Email, Template: mailtpl.OTPCode, Data: data}
	if err := n.Pub.PublishJSON(ctx, job); err != nil {
		return fmt.Errorf("publish otp email: %w", err)
	}
	return nil
}

var (
	_ repository.Notifier = (*LogNotifier)(nil)
	_ repository.Notifier = (*QueueNotifier)(nil)
)
