package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-otp-auth/internal/domain/entity"
	"github.com/oksasatya/go-otp-auth/pkg/apperror"
)

// LoginInput takes either an email or a username as Identity.
type LoginInput struct {
	Identity string
	Password string
}

// Login checks the credentials and, on success, sends a code to the user's
// email. A correct password alone never yields a session.
func (s *AuthService) Login(ctx context.Context, in LoginInput, meta entity.RequestMeta) (Result, error) {
	in.Identity = strings.TrimSpace(in.Identity)
	if in.Identity == "" || in.Password == "" {
		return Result{}, ErrMissingCredentials
	}
	log := s.logger.WithFields(logrus.Fields{"request_id": meta.RequestID, "identity": in.Identity})

	verdict, err := s.verifier.Verify(ctx, in.Identity, in.Password)
	if err != nil {
		log.WithError(err).Error("credential lookup failed")
		s.metrics.RecordLoginAttempt("error")
		return Result{}, apperror.NewInternal(CodeInternal, err)
	}
	if !verdict.OK() {
		log.WithField("reason", verdict.Reason).Info("login rejected")
		s.metrics.RecordLoginAttempt(strings.ToLower(string(verdict.Reason)))
		s.record(ctx, entity.AuthEvent{Type: entity.EventLoginRejected, Reason: string(verdict.Reason)}, meta)
		return Result{}, ErrInvalidCredentials
	}
	s.metrics.RecordLoginAttempt("success")

	u := verdict.User
	if err := s.issueOTP(ctx, u, u.Email, entity.PurposeLogin, meta); err != nil {
		return Result{}, err
	}
	return Result{Message: MsgLoginOTPSent}, nil
}
