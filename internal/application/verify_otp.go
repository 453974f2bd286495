package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-otp-auth/internal/domain/entity"
	"github.com/oksasatya/go-otp-auth/internal/domain/repository"
	"github.com/oksasatya/go-otp-auth/pkg/apperror"
	"github.com/oksasatya/go-otp-auth/pkg/helpers"
)

type VerifyOTPInput struct {
	Email string
	OTP   string
}

// VerifyOutput carries the session the caller must attach to the response.
type VerifyOutput struct {
	Token     string
	ExpiresAt time.Time
	Cookie    helpers.CookieSpec
	User      entity.User
	Message   string
}

// VerifyOTP consumes a matching code and issues a session. A wrong code
// leaves the stored one in place so the user can retry until it expires.
func (s *AuthService) VerifyOTP(ctx context.Context, in VerifyOTPInput, meta entity.RequestMeta) (VerifyOutput, error) {
	in.Email = helpers.NormalizeEmail(in.Email)
	in.OTP = strings.TrimSpace(in.OTP)
	if in.Email == "" || in.OTP == "" {
		return VerifyOutput{}, ErrMissingOTPFields
	}
	log := s.logger.WithFields(logrus.Fields{"request_id": meta.RequestID, "email": in.Email})

	stored, found, err := s.otps.Get(ctx, in.Email)
	if err != nil {
		log.WithError(err).Error("read otp failed")
		return VerifyOutput{}, apperror.NewInternal(CodeOTPStorageFailure, err)
	}
	if !found {
		s.rejectOTP(ctx, in.Email, "expired_or_absent", meta)
		return VerifyOutput{}, ErrOTPExpiredOrAbsent
	}
	if stored != in.OTP {
		s.rejectOTP(ctx, in.Email, "mismatch", meta)
		return VerifyOutput{}, ErrOTPMismatch
	}

	consumed, err := s.otps.Consume(ctx, in.Email, stored)
	if err != nil {
		log.WithError(err).Error("consume otp failed")
		return VerifyOutput{}, apperror.NewInternal(CodeOTPStorageFailure, err)
	}
	if !consumed {
		s.rejectOTP(ctx, in.Email, "expired_or_absent", meta)
		return VerifyOutput{}, ErrOTPExpiredOrAbsent
	}
	s.metrics.RecordOTPVerification("success")

	u, err := s.users.GetByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		log.Warn("otp verified for unknown user")
		return VerifyOutput{}, ErrUserNotFound
	}
	if err != nil {
		log.WithError(err).Error("load user failed")
		return VerifyOutput{}, apperror.NewInternal(CodeInternal, err)
	}
	s.record(ctx, entity.AuthEvent{Type: entity.EventOTPVerified, UserID: u.ID, Username: u.Username, Email: u.Email}, meta)

	sess, err := s.sessions.Issue(u)
	if err != nil {
		log.WithError(err).Error("issue session failed")
		return VerifyOutput{}, apperror.NewInternal(CodeInternal, err)
	}
	s.metrics.RecordSessionIssued()
	s.record(ctx, entity.AuthEvent{Type: entity.EventSessionIssued, UserID: u.ID, Username: u.Username, Email: u.Email}, meta)
	log.WithField("user_id", u.ID).Info("session issued")

	return VerifyOutput{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		Cookie:    sess.Cookie,
		User:      u.Sanitized(),
		Message:   MsgSignedIn,
	}, nil
}

func (s *AuthService) rejectOTP(ctx context.Context, email, reason string, meta entity.RequestMeta) {
	s.metrics.RecordOTPVerification(reason)
	s.record(ctx, entity.AuthEvent{Type: entity.EventOTPRejected, Email: email, Reason: reason}, meta)
}
