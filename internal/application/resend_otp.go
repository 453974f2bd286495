package application

import (
	"context"
	"errors"

	"github.com/oksasatya/go-otp-auth/internal/domain/entity"
	"github.com/oksasatya/go-otp-auth/internal/domain/repository"
	"github.com/oksasatya/go-otp-auth/pkg/helpers"
)

type ResendOTPInput struct {
	Email string
}

// ResendOTP replaces whatever code is pending for the email. It does not
// require a prior signup or login; the user lookup only fills in the
// delivery greeting.
func (s *AuthService) ResendOTP(ctx context.Context, in ResendOTPInput, meta entity.RequestMeta) (Result, error) {
	in.Email = helpers.NormalizeEmail(in.Email)
	if in.Email == "" {
		return Result{}, ErrMissingEmail
	}
	if !s.validEmail(in.Email) {
		return Result{}, ErrInvalidEmail
	}

	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			s.logger.WithError(err).WithField("email", in.Email).Warn("lookup for resend failed")
		}
	}

	if err := s.issueOTP(ctx, u, in.Email, entity.PurposeResend, meta); err != nil {
		return Result{}, err
	}
	return Result{Message: MsgOTPResent}, nil
}
