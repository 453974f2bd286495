package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-otp-auth/internal/domain/entity"
	"github.com/oksasatya/go-otp-auth/internal/domain/repository"
	"github.com/oksasatya/go-otp-auth/pkg/apperror"
	"github.com/oksasatya/go-otp-auth/pkg/helpers"
)

type SignupInput struct {
	Username string
	Email    string
	Password string
	College  string
}

// Signup creates the user and sends a verification code. No session is
// issued until the code is verified.
func (s *AuthService) Signup(ctx context.Context, in SignupInput, meta entity.RequestMeta) (Result, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = helpers.NormalizeEmail(in.Email)
	log := s.logger.WithFields(logrus.Fields{"request_id": meta.RequestID, "email": in.Email})

	if !s.validEmail(in.Email) {
		return Result{}, ErrInvalidEmail
	}
	if s.validate.Var(in.Password, "secret") != nil {
		return Result{}, ErrWeakSecret
	}
	if in.Username == "" {
		return Result{}, ErrMissingUsername
	}

	if err := s.ensureAvailable(ctx, in.Username, in.Email); err != nil {
		return Result{}, err
	}

	secret, err := s.matcher.Encode(in.Password)
	if err != nil {
		log.WithError(err).Error("encode secret failed")
		return Result{}, apperror.NewInternal(CodeInternal, err)
	}
	u := &entity.User{
		Username: in.Username,
		Email:    in.Email,
		Password: secret,
		College:  strings.TrimSpace(in.College),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if mapped := mapDuplicate(err); mapped != nil {
			return Result{}, mapped
		}
		log.WithError(err).Error("create user failed")
		return Result{}, apperror.NewInternal(CodeInternal, err)
	}
	log.WithField("user_id", u.ID).Info("user signed up")
	s.record(ctx, entity.AuthEvent{Type: entity.EventSignup, UserID: u.ID, Username: u.Username, Email: u.Email}, meta)

	if err := s.issueOTP(ctx, u, u.Email, entity.PurposeSignup, meta); err != nil {
		return Result{}, err
	}
	return Result{Message: MsgSignupOTPSent}, nil
}

// ensureAvailable is the early duplicate check. The store's unique
// constraints still decide when two signups race past it.
func (s *AuthService) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return ErrDuplicateUsername
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return apperror.NewInternal(CodeInternal, err)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return apperror.NewInternal(CodeInternal, err)
	}
	return nil
}

func mapDuplicate(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateUsername):
		return ErrDuplicateUsername.Wrap(err)
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrDuplicateEmail.Wrap(err)
	}
	return nil
}
