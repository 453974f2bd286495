package application

import (
	"context"
	"errors"
	"strings"

	"github.com/oksasatya/go-otp-auth/internal/domain/entity"
	"github.com/oksasatya/go-otp-auth/internal/domain/repository"
	"github.com/oksasatya/go-otp-auth/pkg/helpers"
)

// RejectReason says why a credential check failed. It is for logs and
// metrics only; callers must not surface it to clients.
type RejectReason string

const (
	ReasonNone     RejectReason = ""
	ReasonNotFound RejectReason = "NOT_FOUND"
	ReasonMismatch RejectReason = "MISMATCH"
)

// Verdict is the outcome of a credential check: either User is set or
// Reason is.
type Verdict struct {
	User   *entity.User
	Reason RejectReason
}

func (v Verdict) OK() bool { return v.User != nil }

type CredentialVerifier struct {
	Users   repository.UserRepository
	Matcher helpers.SecretMatcher
}

func NewCredentialVerifier(users repository.UserRepository, matcher helpers.SecretMatcher) *CredentialVerifier {
	if matcher == nil {
		matcher = helpers.PlainMatcher{}
	}
	return &CredentialVerifier{Users: users, Matcher: matcher}
}

// Verify looks the identity up by email when it contains "@", by username
// otherwise. A store failure comes back as err and never as a rejection.
func (v *CredentialVerifier) Verify(ctx context.Context, identity, secret string) (Verdict, error) {
	identity = strings.TrimSpace(identity)

	var (
		u   *entity.User
		err error
	)
	if strings.Contains(identity, "@") {
		u, err = v.Users.GetByEmail(ctx, helpers.NormalizeEmail(identity))
	} else {
		u, err = v.Users.GetByUsername(ctx, identity)
	}
	if errors.Is(err, repository.ErrUserNotFound) {
		return Verdict{Reason: ReasonNotFound}, nil
	}
	if err != nil {
		return Verdict{}, err
	}

	if !v.Matcher.Match(u.Password, secret) {
		return Verdict{Reason: ReasonMismatch}, nil
	}
	return Verdict{User: u}, nil
}
