package application

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-otp-auth/internal/domain/entity"
	"github.com/oksasatya/go-otp-auth/internal/domain/repository"
	"github.com/oksasatya/go-otp-auth/internal/metrics"
	"github.com/oksasatya/go-otp-auth/pkg/apperror"
	"github.com/oksasatya/go-otp-auth/pkg/clock"
	"github.com/oksasatya/go-otp-auth/pkg/helpers"
	"github.com/oksasatya/go-otp-auth/pkg/validation"
)

const DefaultOTPTTL = 300 * time.Second

// OTPGenerator produces 6-digit numeric codes.
type OTPGenerator interface {
	Generate() (string, error)
}

// Deps are the collaborators of AuthService. Users, OTPs and Sessions are
// required; everything else has a working default.
type Deps struct {
	Users     repository.UserRepository
	OTPs      repository.OTPStore
	Sessions  *SessionIssuer
	Generator OTPGenerator
	Matcher   helpers.SecretMatcher
	Notifier  repository.Notifier
	Audit     repository.AuditSink
	Metrics   metrics.Recorder
	Clock     clock.Clocker
	Logger    logrus.FieldLogger
	OTPTTL    time.Duration
}

// AuthService runs the signup, login and OTP verification flows. It keeps
// no state between calls; a pending verification lives only in the OTP store.
type AuthService struct {
	users     repository.UserRepository
	otps      repository.OTPStore
	sessions  *SessionIssuer
	verifier  *CredentialVerifier
	generator OTPGenerator
	matcher   helpers.SecretMatcher
	notifier  repository.Notifier
	audit     repository.AuditSink
	metrics   metrics.Recorder
	clock     clock.Clocker
	logger    logrus.FieldLogger
	otpTTL    time.Duration
	validate  *validator.Validate
}

func NewAuthService(d Deps) *AuthService {
	s := &AuthService{
		users:     d.Users,
		otps:      d.OTPs,
		sessions:  d.Sessions,
		generator: d.Generator,
		matcher:   d.Matcher,
		notifier:  d.Notifier,
		audit:     d.Audit,
		metrics:   d.Metrics,
		clock:     d.Clock,
		logger:    d.Logger,
		otpTTL:    d.OTPTTL,
		validate:  validation.New(),
	}
	if s.generator == nil {
		s.generator = helpers.CodeGenerator{}
	}
	if s.matcher == nil {
		s.matcher = helpers.PlainMatcher{}
	}
	if s.logger == nil {
		s.logger = helpers.NewDiscardLogger()
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.audit == nil {
		s.audit = nopAudit{}
	}
	if s.metrics == nil {
		s.metrics = metrics.Nop{}
	}
	if s.clock == nil {
		s.clock = clock.System{}
	}
	if s.otpTTL <= 0 {
		s.otpTTL = DefaultOTPTTL
	}
	s.verifier = NewCredentialVerifier(s.users, s.matcher)
	return s
}

// Result is the reply of the flows that do not issue a session.
type Result struct {
	Message string
}

func (s *AuthService) validEmail(email string) bool {
	return s.validate.Var(email, "required,email") == nil
}

// issueOTP generates a code, stores it under the email (replacing any live
// code) and hands it to the notifier. Store failures abort the flow;
// delivery failures are only logged.
func (s *AuthService) issueOTP(ctx context.Context, u *entity.User, email string, purpose entity.OTPPurpose, meta entity.RequestMeta) error {
	log := s.logger.WithFields(logrus.Fields{"request_id": meta.RequestID, "email": email, "purpose": purpose})

	code, err := s.generator.Generate()
	if err != nil {
		log.WithError(err).Error("generate otp failed")
		return apperror.NewInternal(CodeInternal, err)
	}
	if err := s.otps.Put(ctx, email, code, s.otpTTL); err != nil {
		log.WithError(err).Error("store otp failed")
		return apperror.NewInternal(CodeOTPStorageFailure, err)
	}
	s.metrics.RecordOTPIssued(string(purpose))

	d := entity.OTPDelivery{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: s.clock.Now().Add(s.otpTTL),
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	}
	ev := entity.AuthEvent{Type: entity.EventOTPIssued, Email: email, Reason: string(purpose)}
	if u != nil {
		d.Username = u.Username
		ev.UserID = u.ID
		ev.Username = u.Username
	}
	if err := s.notifier.Deliver(ctx, d); err != nil {
		log.WithError(err).Warn("deliver otp failed")
	}
	s.record(ctx, ev, meta)
	return nil
}

func (s *AuthService) record(ctx context.Context, ev entity.AuthEvent, meta entity.RequestMeta) {
	ev.IP = meta.IP
	ev.UserAgent = meta.UserAgent
	ev.RequestID = meta.RequestID
	ev.At = s.clock.Now().UTC()
	s.audit.Record(ctx, ev)
}

type nopNotifier struct{}

func (nopNotifier) Deliver(context.Context, entity.OTPDelivery) error { return nil }

type nopAudit struct{}

func (nopAudit) Record(context.Context, entity.AuthEvent) {}
