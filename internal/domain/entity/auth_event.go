package entity

import "time"

type AuthEventType string

const (
	EventSignup        AuthEventType = "signup"
	EventOTPIssued     AuthEventType = "otp_issued"
	EventLoginRejected AuthEventType = "login_rejected"
	EventOTPVerified   AuthEventType = "otp_verified"
	EventOTPRejected   AuthEventType = "otp_rejected"
	EventSessionIssued AuthEventType = "session_issued"
)

// OTPPurpose tells the delivery channel which flow asked for a code.
type OTPPurpose string

const (
	PurposeSignup OTPPurpose = "signup"
	PurposeLogin  OTPPurpose = "login"
	PurposeResend OTPPurpose = "resend"
)

// RequestMeta is transport metadata the flows pass through to logs,
// audit events and delivery templates.
type RequestMeta struct {
	RequestID string
	IP        string
	UserAgent string
}

// AuthEvent is one entry of the authentication audit trail.
type AuthEvent struct {
	Type      AuthEventType `json:"type"`
	UserID    string        `json:"user_id,omitempty"`
	Username  string        `json:"username,omitempty"`
	Email     string        `json:"email,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	IP        string        `json:"ip,omitempty"`
	UserAgent string        `json:"user_agent,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
	At        time.Time     `json:"at"`
}

// OTPDelivery is what the notification channel needs to reach the user.
type OTPDelivery struct {
	Email     string
	Username  string
	Code      string
	Purpose   OTPPurpose
	ExpiresAt time.Time
	IP        string
	UserAgent string
}
