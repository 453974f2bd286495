package application

import "github.com/oksasatya/go-otp-auth/pkg/apperror"

const (
	CodeInvalidEmail       = "INVALID_EMAIL"
	CodeWeakSecret         = "WEAK_SECRET"
	CodeMissingFields      = "MISSING_FIELDS"
	CodeDuplicateUsername  = "DUPLICATE_USERNAME"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeOTPExpiredOrAbsent = "OTP_EXPIRED_OR_ABSENT"
	CodeOTPMismatch        = "OTP_MISMATCH"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeOTPStorageFailure  = "OTP_STORAGE_FAILURE"
	CodeInternal           = "INTERNAL"
)

var (
	ErrInvalidEmail       = apperror.New(apperror.KindValidation, CodeInvalidEmail, "Invalid Email")
	ErrWeakSecret         = apperror.New(apperror.KindValidation, CodeWeakSecret, "Password must be at least 6 characters long")
	ErrMissingUsername    = apperror.New(apperror.KindValidation, CodeMissingFields, "Username required")
	ErrMissingCredentials = apperror.New(apperror.KindValidation, CodeMissingFields, "Email or username and password required")
	ErrMissingOTPFields   = apperror.New(apperror.KindValidation, CodeMissingFields, "Email and OTP required")
	ErrMissingEmail       = apperror.New(apperror.KindValidation, CodeMissingFields, "Email required")
	ErrDuplicateUsername  = apperror.New(apperror.KindConflict, CodeDuplicateUsername, "Username already exists")
	ErrDuplicateEmail     = apperror.New(apperror.KindConflict, CodeDuplicateEmail, "Email already exists")

	// ErrInvalidCredentials is the only message a rejected login ever sees,
	// whether the identity is unknown or the secret is wrong.
	ErrInvalidCredentials = apperror.New(apperror.KindCredential, CodeInvalidCredentials, "Invalid credentials")

	ErrOTPExpiredOrAbsent = apperror.New(apperror.KindOTP, CodeOTPExpiredOrAbsent, "OTP expired or not found")
	ErrOTPMismatch        = apperror.New(apperror.KindOTP, CodeOTPMismatch, "Invalid OTP")
	ErrUserNotFound       = apperror.New(apperror.KindNotFound, CodeUserNotFound, "User not found")
	ErrUnauthenticated    = apperror.New(apperror.KindUnauthenticated, CodeUnauthenticated, "Not authenticated")
)

// Response messages for the successful transitions.
const (
	MsgSignupOTPSent = "OTP sent. Please verify to complete signup."
	MsgLoginOTPSent  = "OTP sent. Please verify to complete login."
	MsgSignedIn      = "User Successfully Signed In"
	MsgOTPResent     = "New OTP Sent"
	MsgLoggedOut     = "Logged out successfully"
)
