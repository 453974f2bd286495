package helpers

import (
	"fmt"

	"github.com/oksasatya/go-otp-auth/pkg/mailer"
	mailtpl "github.com/oksasatya/go-otp-auth/pkg/mailer/templates"
)

// EnsureRecipient fills the recipient fields of job data from job.To
func EnsureRecipient(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// SubjectForOTP is used when a job carries a code but no rendered subject
func SubjectForOTP(data map[string]any) string {
	switch fmt.Sprintf("%v", data["Purpose"]) {
	case mailtpl.PurposeSignup:
		return "Confirm your new account"
	case mailtpl.PurposeLogin:
		return "Your login verification code"
	default:
		return "Your verification code"
	}
}
