package helpers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// OTP helpers

const otpDigits = 6

var otpSpace = big.NewInt(1_000_000)

// KeyOTP is the Redis key for the pending OTP of an email address
func KeyOTP(email string) string {
	return "otp:" + email
}

// NormalizeEmail is the canonical form used for storage and OTP keys
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GenOTPCode generates a secure random 6-digit OTP code as a zero-padded string.
// rand.Int draws uniformly from [0, 10^6) so every code is equally likely.
func GenOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}

// CodeGenerator adapts GenOTPCode to the generator interface used by the auth flow.
type CodeGenerator struct{}

func (CodeGenerator) Generate() (string, error) { return GenOTPCode() }
