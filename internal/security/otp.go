package security

import (
	"crypto/rand"
	"crypto/subtle"
	"math/big"
)

const (
	otpMin = 100000
	otpMax = 999999
)

// GenerateOTP returns a 6-digit numeric OTP string, uniformly random over
// 100000–999999. Uses crypto/rand for randomness.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", err
	}
	return big.NewInt(0).Add(n, big.NewInt(otpMin)).String(), nil
}

// OTPEqual performs constant-time comparison of the provided OTP with the
// stored value. Returns false for empty stored values.
func OTPEqual(provided, stored string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(stored)) == 1
}
