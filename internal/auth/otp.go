package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const otpRange = 900000

// GenerateOTP returns a uniformly random six digit decimal code in
// [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpRange))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// ValidateOTP checks a submitted code against the stored one. The submitted
// value is trimmed before comparison; the stored value is compared as-is.
// The match is checked before the expiry so that a wrong code never reveals
// whether a pending code has expired.
func ValidateOTP(stored string, expiresAt *time.Time, submitted string) error {
	if stored == "" {
		return ErrMissingOTP
	}
	if strings.TrimSpace(submitted) != stored {
		return ErrInvalidOTP
	}
	if expiresAt == nil || time.Now().After(*expiresAt) {
		return ErrExpiredOTP
	}
	return nil
}
