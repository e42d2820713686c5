package auth

import "time"

// User is the sole persisted entity. An empty OTP string together with a
// nil expiry means no code is pending for that flow.
type User struct {
	ID                 string
	Name               string
	Email              string
	PasswordHash       string
	IsAccountVerified  bool
	VerifyOTP          string
	VerifyOTPExpiresAt *time.Time
	ResetOTP           string
	ResetOTPExpiresAt  *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
