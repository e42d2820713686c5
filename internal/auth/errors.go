package auth

import "errors"

var (
	// ErrDuplicateUser is returned when a registration collides with an
	// existing email address.
	ErrDuplicateUser = errors.New("user already exists")

	// ErrInvalidToken covers malformed, tampered and expired session tokens.
	ErrInvalidToken = errors.New("invalid session token")

	// ErrAlreadyVerified is returned when a verification OTP is requested
	// for an account that is already verified.
	ErrAlreadyVerified = errors.New("account already verified")

	// ErrMissingOTP means no code is pending for the requested flow.
	ErrMissingOTP = errors.New("no OTP pending")

	// ErrInvalidOTP means the submitted code does not match the stored one.
	ErrInvalidOTP = errors.New("invalid OTP")

	// ErrExpiredOTP means the stored code matched but its expiry has passed.
	ErrExpiredOTP = errors.New("OTP expired")
)
