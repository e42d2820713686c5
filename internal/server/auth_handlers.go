package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"authapp/internal/auth"
	"authapp/internal/i18n"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeFailure(w, http.StatusBadRequest, "Missing details")
		return
	}

	ctx := r.Context()
	locale := i18n.LocaleFromRequest(r)

	hashed, err := s.Hasher.Hash(req.Password)
	if err != nil {
		log.Printf("register: hash failed: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	user, err := s.Users.Create(ctx, req.Name, req.Email, hashed)
	if err != nil {
		if errors.Is(err, auth.ErrDuplicateUser) {
			writeFailure(w, http.StatusConflict, "User already exists")
			return
		}
		log.Printf("register: create user failed: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	content := i18n.WelcomeEmail(locale, user.Email)
	if err := s.Mailer.Send(ctx, user.Email, content.Subject, content.Text, content.HTML); err != nil {
		log.Printf("register: welcome email failed for %s: %v", user.Email, err)
		writeFailure(w, http.StatusInternalServerError, "Failed to send welcome email")
		return
	}

	if err := s.issueSession(w, user.ID); err != nil {
		log.Printf("register: token issue failed: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	writeSuccess(w, http.StatusCreated, "User registered successfully")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeFailure(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := s.Users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("login: lookup by email failed: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Login failed")
		return
	}
	if user == nil {
		writeFailure(w, http.StatusUnauthorized, "Invalid email")
		return
	}
	if !s.Hasher.Compare(user.PasswordHash, req.Password) {
		writeFailure(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	if err := s.issueSession(w, user.ID); err != nil {
		log.Printf("login: token issue failed: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Login failed")
		return
	}

	writeSuccess(w, http.StatusOK, "Login successful")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Revoke the presented token so it stops working before its signed
	// expiry; an absent or invalid cookie still gets a cleared cookie back.
	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil && cookie.Value != "" {
		if claims, err := s.Tokens.Verify(cookie.Value); err == nil {
			if err := s.Denylist.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
				log.Printf("logout: token revocation failed: %v", err)
			}
		}
	}

	auth.ClearSessionCookie(w, s.Config.IsProduction())
	writeSuccess(w, http.StatusOK, "Logout successful")
}

func (s *Server) handleSendVerifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := s.Users.FindByID(ctx, userIDFromContext(ctx))
	if err != nil {
		log.Printf("send-verify-otp: lookup failed: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Failed to send verification OTP")
		return
	}
	if user == nil {
		writeFailure(w, http.StatusNotFound, "User not found")
		return
	}
	if user.IsAccountVerified {
		writeFailure(w, http.StatusBadRequest, "Account already verified")
		return
	}

	if err := s.sendOTP(ctx, r, user, otpKindVerify); err != nil {
		log.Printf("send-verify-otp: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Failed to send verification OTP")
		return
	}

	writeSuccess(w, http.StatusOK, "Verification OTP sent to your email")
}

type verifyAccountRequest struct {
	OTP string `json:"otp"`
}

func (s *Server) handleVerifyAccount(w http.ResponseWriter, r *http.Request) {
	var req verifyAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OTP == "" {
		writeFailure(w, http.StatusBadRequest, "Missing details")
		return
	}

	ctx := r.Context()
	user, err := s.Users.FindByID(ctx, userIDFromContext(ctx))
	if err != nil {
		log.Printf("verify-account: lookup failed: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Failed to verify account")
		return
	}
	if user == nil {
		writeFailure(w, http.StatusNotFound, "User not found")
		return
	}

	if err := auth.ValidateOTP(user.VerifyOTP, user.VerifyOTPExpiresAt, req.OTP); err != nil {
		writeFailure(w, http.StatusBadRequest, otpFailureMessage(err))
		return
	}

	// The conditional update is what actually consumes the code; losing
	// the race to a concurrent submission reads as an invalid OTP.
	consumed, err := s.Users.ConsumeVerifyOTP(ctx, user.ID, user.VerifyOTP)
	if err != nil {
		log.Printf("verify-account: consume failed: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Failed to verify account")
		return
	}
	if !consumed {
		writeFailure(w, http.StatusBadRequest, "Invalid OTP")
		return
	}

	writeSuccess(w, http.StatusOK, "Email verified successfully")
}

func (s *Server) handleIsAuth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, response{"success": true})
}

type sendResetOTPRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleSendResetOTP(w http.ResponseWriter, r *http.Request) {
	var req sendResetOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" {
		writeFailure(w, http.StatusBadRequest, "Email is required")
		return
	}

	ctx := r.Context()
	user, err := s.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		log.Printf("send-reset-otp: lookup failed: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Failed to send reset OTP")
		return
	}
	if user == nil {
		writeFailure(w, http.StatusNotFound, "user not found")
		return
	}

	if err := s.sendOTP(ctx, r, user, otpKindReset); err != nil {
		log.Printf("send-reset-otp: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Failed to send reset OTP")
		return
	}

	writeSuccess(w, http.StatusOK, "Password reset OTP sent to your email")
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.OTP == "" || req.NewPassword == "" {
		writeFailure(w, http.StatusBadRequest, "Email, OTP and new password are required")
		return
	}

	ctx := r.Context()
	user, err := s.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		log.Printf("reset-password: lookup failed: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}
	if user == nil {
		writeFailure(w, http.StatusNotFound, "user not found")
		return
	}

	if err := auth.ValidateOTP(user.ResetOTP, user.ResetOTPExpiresAt, req.OTP); err != nil {
		writeFailure(w, http.StatusBadRequest, otpFailureMessage(err))
		return
	}

	hashed, err := s.Hasher.Hash(req.NewPassword)
	if err != nil {
		log.Printf("reset-password: hash failed: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	consumed, err := s.Users.ConsumeResetOTP(ctx, user.ID, user.ResetOTP, hashed)
	if err != nil {
		log.Printf("reset-password: consume failed: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}
	if !consumed {
		writeFailure(w, http.StatusBadRequest, "Invalid OTP")
		return
	}

	writeSuccess(w, http.StatusOK, "Password has been changed successfully")
}

func (s *Server) issueSession(w http.ResponseWriter, userID string) error {
	token, err := s.Tokens.Issue(userID)
	if err != nil {
		return err
	}
	auth.SetSessionCookie(w, token, s.Tokens.TTL(), s.Config.IsProduction())
	return nil
}

type otpKind int

const (
	otpKindVerify otpKind = iota
	otpKindReset
)

// sendOTP generates a fresh code, overwrites the pending one for the
// given flow and emails it. Mail delivery failure fails the whole
// request even though the code is already stored; the client simply
// requests a new one.
func (s *Server) sendOTP(ctx context.Context, r *http.Request, user *auth.User, kind otpKind) error {
	code, err := auth.GenerateOTP()
	if err != nil {
		return err
	}

	locale := i18n.LocaleFromRequest(r)
	var (
		ttl     time.Duration
		content i18n.EmailContent
	)

	switch kind {
	case otpKindVerify:
		ttl = s.Config.VerifyOTPTTL
		if err := s.Users.SetVerifyOTP(ctx, user.ID, code, time.Now().Add(ttl)); err != nil {
			return err
		}
		content = i18n.VerifyOTPEmail(locale, code, int(ttl.Minutes()))
	case otpKindReset:
		ttl = s.Config.ResetOTPTTL
		if err := s.Users.SetResetOTP(ctx, user.ID, code, time.Now().Add(ttl)); err != nil {
			return err
		}
		content = i18n.ResetOTPEmail(locale, code, int(ttl.Minutes()))
	}

	return s.Mailer.Send(ctx, user.Email, content.Subject, content.Text, content.HTML)
}

// otpFailureMessage maps OTP validation errors onto the messages the
// client shows. A missing code reads as invalid so the response does not
// reveal whether a code is pending.
func otpFailureMessage(err error) string {
	if errors.Is(err, auth.ErrExpiredOTP) {
		return "OTP is expired"
	}
	return "Invalid OTP"
}
