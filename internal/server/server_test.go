package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"authapp/internal/auth"
	"authapp/internal/config"
)

// memStore mirrors the repository semantics in memory, including the
// conditional consume updates.
type memStore struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]*auth.User)}
}

func (m *memStore) Create(_ context.Context, name, email, passwordHash string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return nil, auth.ErrDuplicateUser
		}
	}

	now := time.Now()
	user := &auth.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users[user.ID] = user
	out := *user
	return &out, nil
}

func (m *memStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindByID(_ context.Context, id string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, nil
}

func (m *memStore) SetVerifyOTP(_ context.Context, userID, code string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[userID]
	u.VerifyOTP = code
	u.VerifyOTPExpiresAt = &expiresAt
	return nil
}

func (m *memStore) SetResetOTP(_ context.Context, userID, code string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[userID]
	u.ResetOTP = code
	u.ResetOTPExpiresAt = &expiresAt
	return nil
}

func (m *memStore) ConsumeVerifyOTP(_ context.Context, userID, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[userID]
	if u == nil || u.VerifyOTP == "" || u.VerifyOTP != code {
		return false, nil
	}
	if u.VerifyOTPExpiresAt == nil || time.Now().After(*u.VerifyOTPExpiresAt) {
		return false, nil
	}
	u.IsAccountVerified = true
	u.VerifyOTP = ""
	u.VerifyOTPExpiresAt = nil
	return true, nil
}

func (m *memStore) ConsumeResetOTP(_ context.Context, userID, code, passwordHash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[userID]
	if u == nil || u.ResetOTP == "" || u.ResetOTP != code {
		return false, nil
	}
	if u.ResetOTPExpiresAt == nil || time.Now().After(*u.ResetOTPExpiresAt) {
		return false, nil
	}
	u.PasswordHash = passwordHash
	u.ResetOTP = ""
	u.ResetOTPExpiresAt = nil
	return true, nil
}

// expireVerifyOTP backdates the pending verification code.
func (m *memStore) expireVerifyOTP(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	past := time.Now().Add(-time.Minute)
	m.users[userID].VerifyOTPExpiresAt = &past
}

func (m *memStore) userByEmail(t *testing.T, email string) *auth.User {
	t.Helper()
	u, err := m.FindByEmail(context.Background(), email)
	require.NoError(t, err)
	require.NotNil(t, u)
	return u
}

type sentMail struct {
	To      string
	Subject string
	Text    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, text, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Text: text})
	return nil
}

func (f *fakeMailer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newFakeDenylist() *fakeDenylist {
	return &fakeDenylist{revoked: make(map[string]time.Time)}
}

func (f *fakeDenylist) Revoke(_ context.Context, jti string, until time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[jti] = until
	return nil
}

func (f *fakeDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	until, ok := f.revoked[jti]
	return ok && until.After(time.Now()), nil
}

type testEnv struct {
	server  *Server
	router  http.Handler
	store   *memStore
	mailer  *fakeMailer
	revoked *fakeDenylist
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Config{
		Environment:  config.EnvDevelopment,
		SessionTTL:   7 * 24 * time.Hour,
		VerifyOTPTTL: 10 * time.Minute,
		ResetOTPTTL:  9 * time.Minute,
	}

	store := newMemStore()
	mailer := &fakeMailer{}
	revoked := newFakeDenylist()
	tokens := auth.NewTokenService("test-secret", cfg.SessionTTL)

	srv := NewServer(cfg, store, tokens, revoked, mailer, auth.NewBcryptHasher())
	return &testEnv{
		server:  srv,
		router:  srv.Router(),
		store:   store,
		mailer:  mailer,
		revoked: revoked,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var parsed map[string]interface{}
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	}
	return rec, parsed
}

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func (e *testEnv) register(t *testing.T, name, email, password string) *http.Cookie {
	t.Helper()
	rec, body := e.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, true, body["success"])
	return sessionCookieFrom(t, rec)
}
