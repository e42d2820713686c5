package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"authapp/internal/auth"
	"authapp/internal/config"
)

// UserStore is the credential store contract the handlers depend on,
// satisfied by *auth.UserRepository.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (*auth.User, error)
	FindByEmail(ctx context.Context, email string) (*auth.User, error)
	FindByID(ctx context.Context, id string) (*auth.User, error)
	SetVerifyOTP(ctx context.Context, userID, code string, expiresAt time.Time) error
	SetResetOTP(ctx context.Context, userID, code string, expiresAt time.Time) error
	ConsumeVerifyOTP(ctx context.Context, userID, code string) (bool, error)
	ConsumeResetOTP(ctx context.Context, userID, code, passwordHash string) (bool, error)
}

// Mailer delivers account emails, satisfied by *email.Sender.
type Mailer interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// TokenDenylist tracks revoked session tokens, satisfied by
// *auth.TokenDenylist.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type Server struct {
	Users    UserStore
	Tokens   *auth.TokenService
	Denylist TokenDenylist
	Mailer   Mailer
	Hasher   auth.PasswordHasher
	Config   config.Config
}

func NewServer(cfg config.Config, users UserStore, tokens *auth.TokenService, denylist TokenDenylist, mailer Mailer, hasher auth.PasswordHasher) *Server {
	return &Server{
		Users:    users,
		Tokens:   tokens,
		Denylist: denylist,
		Mailer:   mailer,
		Hasher:   hasher,
		Config:   cfg,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	formatter := &middleware.DefaultLogFormatter{
		Logger:  log.New(log.Writer(), "", log.Flags()),
		NoColor: true,
	}
	r.Use(middleware.RequestLogger(formatter))
	r.Use(middleware.Recoverer)
	r.Use(secureHeaders)

	if len(s.Config.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/", s.handleLiveness)

	r.Route("/api/auth", func(ar chi.Router) {
		ar.Post("/register", s.handleRegister)
		ar.Post("/login", s.handleLogin)
		ar.Post("/logout", s.handleLogout)
		ar.Post("/send-reset-otp", s.handleSendResetOTP)
		ar.Post("/reset-password", s.handleResetPassword)

		ar.Group(func(pr chi.Router) {
			pr.Use(s.requireAuth)
			pr.Post("/send-verify-otp", s.handleSendVerifyOTP)
			pr.Post("/verify-account", s.handleVerifyAccount)
			pr.Get("/is-auth", s.handleIsAuth)
		})
	})

	r.Group(func(pr chi.Router) {
		pr.Use(s.requireAuth)
		pr.Get("/api/user/data", s.handleUserData)
	})

	return r
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Server is up and running"))
}
