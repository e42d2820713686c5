package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"authapp/internal/auth"
	"authapp/internal/config"
	"authapp/internal/database"
	"authapp/internal/email"
	"authapp/internal/logging"
	"authapp/internal/server"
)

const (
	logMaxSizeBytes = 10 << 20
	logMaxBackups   = 3
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logOutput := io.Writer(os.Stdout)
	if cfg.LogFile != "" {
		fileWriter, err := logging.NewRotatingFileWriter(cfg.LogFile, logMaxSizeBytes, logMaxBackups)
		if err != nil {
			log.Fatalf("log setup error: %v", err)
		}
		defer fileWriter.Close()
		logOutput = io.MultiWriter(os.Stdout, fileWriter)
	}
	log.SetOutput(logOutput)
	log.SetFlags(log.LstdFlags | log.LUTC | log.Lshortfile)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database error: %v", err)
	}
	defer db.Close()

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis error: %v", err)
	}
	defer redisClient.Close()

	users := auth.NewUserRepository(db)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.SessionTTL)
	denylist := &auth.TokenDenylist{Redis: redisClient}
	mailer := email.NewSender(cfg.Email)
	hasher := auth.NewBcryptHasher()

	api := server.NewServer(cfg, users, tokens, denylist, mailer, hasher)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.Router(),
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}

	log.Printf("Listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
