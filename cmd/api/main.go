package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elysian/account-api/internal/config"
	"github.com/elysian/account-api/internal/infrastructure/dynamo"
	"github.com/elysian/account-api/internal/infrastructure/google"
	"github.com/elysian/account-api/internal/infrastructure/smtp"
	transporthttp "github.com/elysian/account-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	deps := &transporthttp.Deps{
		UserRepo:  dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		CodeRepo:  dynamo.NewCodeRepo(dynamoClient, cfg.DynamoTables.VerificationCodes),
		Mailer:    mailer,
		StaticDir: cfg.StaticDir,
	}

	// Google token verifier (optional — /api/google_login rejects requests
	// when no client ID is configured).
	if cfg.GoogleClientID != "" {
		deps.GoogleTokens = google.NewVerifier(cfg.GoogleClientID)
	} else {
		log.Println("WARN: GOOGLE_CLIENT_ID not set, google login disabled")
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
