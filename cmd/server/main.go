package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aslectra/backend/internal/handlers"
	"github.com/aslectra/backend/internal/mail"
	"github.com/aslectra/backend/internal/router"
	"github.com/aslectra/backend/internal/session"
	"github.com/aslectra/backend/internal/storage"
	"github.com/aslectra/backend/internal/views"
	"github.com/aslectra/backend/pkg/config"
	"github.com/aslectra/backend/pkg/firebase"
	"github.com/aslectra/backend/pkg/logger"
)

// mails still queued after this long are dropped on shutdown
const mailDrainTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg := config.Load()
	logger.InitFromConfig(cfg)

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Error("failed to initialize databases", "error", err)
		os.Exit(1)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	renderer, err := views.New()
	if err != nil {
		logger.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	var images storage.ImageStore = storage.Unavailable{}
	if db.Mongo != nil {
		images = storage.NewGridFSStore(db.Mongo.Database(cfg.MongoDatabase))
	}

	var mailer mail.Mailer = mail.NewLogMailer(logger.L())
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}

	// Firebase login is optional
	var verifier handlers.IDTokenVerifier
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			logger.Error("failed to initialize Firebase", "error", err)
			os.Exit(1)
		}
		verifier = firebaseApp.AuthClient
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Setup global middleware
	router.SetupMiddleware(e, router.MiddlewareOptions{
		BodyLimit:     cfg.UploadMaxSize,
		SecureCookies: !cfg.IsDevelopment(),
	})

	// Setup routes and dependencies
	notifier, err := router.SetupRoutes(e, router.Deps{
		DB:        db.SQL,
		Sessions:  session.NewStore(db.Redis, cfg.SessionTTL, !cfg.IsDevelopment()),
		Renderer:  renderer,
		Images:    images,
		Mailer:    mailer,
		Firebase:  verifier,
		JWTSecret: cfg.JWTSecret,
		AppURL:    cfg.AppURL,
		Logger:    logger.L(),
	})
	if err != nil {
		logger.Error("failed to set up routes", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	mailCtx, cancelMail := context.WithTimeout(context.Background(), mailDrainTimeout)
	defer cancelMail()
	if err := notifier.WaitContext(mailCtx); err != nil {
		logger.Error("pending mails abandoned", "error", err)
	}
}
