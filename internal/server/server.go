// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package server wires the application together and runs the HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"

	"github.com/unityvote/unityvote/internal/config"
	"github.com/unityvote/unityvote/internal/database"
	"github.com/unityvote/unityvote/internal/handlers"
	"github.com/unityvote/unityvote/internal/repository"
	"github.com/unityvote/unityvote/internal/services/adminauth"
	"github.com/unityvote/unityvote/internal/services/email"
	"github.com/unityvote/unityvote/internal/services/otp"
	"github.com/unityvote/unityvote/internal/services/session"
	"github.com/unityvote/unityvote/internal/services/voting"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// Database
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	repo := repository.New(db)

	// Services
	mailer, err := email.NewService(&cfg.SMTP, cfg.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to init email service: %w", err)
	}

	codes := otp.NewService(repo, otp.Config{
		Length: cfg.Voting.CodeLength,
		TTL:    cfg.Voting.CodeTTL,
	})
	votes := voting.NewService(repo, codes, mailer)
	auth := adminauth.NewService(repo, codes, mailer, adminauth.Config{
		InvitationTTL: cfg.Voting.InvitationTTL,
		AutoVerifyOTP: cfg.Auth.AutoVerifyOTP,
	})
	sessions, err := session.NewManager(repo, &cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to init session manager: %w", err)
	}

	if err := auth.EnsureAdmin(ctx, cfg.Auth.BootstrapEmail, cfg.Auth.BootstrapPassword, cfg.Auth.BootstrapName); err != nil {
		return fmt.Errorf("failed to bootstrap admin account: %w", err)
	}

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	setupMiddleware(e, cfg)
	setupRoutes(e, handlers.New(repo, votes, auth, sessions), sessions)

	return startWithGracefulShutdown(e, cfg)
}

func startWithGracefulShutdown(e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("Server running", "url", cfg.Server.BaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
