package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/swifttasks/swifttasks/internal/api"
	"github.com/swifttasks/swifttasks/internal/auth"
	"github.com/swifttasks/swifttasks/internal/config"
	"github.com/swifttasks/swifttasks/internal/content"
	"github.com/swifttasks/swifttasks/internal/database"
	"github.com/swifttasks/swifttasks/internal/membership"
	"github.com/swifttasks/swifttasks/internal/notification"
	"github.com/swifttasks/swifttasks/internal/team"
	"github.com/swifttasks/swifttasks/internal/user"
)

func main() {
	// Optional .env for local development; environment wins in production.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := user.NewRepository(db.Pool())
	teamRepo := team.NewRepository(db.Pool())
	contentRepo := content.NewRepository(db.Pool())
	notificationRepo := notification.NewRepository(db.Pool())

	authService := auth.NewService(userRepo, cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour, cfg.BcryptCost)
	membershipService := membership.NewService(
		userRepo,
		teamRepo,
		teamRepo,
		contentRepo,
		notificationRepo,
		time.Duration(cfg.InviteTTLHours)*time.Hour,
	)

	router := api.NewRouter(api.RouterDeps{
		DBPinger:      db,
		Version:       cfg.Version,
		AuthService:   authService,
		Membership:    membershipService,
		Users:         userRepo,
		Invites:       teamRepo,
		Contents:      contentRepo,
		Notifications: notificationRepo,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting SwiftTasks server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
