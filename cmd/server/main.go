package main

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

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/scriptink/writofest-api/internal/auth"
	"github.com/scriptink/writofest-api/internal/config"
	"github.com/scriptink/writofest-api/internal/database"
	"github.com/scriptink/writofest-api/internal/handlers"
	"github.com/scriptink/writofest-api/internal/logging"
	"github.com/scriptink/writofest-api/internal/metrics"
	"github.com/scriptink/writofest-api/internal/notifier"
	"github.com/scriptink/writofest-api/internal/registration"
	"github.com/scriptink/writofest-api/internal/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	// Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	// Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("closing database", "error", err)
		}
	}()

	m := metrics.New(prometheus.DefaultRegisterer)

	// Initialize Notifiers
	var notifiers []notifier.Notifier
	if emailNotifier, err := notifier.NewEmailNotifier(cfg); err != nil {
		logger.Warn("email notifier not initialized", "error", err)
	} else {
		notifiers = append(notifiers, emailNotifier)
	}
	if discordNotifier, err := notifier.NewDiscordNotifier(cfg); err != nil {
		logger.Info("discord notifier not initialized", "error", err)
	} else {
		notifiers = append(notifiers, discordNotifier)
	}
	dispatcher := notifier.NewDispatcher(m, notifiers...)

	// Initialize Handlers
	opts, err := cfg.Registration()
	if err != nil {
		return err
	}
	store := storage.NewRegistrationStore(db)
	service := registration.NewService(store, dispatcher, m, opts)

	routes := handlers.RouteOptions{
		Logger:       logger,
		Registration: handlers.NewRegistrationHandler(service),
		Metrics:      promhttp.Handler(),
	}
	if cfg.EnableCORS {
		routes.CORSOrigins = cfg.CORSAllowedOrigins
	}
	if cfg.JWTSecret != "" {
		routes.Auth = auth.NewAuthHandler(cfg)
		routes.Admin = handlers.NewAdminHandler(store, routes.Auth)
	} else {
		logger.Warn("JWT_SECRET not set, organizer routes disabled")
	}

	// Initialize Router
	r := chi.NewRouter()
	handlers.RegisterRoutes(r, routes)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Start Server
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			"port", cfg.Port,
			"policy", opts.Policy.String(),
			"schema", opts.Schema.Name,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	if err := dispatcher.Wait(shutdownCtx); err != nil {
		logger.Warn("notifications still in flight at exit", "error", err)
	}
	return nil
}
