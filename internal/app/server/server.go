package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"dienstplan/internal/domain/audit"
	"dienstplan/internal/domain/auth"
	"dienstplan/internal/domain/documents"
	"dienstplan/internal/domain/notifications"
	"dienstplan/internal/domain/payroll"
	"dienstplan/internal/domain/shifts"
	"dienstplan/internal/domain/submissions"
	"dienstplan/internal/domain/workers"
	"dienstplan/internal/platform/cache"
	"dienstplan/internal/platform/config"
	"dienstplan/internal/platform/db"
	"dienstplan/internal/platform/email"
	"dienstplan/internal/platform/jobs"
	audithandler "dienstplan/internal/transport/http/handlers/audit"
	authhandler "dienstplan/internal/transport/http/handlers/auth"
	payrollhandler "dienstplan/internal/transport/http/handlers/payroll"
	shiftshandler "dienstplan/internal/transport/http/handlers/shifts"
	submissionshandler "dienstplan/internal/transport/http/handlers/submissions"
	workershandler "dienstplan/internal/transport/http/handlers/workers"
	"dienstplan/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			slog.Error("migrations failed", "err", err)
			os.Exit(1)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			slog.Error("seed failed", "err", err)
			os.Exit(1)
		}
	}

	if err := os.MkdirAll(cfg.DocumentsDir, 0o755); err != nil {
		slog.Error("documents dir unavailable", "dir", cfg.DocumentsDir, "err", err)
		os.Exit(1)
	}

	authStore := auth.NewStore(pool)
	workerStore := workers.NewStore(pool)
	shiftStore := shifts.NewStore(pool)
	submissionStore := submissions.NewStore(pool)
	payrollStore := payroll.NewStore(pool)
	auditSvc := audit.New(pool)

	var mailer email.Mailer = email.NoopMailer{}
	if cfg.EmailEnabled {
		mailer = email.NewSMTPMailer(email.Config{
			Host:     cfg.SMTPHost,
			Port:     strconv.Itoa(cfg.SMTPPort),
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.EmailFrom,
		})
	}

	notifier := notifications.NewService(mailer)
	docs := documents.NewService(submissionStore, shiftStore, workerStore, cfg.DocumentsDir)

	shiftSvc := shifts.NewService(shiftStore)
	submissionSvc := submissions.NewService(
		submissionStore, workerStore, notifier, docs,
		cfg.SigningSecret, cfg.BaseURL,
		cfg.SigningTokenTTL, cfg.ReminderCooldown,
	)
	payrollSvc := payroll.NewService(payrollStore, shiftStore, cache.New(cfg.CacheTTL))

	jobSvc := jobs.New(pool, cfg, submissionSvc)
	jobSvc.Start(ctx)

	isProd := cfg.Environment == "production"

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(isProd))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	submissionHandler := submissionshandler.NewHandler(submissionSvc, jobSvc)

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(authStore, cfg.JWTSecret)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.With(middleware.RequireAuth).Get("/auth/me", authHandler.HandleMe)

		shiftshandler.NewHandler(shiftSvc, workerStore, payrollSvc).RegisterRoutes(r)
		submissionHandler.RegisterRoutes(r)
		payrollhandler.NewHandler(payrollSvc).RegisterRoutes(r)
		workershandler.NewHandler(workerStore).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc).RegisterRoutes(r)
	})

	// Recipient signing links work without an account.
	submissionHandler.RegisterPublicRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "err", err)
	}
}
