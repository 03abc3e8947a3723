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

	"github.com/huddle14/huddle/internal/api"
	"github.com/huddle14/huddle/internal/api/middleware"
	"github.com/huddle14/huddle/internal/auth"
	"github.com/huddle14/huddle/internal/config"
	"github.com/huddle14/huddle/internal/database"
	"github.com/huddle14/huddle/internal/invite"
	"github.com/huddle14/huddle/internal/metrics"
	"github.com/huddle14/huddle/internal/project"
	"github.com/huddle14/huddle/internal/team"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := database.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	collector := metrics.NewCollector()

	userRepo := auth.NewUserRepository(db.Pool())
	teamRepo := team.NewRepository(db.Pool())
	memberRepo := team.NewMemberRepository(db.Pool())
	inviteRepo := invite.NewRepository(db.Pool())
	projectRepo := project.NewProjectRepository(db.Pool())
	taskRepo := project.NewTaskRepository(db.Pool())
	subTaskRepo := project.NewSubTaskRepository(db.Pool())

	github := auth.NewGithubProvider(cfg.GithubClientID, cfg.GithubSecret, cfg.GithubRedirectURL)
	authService := auth.NewService(userRepo, github, []byte(cfg.JWTSecret))

	guard := team.NewGuard(teamRepo, taskRepo)
	aggregator := project.NewAggregator(projectRepo, taskRepo, subTaskRepo, collector)

	teamService := team.NewService(db, teamRepo, memberRepo, guard)
	inviteService := invite.NewService(db, inviteRepo, memberRepo, userRepo, guard)
	projectService := project.NewService(db, projectRepo, taskRepo, subTaskRepo, memberRepo, guard, aggregator)

	limiter := middleware.NewRateLimiter(cfg.RatePerMinute, cfg.RateBurst)
	defer limiter.Stop()

	router := api.NewRouter(api.RouterDeps{
		AuthService:    authService,
		TeamService:    teamService,
		InviteService:  inviteService,
		ProjectService: projectService,
		DBPinger:       db,
		Version:        cfg.Version,
		Recorder:       collector,
		MetricsHandler: collector.Handler(),
		RateLimiter:    limiter,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting Huddle server", "port", cfg.Port, "version", cfg.Version)
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
