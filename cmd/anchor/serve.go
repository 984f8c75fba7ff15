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

	"github.com/spf13/cobra"

	"github.com/anchorhq/anchor/internal/api"
	"github.com/anchorhq/anchor/internal/config"
	"github.com/anchorhq/anchor/internal/db"
	"github.com/anchorhq/anchor/internal/decision"
	"github.com/anchorhq/anchor/internal/llm"
	"github.com/anchorhq/anchor/internal/repository"
	"github.com/anchorhq/anchor/internal/service"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	users := repository.NewSQLiteUserRepo(database)
	tokens := repository.NewSQLiteTokenRepo(database)
	emotions := repository.NewSQLiteEmotionRepo(database)
	streaks := repository.NewSQLiteStreakRepo(database)
	habits := repository.NewSQLiteHabitRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	completions := repository.NewSQLiteCompletionRepo(database)
	analytics := repository.NewSQLiteAnalyticsRepo(database)
	decisions := repository.NewSQLiteDecisionRepo(database)
	notifications := repository.NewSQLiteNotificationRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	modelCfg := llm.LoadConfig()
	modelClient, err := llm.NewClient(modelCfg, llm.NewLogObserver(os.Stderr))
	if err != nil {
		return fmt.Errorf("constructing model client: %w", err)
	}

	aggregator := decision.NewAggregator(users, emotions, streaks, habits, tasks, completions, analytics)
	engine := decision.NewEngine(modelClient, modelCfg.Model)
	executor := decision.NewExecutor(streaks, habits, tasks, notifications)
	decisionSvc := decision.NewService(aggregator, engine, executor, decisions, analytics,
		service.NewLogUseCaseObserver(logger))

	server := api.NewServer(api.Services{
		Auth:      service.NewAuthService(users, tokens),
		Users:     service.NewUserService(users),
		Emotions:  service.NewEmotionService(users, emotions, uow),
		Streaks:   service.NewStreakService(streaks),
		Habits:    service.NewHabitService(users, habits, streaks, uow),
		Tasks:     service.NewTaskService(users, tasks, uow),
		Analytics: service.NewAnalyticsService(users, streaks, habits, completions, emotions),
		Insights:  service.NewInsightsService(users, emotions, streaks, habits, completions, analytics, decisions),
		Dashboard: service.NewDashboardService(users, emotions, streaks, habits, tasks, completions, analytics),
		Decisions: decisionSvc,
		Tokens:    tokens,
	}, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(cfg.Addr); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
