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

	"matchnight/cache"
	"matchnight/config"
	"matchnight/db"
	"matchnight/handlers"
	"matchnight/repositories"
	api "matchnight/routes"
	"matchnight/services"
	"matchnight/stats"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Кэш таблиц опционален: без REDIS_URL приложение работает напрямую с БД.
	var boards *cache.LeaderboardCache
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("failed to parse REDIS_URL", slog.Any("error", err))
			os.Exit(1)
		}
		redisClient := redis.NewClient(redisOpts)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("failed to close redis connection", slog.Any("error", err))
			}
		}()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancelPing()
			logger.Error("failed to ping redis", slog.Any("error", err))
			os.Exit(1)
		}
		cancelPing()

		boards = cache.NewLeaderboardCache(redisClient, cfg.LeaderboardTTL)
		logger.Info("leaderboard cache initialized")
	} else {
		logger.Info("REDIS_URL not set, leaderboard cache disabled")
	}

	// Инициализация репозиториев
	accountRepo := repositories.NewPostgresAccountRepository(dbConn)
	sessionRepo := repositories.NewPostgresSessionRepository(dbConn)
	playerRepo := repositories.NewPostgresSessionPlayerRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	standingRepo := repositories.NewPostgresStandingRepository(dbConn)
	groupRepo := repositories.NewPostgresGroupRepository(dbConn)
	inviteRepo := repositories.NewPostgresInviteRepository(dbConn)
	logger.Info("repositories initialized")

	statsOpts := stats.Options{
		MaxGoals:        cfg.StandingsMaxGoals,
		IncludeZeroRows: cfg.StandingsIncludeZeroRows,
	}

	// Инициализация сервисов
	accountService := services.NewAccountService(accountRepo)
	sessionService := services.NewSessionService(sessionRepo, playerRepo, logger)
	standingsService := services.NewStandingsService(
		matchRepo,
		playerRepo,
		sessionRepo,
		standingRepo,
		groupRepo,
		boards,
		logger,
		statsOpts,
	)
	matchService := services.NewMatchService(
		matchRepo,
		playerRepo,
		sessionRepo,
		standingsService,
		logger,
		statsOpts,
	)
	groupService := services.NewGroupService(groupRepo, accountRepo, sessionRepo, sessionService, logger)
	inviteService := services.NewInviteService(inviteRepo, groupRepo, accountRepo, logger)
	logger.Info("services initialized")

	// Инициализация обработчиков HTTP
	accountHandler := handlers.NewAccountHandler(accountService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	matchHandler := handlers.NewMatchHandler(matchService)
	leaderboardHandler := handlers.NewLeaderboardHandler(standingsService)
	groupHandler := handlers.NewGroupHandler(groupService)
	inviteHandler := handlers.NewInviteHandler(inviteService)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		accountHandler,
		sessionHandler,
		matchHandler,
		leaderboardHandler,
		groupHandler,
		inviteHandler,
	)
	logger.Info("routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
