package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL string
	ServerPort  int

	// RedisURL опционален: без него таблицы читаются напрямую из БД.
	RedisURL       string
	LeaderboardTTL time.Duration

	// StandingsMaxGoals — верхняя граница счета матча. 0 — значение по
	// умолчанию, отрицательное значение снимает ограничение.
	StandingsMaxGoals        int
	StandingsIncludeZeroRows bool
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Загружаем .env файл, если он есть. Ошибку не считаем фатальной.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080" // Порт по умолчанию
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	cfg := &Config{
		DatabaseURL: dbURL,
		ServerPort:  port,
		RedisURL:    os.Getenv("REDIS_URL"),
	}

	if ttlStr := os.Getenv("LEADERBOARD_CACHE_TTL"); ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid LEADERBOARD_CACHE_TTL environment variable: %w", err)
		}
		cfg.LeaderboardTTL = ttl
	}

	if maxGoalsStr := os.Getenv("STANDINGS_MAX_GOALS"); maxGoalsStr != "" {
		maxGoals, err := strconv.Atoi(maxGoalsStr)
		if err != nil {
			return nil, fmt.Errorf("invalid STANDINGS_MAX_GOALS environment variable: %w", err)
		}
		cfg.StandingsMaxGoals = maxGoals
	}

	if zeroRowsStr := os.Getenv("STANDINGS_INCLUDE_ZERO_ROWS"); zeroRowsStr != "" {
		includeZeroRows, err := strconv.ParseBool(zeroRowsStr)
		if err != nil {
			return nil, fmt.Errorf("invalid STANDINGS_INCLUDE_ZERO_ROWS environment variable: %w", err)
		}
		cfg.StandingsIncludeZeroRows = includeZeroRows
	}

	return cfg, nil
}
