// Package cache реализует Redis-кэш отрендеренных таблиц лидеров.
// Кэш — только ускоритель поверх чистого пересчёта: инвалидируется при
// каждой записи в журнал матчей и никогда не является источником истины.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 5 * time.Minute

// LeaderboardCache хранит уже отсортированные строки таблиц в JSON.
// Нулевой указатель безопасен и ведёт себя как постоянный промах —
// сервис работает и без Redis.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLeaderboardCache(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &LeaderboardCache{client: client, ttl: ttl}
}

// SessionPlayerKey returns the cache key for a session's player board.
func SessionPlayerKey(sessionID string) string {
	return "leaderboard:session:" + sessionID + ":players"
}

// SessionPairKey returns the cache key for a session's pair board.
func SessionPairKey(sessionID string) string {
	return "leaderboard:session:" + sessionID + ":pairs"
}

// Get декодирует закэшированную таблицу в dest. Возвращает (false, nil)
// при промахе.
func (c *LeaderboardCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c == nil || c.client == nil {
		return false, nil
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("leaderboard cache get %q: %w", key, err)
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("leaderboard cache decode %q: %w", key, err)
	}
	return true, nil
}

func (c *LeaderboardCache) Set(ctx context.Context, key string, value interface{}) error {
	if c == nil || c.client == nil {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("leaderboard cache encode %q: %w", key, err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("leaderboard cache set %q: %w", key, err)
	}
	return nil
}

// InvalidateSession сбрасывает обе таблицы сессии. Вызывается при каждом
// пересчёте, до того как новые строки станут видимы читателям.
func (c *LeaderboardCache) InvalidateSession(ctx context.Context, sessionID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, SessionPlayerKey(sessionID), SessionPairKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("leaderboard cache invalidate session %s: %w", sessionID, err)
	}
	return nil
}
