package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cloud-ru/mcp-credit-go/internal/config"
)

const pingTimeout = 2 * time.Second

// Cache хранит сериализованные результаты расчетов
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// New выбирает Redis, если задан REDIS_ADDR и сервер отвечает на PING,
// иначе возвращает кэш в памяти процесса.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) Cache {
	if cfg.RedisAddr == "" {
		logger.Debug("REDIS_ADDR is not set, using in-memory cache", zap.String("op", "cache.New"))
		return NewMemoryCache()
	}

	rc := NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		logger.Warn("redis is unreachable, falling back to in-memory cache",
			zap.String("op", "cache.New"),
			zap.String("addr", cfg.RedisAddr),
			zap.Error(err),
		)
		_ = rc.Close()
		return NewMemoryCache()
	}

	logger.Info("using redis cache", zap.String("op", "cache.New"), zap.String("addr", cfg.RedisAddr))
	return rc
}

// Key строит ключ вида prefix:sha256(json(v))
func Key(prefix string, v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key: %w", err)
	}
	sum := sha256.Sum256(raw)
	return prefix + ":" + hex.EncodeToString(sum[:]), nil
}
