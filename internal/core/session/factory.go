package session

import (
	"context"
	"fmt"

	"dish-resolver/internal/infrastructure/config"
	"dish-resolver/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// NewStore 依設定建立 session 儲存，回傳的 closer 用於關閉底層連線
func NewStore(ctx context.Context, cfg config.SessionConfig, clock Clock) (Store, func() error, error) {
	switch cfg.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		// 測試連接
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}

		common.LogInfo("session 儲存已初始化",
			zap.String("backend", "redis"),
			zap.String("addr", cfg.RedisAddr),
			zap.Duration("逾時", cfg.Timeout),
		)
		return NewRedisStore(client, cfg.KeyPrefix, cfg.Timeout, clock), client.Close, nil

	case "memory", "":
		store := NewMemoryStore(cfg.Timeout, clock)
		store.StartSweeper(ctx, cfg.SweepInterval)

		common.LogInfo("session 儲存已初始化",
			zap.String("backend", "memory"),
			zap.Duration("逾時", cfg.Timeout),
			zap.Duration("清理間隔", cfg.SweepInterval),
		)
		return store, func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
}
