package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dish-resolver/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// deleteIfUnchanged 只在值仍是讀到的那份時刪除，避免刪掉同時寫入的新 session
var deleteIfUnchanged = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore 以 Redis 保存 session，多個服務實例可共用
type RedisStore struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
	clock   Clock
}

// NewRedisStore 創建 Redis session 儲存
func NewRedisStore(client *redis.Client, prefix string, timeout time.Duration, clock Clock) *RedisStore {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if clock == nil {
		clock = SystemClock
	}
	return &RedisStore{
		client:  client,
		prefix:  prefix,
		timeout: timeout,
		clock:   clock,
	}
}

// Put 覆寫使用者的 session。
// Redis TTL 比逾時多一秒，是否逾時仍以時鐘判斷為準。
func (s *RedisStore) Put(ctx context.Context, userID string, sess Session) error {
	sess = prepare(sess, s.clock.Now())

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(userID), data, s.timeout+time.Second).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	common.LogSessionEvent("put", userID)
	return nil
}

// Get 取得 session
func (s *RedisStore) Get(ctx context.Context, userID string) (*Session, error) {
	data, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if expired(sess.LastUpdated, s.clock.Now(), s.timeout) {
		if err := s.deleteExpired(ctx, userID, data); err != nil {
			return nil, err
		}
		common.LogSessionEvent("expired", userID)
		return nil, ErrNotFound
	}

	return &sess, nil
}

// Clear 刪除 session
func (s *RedisStore) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	common.LogSessionEvent("clear", userID)
	return nil
}

// deleteExpired 刪除逾時的 session；期間被覆寫時保留新值
func (s *RedisStore) deleteExpired(ctx context.Context, userID string, seen []byte) error {
	if err := deleteIfUnchanged.Run(ctx, s.client, []string{s.key(userID)}, seen).Err(); err != nil {
		return fmt.Errorf("failed to delete expired session: %w", err)
	}
	return nil
}

// key 生成 session 鍵
func (s *RedisStore) key(userID string) string {
	return s.prefix + userID
}
