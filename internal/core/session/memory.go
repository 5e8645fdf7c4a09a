package session

import (
	"context"
	"sync"
	"time"

	"dish-resolver/internal/pkg/common"

	"go.uber.org/zap"
)

// MemoryStore 程序內的 session 儲存
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Session
	timeout time.Duration
	clock   Clock
}

// NewMemoryStore 創建記憶體 session 儲存
func NewMemoryStore(timeout time.Duration, clock Clock) *MemoryStore {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if clock == nil {
		clock = SystemClock
	}
	return &MemoryStore{
		entries: make(map[string]Session),
		timeout: timeout,
		clock:   clock,
	}
}

// Put 覆寫使用者的 session
func (m *MemoryStore) Put(_ context.Context, userID string, s Session) error {
	s = prepare(s, m.clock.Now())

	m.mu.Lock()
	m.entries[userID] = s
	m.mu.Unlock()

	common.LogSessionEvent("put", userID)
	return nil
}

// Get 取得 session，逾時者在讀取時刪除
func (m *MemoryStore) Get(_ context.Context, userID string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.entries[userID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	if expired(s.LastUpdated, m.clock.Now(), m.timeout) {
		m.mu.Lock()
		// 只刪除讀到的那一筆，期間被覆寫的新 session 保留
		if cur, ok := m.entries[userID]; ok && cur.LastUpdated.Equal(s.LastUpdated) {
			delete(m.entries, userID)
		}
		m.mu.Unlock()
		common.LogSessionEvent("expired", userID)
		return nil, ErrNotFound
	}

	return clone(s), nil
}

// Clear 刪除 session
func (m *MemoryStore) Clear(_ context.Context, userID string) error {
	m.mu.Lock()
	delete(m.entries, userID)
	m.mu.Unlock()

	common.LogSessionEvent("clear", userID)
	return nil
}

// Len 目前保存的 session 數量（含尚未被讀取清除的逾時項目）
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Sweep 清理所有逾時的 session，回傳清理數量
func (m *MemoryStore) Sweep() int {
	now := m.clock.Now()
	count := 0

	m.mu.Lock()
	for key, s := range m.entries {
		if expired(s.LastUpdated, now, m.timeout) {
			delete(m.entries, key)
			count++
		}
	}
	remaining := len(m.entries)
	m.mu.Unlock()

	if count > 0 {
		common.LogInfo("Cleaned up expired sessions",
			zap.Int("count", count),
			zap.Int("remaining_size", remaining),
		)
	}
	return count
}

// StartSweeper 定期清理逾時 session 釋放記憶體，直到 ctx 結束。
// 讀取時的逾時判斷不依賴此協程。
func (m *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Sweep()
			}
		}
	}()
}
