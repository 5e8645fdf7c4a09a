package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dish-resolver/internal/pkg/common"
)

// Deduplicator 擋下窗口內重複送出的對話請求，指紋為 method + path + query
type Deduplicator struct {
	mu       sync.Mutex
	window   time.Duration
	requests map[string]time.Time
	now      func() time.Time
}

// NewDeduplicator 創建去重器；window <= 0 時使用 1 秒
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = time.Second
	}
	return &Deduplicator{
		window:   window,
		requests: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Middleware 請求去重中間件；match 為 nil 時所有請求都去重，否則只處理 match 回傳 true 的請求
func (d *Deduplicator) Middleware(match func(c *gin.Context) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if match != nil && !match(c) {
			c.Next()
			return
		}

		fingerprint := c.Request.Method + ":" + c.Request.URL.Path + "?" + c.Request.URL.RawQuery

		if !d.allow(fingerprint) {
			common.LogWarn("Duplicate request rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
				zap.Duration("window", d.window),
			)
			common.WriteError(c, common.ErrTooManyRequests, false)
			return
		}

		c.Next()
	}
}

// allow 記錄指紋並回報是否在窗口外
func (d *Deduplicator) allow(fingerprint string) bool {
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if last, ok := d.requests[fingerprint]; ok && now.Sub(last) <= d.window {
		return false
	}
	d.requests[fingerprint] = now
	return true
}

// Cleanup 清除超過 10 倍窗口的指紋
func (d *Deduplicator) Cleanup() int {
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()

	removed := 0
	for k, t := range d.requests {
		if now.Sub(t) > 10*d.window {
			delete(d.requests, k)
			removed++
		}
	}
	return removed
}

// StartCleanup 定期清理，直到 ctx 結束
func (d *Deduplicator) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := d.Cleanup(); n > 0 {
					common.LogDebug("Deduplication cache cleaned", zap.Int("removed", n))
				}
			}
		}
	}()
}
