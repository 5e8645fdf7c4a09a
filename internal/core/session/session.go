// Package session 保存每位使用者待續的對話狀態，逾時後視同不存在
package session

import (
	"context"
	"errors"
	"time"

	"dish-resolver/internal/core/catalog"
)

// DefaultTimeout session 無活動逾時
const DefaultTimeout = 180 * time.Second

// ErrNotFound session 不存在或已逾時
var ErrNotFound = errors.New("session not found")

// Clock 時間來源，測試時注入假時鐘
type Clock interface {
	Now() time.Time
}

// ClockFunc 將函式轉為 Clock
type ClockFunc func() time.Time

// Now 實現 Clock 介面
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock 系統時鐘
var SystemClock Clock = ClockFunc(time.Now)

// Session 上一輪提供給使用者的內容
type Session struct {
	LastDish        string    `json:"last_dish"`
	Diet            string    `json:"diet,omitempty"`
	Course          string    `json:"course,omitempty"`
	Options         []string  `json:"options,omitempty"`
	Recommendations []string  `json:"recommendations,omitempty"`
	LastUpdated     time.Time `json:"last_updated"`
}

// Filter 上一輪使用的篩選條件
func (s *Session) Filter() catalog.Filter {
	return catalog.Filter{Diet: s.Diet, Course: s.Course}
}

// Offered 候選清單加推薦清單，依序
func (s *Session) Offered() []string {
	out := make([]string, 0, len(s.Options)+len(s.Recommendations))
	out = append(out, s.Options...)
	return append(out, s.Recommendations...)
}

// Store session 儲存。每次寫入都是整筆取代；同一使用者併發寫入時後寫者勝。
type Store interface {
	// Put 整筆覆寫並以目前時間戳記
	Put(ctx context.Context, userID string, s Session) error
	// Get 取得未逾時的 session；逾時者會被刪除並回傳 ErrNotFound
	Get(ctx context.Context, userID string) (*Session, error)
	// Clear 無條件刪除，不存在時不報錯
	Clear(ctx context.Context, userID string) error
}

// expired now-last 超過 timeout 才算逾時，剛好等於時仍有效
func expired(last, now time.Time, timeout time.Duration) bool {
	return now.Sub(last) > timeout
}

// prepare 複製清單並去除不分大小寫的重複名稱，避免呼叫端之後修改
func prepare(s Session, now time.Time) Session {
	s.Options = dedupe(s.Options)
	s.Recommendations = dedupe(s.Recommendations)
	s.LastUpdated = now
	return s
}

func dedupe(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		key := catalog.NameKey(n)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}

func clone(s Session) *Session {
	c := s
	c.Options = append([]string(nil), s.Options...)
	c.Recommendations = append([]string(nil), s.Recommendations...)
	return &c
}
