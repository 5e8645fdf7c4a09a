// Package recommend 依種子查詢推薦相似菜色
package recommend

import (
	"strings"

	"dish-resolver/internal/core/catalog"
	"dish-resolver/internal/core/matcher"
)

const (
	// DefaultTopN 預設推薦數量
	DefaultTopN = 3
	// CandidateLimit 推薦撈取的候選數量（比解析更廣）
	CandidateLimit = 200
	// ScoreThreshold 推薦候選最低分
	ScoreThreshold = 30
)

// Recommendation 推薦項目
type Recommendation struct {
	Name   string `json:"name"`
	Course string `json:"course,omitempty"`
}

// Recommender 推薦器，無狀態，可併發使用
type Recommender struct {
	matcher *matcher.Matcher
}

// New 建立推薦器
func New(m *matcher.Matcher) *Recommender {
	return &Recommender{matcher: m}
}

// Recommend 回傳最多 topN 個不重複菜名。
// 種子為空時依目錄順序回傳前幾筆；篩選後不足時從未篩選的候選依分數補滿。
func (r *Recommender) Recommend(seed string, filter catalog.Filter, topN int) []Recommendation {
	if topN <= 0 {
		topN = DefaultTopN
	}
	cat := r.matcher.Catalog()
	picker := newPicker(topN)

	if strings.TrimSpace(seed) == "" {
		for i := 0; i < cat.Len() && !picker.full(); i++ {
			picker.add(cat.At(i))
		}
		return picker.items
	}

	candidates := r.matcher.ScoreCandidates(seed, CandidateLimit, ScoreThreshold)
	for _, c := range candidates {
		if picker.full() {
			break
		}
		if rec := cat.At(c.Index); filter.Matches(rec) {
			picker.add(rec)
		}
	}
	for _, c := range candidates {
		if picker.full() {
			break
		}
		picker.add(cat.At(c.Index))
	}
	return picker.items
}

// Names 取出推薦菜名
func Names(recs []Recommendation) []string {
	names := make([]string, len(recs))
	for i, r := range recs {
		names[i] = r.Name
	}
	return names
}

type picker struct {
	limit int
	seen  map[string]struct{}
	items []Recommendation
}

func newPicker(limit int) *picker {
	return &picker{
		limit: limit,
		seen:  make(map[string]struct{}, limit),
		items: make([]Recommendation, 0, limit),
	}
}

func (p *picker) full() bool {
	return len(p.items) >= p.limit
}

func (p *picker) add(r catalog.Recipe) {
	key := catalog.NameKey(r.Name)
	if _, ok := p.seen[key]; ok {
		return
	}
	p.seen[key] = struct{}{}
	p.items = append(p.items, Recommendation{Name: r.Name, Course: r.Course})
}
