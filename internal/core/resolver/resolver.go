// Package resolver 依信心分級把查詢解析為食譜、猜測、候選清單或無結果
package resolver

import (
	"strings"

	"dish-resolver/internal/core/catalog"
	"dish-resolver/internal/core/matcher"
)

const (
	// HighConfidence 以上直接回傳食譜
	HighConfidence = 80
	// MediumConfidence 以上回傳猜測加候選
	MediumConfidence = 60
	// ResolveCandidateLimit 篩選前先撈的候選數量
	ResolveCandidateLimit = 40
	// ResolveScoreThreshold 候選最低分
	ResolveScoreThreshold = 40
	// DefaultOptionLimit 候選清單預設長度
	DefaultOptionLimit = 5
)

// Resolver 查詢解析器，無狀態，可併發使用
type Resolver struct {
	matcher *matcher.Matcher
}

// New 建立解析器
func New(m *matcher.Matcher) *Resolver {
	return &Resolver{matcher: m}
}

// Resolve 解析查詢；篩選把候選全部排除時改用未篩選的候選（條件僅供參考）
func (r *Resolver) Resolve(query string, filter catalog.Filter, limit int) Outcome {
	if strings.TrimSpace(query) == "" {
		return NoneOutcome()
	}
	if limit <= 0 {
		limit = DefaultOptionLimit
	}

	all := r.matcher.ScoreCandidates(query, ResolveCandidateLimit, ResolveScoreThreshold)
	if len(all) == 0 {
		return NoneOutcome()
	}
	cat := r.matcher.Catalog()

	candidates := make([]matcher.Candidate, 0, len(all))
	for _, c := range all {
		if filter.Matches(cat.At(c.Index)) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		candidates = all
	}

	// 候選已依分數遞減、索引遞增排序，篩選不改變相對順序
	top := candidates[0]
	switch {
	case top.Score >= HighConfidence:
		return RecipeOutcome(cat.At(top.Index))
	case top.Score >= MediumConfidence:
		return GuessOutcome(cat.At(top.Index).Name, DistinctNames(cat, candidates, limit))
	default:
		return OptionsOutcome(DistinctNames(cat, candidates, limit))
	}
}

// DistinctNames 依候選順序取出不重複（不分大小寫）的菜名，最多 limit 個
func DistinctNames(cat *catalog.Catalog, candidates []matcher.Candidate, limit int) []string {
	seen := make(map[string]struct{}, limit)
	names := make([]string, 0, limit)
	for _, c := range candidates {
		if len(names) >= limit {
			break
		}
		name := cat.At(c.Index).Name
		key := catalog.NameKey(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}
	return names
}
