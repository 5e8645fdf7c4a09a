// Package matcher 對目錄做雙軸模糊比對：完整描述文字與菜名
package matcher

import (
	"sort"

	"dish-resolver/internal/core/catalog"
)

// Candidate 目錄資料列與其相似度分數
type Candidate struct {
	Score int `json:"score"`
	Index int `json:"index"`
}

// Matcher 綁定一份目錄快照的比對器，建立後唯讀，可併發使用
type Matcher struct {
	catalog    *catalog.Catalog
	textTokens []tokens
}

// New 建立比對器並預先切好每列搜尋文字的詞集合
func New(c *catalog.Catalog) *Matcher {
	m := &Matcher{
		catalog:    c,
		textTokens: make([]tokens, c.Len()),
	}
	for i := 0; i < c.Len(); i++ {
		m.textTokens[i] = tokenSet(c.SearchText(i))
	}
	return m
}

// Catalog 回傳比對器使用的目錄
func (m *Matcher) Catalog() *catalog.Catalog {
	return m.catalog
}

// ScoreCandidates 回傳分數由高到低的候選列表；同分時依目錄順序。
// limit <= 0 表示不截斷。
func (m *Matcher) ScoreCandidates(query string, limit, threshold int) []Candidate {
	q := catalog.Fold(query)
	if q == "" || m.catalog.Len() == 0 {
		return nil
	}
	qTokens := tokenSet(q)

	n := m.catalog.Len()
	byText := make([]Candidate, n)
	byName := make([]Candidate, n)
	for i := 0; i < n; i++ {
		byText[i] = Candidate{Score: tokenSetWith(qTokens, m.textTokens[i], Ratio), Index: i}
		byName[i] = Candidate{Score: WRatio(q, m.catalog.FoldedName(i)), Index: i}
	}

	// 兩軸各自排名截斷後再合併，取每列最高分
	best := make(map[int]int, 2*limitOr(limit, n))
	for _, axis := range [][]Candidate{top(byText, limit), top(byName, limit)} {
		for _, c := range axis {
			if s, ok := best[c.Index]; !ok || c.Score > s {
				best[c.Index] = c.Score
			}
		}
	}

	merged := make([]Candidate, 0, len(best))
	for idx, score := range best {
		if score < threshold {
			continue
		}
		merged = append(merged, Candidate{Score: score, Index: idx})
	}
	sortCandidates(merged)
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

func top(cands []Candidate, limit int) []Candidate {
	sortCandidates(cands)
	if limit > 0 && len(cands) > limit {
		return cands[:limit]
	}
	return cands
}

// sortCandidates 分數遞減、索引遞增，結果與輸入順序無關
func sortCandidates(cands []Candidate) {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].Score != cands[j].Score {
			return cands[i].Score > cands[j].Score
		}
		return cands[i].Index < cands[j].Index
	})
}

func limitOr(limit, n int) int {
	if limit > 0 && limit < n {
		return limit
	}
	return n
}
