package catalog

import "strings"

// Filter 飲食與菜色篩選條件；空字串表示不限制。
// 以不分大小寫的子字串比對，例如 "non-veg" 可比對 "Non-Veg Main"。
type Filter struct {
	Diet   string `json:"diet,omitempty"`
	Course string `json:"course,omitempty"`
}

// IsZero 是否沒有任何條件
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Diet) == "" && strings.TrimSpace(f.Course) == ""
}

// Matches 判斷食譜是否通過篩選
func (f Filter) Matches(r Recipe) bool {
	return containsFold(r.Diet, f.Diet) && containsFold(r.Course, f.Course)
}

func containsFold(field, term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(field), strings.ToLower(term))
}
