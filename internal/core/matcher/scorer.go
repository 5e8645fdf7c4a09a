package matcher

import (
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// 所有評分函式的輸入都應先經過 catalog.Fold 正規化，輸出為 0..100 的整數

// Ratio 以 Levenshtein 距離換算的整體相似度
func Ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	la, lb := len([]rune(a)), len([]rune(b))
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	dist := levenshtein.ComputeDistance(a, b)
	return round(100 * (1 - float64(dist)/float64(maxLen)))
}

// PartialRatio 短字串與長字串中等長子字串的最佳相似度
func PartialRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == len(longer) {
		return Ratio(a, b)
	}

	s := string(shorter)
	best := 0
	for start := 0; start+len(shorter) <= len(longer); start++ {
		score := Ratio(s, string(longer[start:start+len(shorter)]))
		if score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

// TokenSortRatio 詞序無關的相似度
func TokenSortRatio(a, b string) int {
	return Ratio(sortedTokens(a), sortedTokens(b))
}

// TokenSetRatio 以共同詞集合比較，查詢詞全部出現在目標中時為 100
func TokenSetRatio(a, b string) int {
	return tokenSetWith(tokenSet(a), tokenSet(b), Ratio)
}

func partialTokenSortRatio(a, b string) int {
	return PartialRatio(sortedTokens(a), sortedTokens(b))
}

func partialTokenSetRatio(a, b string) int {
	return tokenSetWith(tokenSet(a), tokenSet(b), PartialRatio)
}

// WRatio 綜合評分：依長度比例決定是否採用部分比對，並對詞序類分數打折
func WRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	const unbaseScale = 0.95

	base := float64(Ratio(a, b))
	la, lb := float64(len([]rune(a))), float64(len([]rune(b)))
	lenRatio := math.Max(la, lb) / math.Min(la, lb)

	if lenRatio < 1.5 {
		tsor := float64(TokenSortRatio(a, b)) * unbaseScale
		tset := float64(TokenSetRatio(a, b)) * unbaseScale
		return round(math.Max(base, math.Max(tsor, tset)))
	}

	partialScale := 0.9
	if lenRatio > 8 {
		partialScale = 0.6
	}
	partial := float64(PartialRatio(a, b)) * partialScale
	ptsor := float64(partialTokenSortRatio(a, b)) * unbaseScale * partialScale
	ptset := float64(partialTokenSetRatio(a, b)) * unbaseScale * partialScale
	return round(math.Max(base, math.Max(partial, math.Max(ptsor, ptset))))
}

// tokens 已排序且去重的詞
type tokens []string

func tokenSet(s string) tokens {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	sort.Strings(fields)
	out := fields[:1]
	for _, f := range fields[1:] {
		if f != out[len(out)-1] {
			out = append(out, f)
		}
	}
	return out
}

func sortedTokens(s string) string {
	fields := strings.Fields(s)
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

// tokenSetWith 交集 + 各自差集組合後，取三組比較的最高分
func tokenSetWith(a, b tokens, score func(string, string) int) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var sect, diffA, diffB []string
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			sect = append(sect, a[i])
			i++
			j++
		case a[i] < b[j]:
			diffA = append(diffA, a[i])
			i++
		default:
			diffB = append(diffB, b[j])
			j++
		}
	}
	diffA = append(diffA, a[i:]...)
	diffB = append(diffB, b[j:]...)

	sectStr := strings.Join(sect, " ")
	combinedA := strings.TrimSpace(sectStr + " " + strings.Join(diffA, " "))
	combinedB := strings.TrimSpace(sectStr + " " + strings.Join(diffB, " "))

	best := score(combinedA, combinedB)
	if sectStr != "" {
		if s := score(sectStr, combinedA); s > best {
			best = s
		}
		if s := score(sectStr, combinedB); s > best {
			best = s
		}
	}
	return best
}

func round(f float64) int {
	return int(math.Round(f))
}
