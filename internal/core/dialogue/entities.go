package dialogue

import (
	"context"
	"regexp"
	"strings"
	"unicode"
)

// Entities 從查詢中拆出的菜名片語與篩選條件；取不到的欄位為空字串
type Entities struct {
	Dish   string `json:"dish,omitempty"`
	Diet   string `json:"diet,omitempty"`
	Course string `json:"course,omitempty"`
}

// EntityExtractor 實體擷取能力；失敗或沒有結果時呼叫端改用原始查詢
type EntityExtractor interface {
	Extract(ctx context.Context, text string) (Entities, error)
}

// Compile-time interface check.
var _ EntityExtractor = (*KeywordExtractor)(nil)

// DietKeywords 可辨識的飲食關鍵字
var DietKeywords = []string{
	"vegetarian", "vegan", "gluten-free", "gluten free", "non-veg", "non veg", "non vegetarian",
	"eggetarian", "high protein vegetarian", "diabetic friendly",
}

// CourseKeywords 可辨識的菜色關鍵字
var CourseKeywords = []string{
	"breakfast", "lunch", "dinner", "snack", "dessert", "main course", "side dish",
	"appetizer", "starter",
}

// synonyms 英文食材名稱改寫為目錄使用的印度名稱
var synonyms = map[string]string{
	"eggplant":       "brinjal",
	"aubergine":      "brinjal",
	"cottage cheese": "paneer",
	"chickpeas":      "chole",
	"chickpea":       "chole",
	"kidney beans":   "rajma",
	"okra":           "bhindi",
	"lady finger":    "bhindi",
	"cauliflower":    "gobi",
	"spinach":        "palak",
}

// fillers 不屬於菜名片語的常見詞
var fillers = toSet(
	"i", "im", "i'm", "me", "my", "we", "you", "a", "an", "the", "some", "any", "please", "pls",
	"want", "wanna", "need", "like", "would", "could", "can", "should", "let", "lets", "let's",
	"show", "give", "get", "find", "tell", "search", "suggest", "recommend", "looking",
	"how", "what", "which", "to", "make", "cook", "prepare", "recipe", "recipes",
	"for", "of", "with", "and", "or", "in", "on", "at", "about", "is", "are", "something",
	"dish", "dishes", "food", "meal", "today", "tonight", "now",
)

type keywordPhrase struct {
	words []string
	value string
	diet  bool
}

type synonymRule struct {
	re   *regexp.Regexp
	repl string
}

// KeywordExtractor 以關鍵字集合與「第一段名詞片語」啟發式擷取實體
type KeywordExtractor struct {
	synonyms []synonymRule
	phrases  []keywordPhrase
}

// NewKeywordExtractor 建立關鍵字擷取器
func NewKeywordExtractor() *KeywordExtractor {
	x := &KeywordExtractor{}
	for word, repl := range synonyms {
		x.synonyms = append(x.synonyms, synonymRule{
			re:   regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`),
			repl: repl,
		})
	}
	for _, kw := range DietKeywords {
		x.phrases = append(x.phrases, keywordPhrase{words: splitWords(kw), value: kw, diet: true})
	}
	for _, kw := range CourseKeywords {
		x.phrases = append(x.phrases, keywordPhrase{words: splitWords(kw), value: kw})
	}
	return x
}

// Extract 擷取菜名、飲食與菜色；同類關鍵字出現多次時以最後一個為準
func (x *KeywordExtractor) Extract(_ context.Context, text string) (Entities, error) {
	text = strings.ToLower(text)
	for _, s := range x.synonyms {
		text = s.re.ReplaceAllString(text, s.repl)
	}

	words := splitWords(text)
	keyword := make([]bool, len(words))
	var ent Entities

	for i := 0; i < len(words); {
		p, ok := x.longestPhrase(words[i:])
		if !ok {
			i++
			continue
		}
		if p.diet {
			ent.Diet = p.value
		} else {
			ent.Course = p.value
		}
		for j := i; j < i+len(p.words); j++ {
			keyword[j] = true
		}
		i += len(p.words)
	}

	var dish []string
	for i, w := range words {
		skip := keyword[i]
		if !skip {
			_, skip = fillers[w]
		}
		if skip {
			if len(dish) > 0 {
				break
			}
			continue
		}
		dish = append(dish, w)
	}
	ent.Dish = strings.Join(dish, " ")
	return ent, nil
}

func (x *KeywordExtractor) longestPhrase(words []string) (keywordPhrase, bool) {
	var (
		best  keywordPhrase
		found bool
	)
	for _, p := range x.phrases {
		if len(p.words) > len(words) || (found && len(p.words) <= len(best.words)) {
			continue
		}
		match := true
		for k, w := range p.words {
			if words[k] != w {
				match = false
				break
			}
		}
		if match {
			best, found = p, true
		}
	}
	return best, found
}

// splitWords 以空白與標點切詞，保留詞內的連字號與撇號
func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '\'')
	})
}

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
