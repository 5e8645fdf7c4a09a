package resolver

import "dish-resolver/internal/core/catalog"

// Kind 解析結果種類
type Kind string

const (
	KindRecipe           Kind = "recipe"
	KindGuessWithOptions Kind = "guess_with_options"
	KindOptions          Kind = "options"
	KindNone             Kind = "none"
)

// Outcome 解析結果；只能透過下方建構函式產生，欄位依 Kind 決定是否有值
type Outcome struct {
	Kind    Kind            `json:"type"`
	Recipe  *catalog.Recipe `json:"data,omitempty"`
	Guess   string          `json:"guess,omitempty"`
	Options []string        `json:"options,omitempty"`
}

// RecipeOutcome 高信心：單一食譜
func RecipeOutcome(r catalog.Recipe) Outcome {
	return Outcome{Kind: KindRecipe, Recipe: &r}
}

// GuessOutcome 中信心：猜測的菜名與候選清單
func GuessOutcome(guess string, options []string) Outcome {
	return Outcome{Kind: KindGuessWithOptions, Guess: guess, Options: options}
}

// OptionsOutcome 低信心：只有候選清單；清單為空時等同 NoneOutcome
func OptionsOutcome(names []string) Outcome {
	if len(names) == 0 {
		return NoneOutcome()
	}
	return Outcome{Kind: KindOptions, Options: names}
}

// NoneOutcome 沒有相關結果
func NoneOutcome() Outcome {
	return Outcome{Kind: KindNone}
}
