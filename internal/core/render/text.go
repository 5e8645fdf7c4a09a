// Package render 把結構化結果轉成聊天訊息文字
package render

import (
	"fmt"
	"strings"

	"dish-resolver/internal/core/catalog"
	"dish-resolver/internal/core/dialogue"
	"dish-resolver/internal/core/places"
	"dish-resolver/internal/core/recommend"
	"dish-resolver/internal/core/resolver"
)

// Recipe 食譜卡片
func Recipe(r catalog.Recipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🍽 Dish: %s\n", orDefault(r.Name, "N/A"))
	fmt.Fprintf(&b, "📖 Description: %s\n", orDefault(r.Description, "No description"))
	fmt.Fprintf(&b, "🍲 Cuisine: %s\n", orDefault(r.Cuisine, "Unknown"))
	fmt.Fprintf(&b, "📚 Course: %s\n", orDefault(r.Course, "Unknown"))
	fmt.Fprintf(&b, "🥗 Diet: %s\n", orDefault(r.Diet, "Unknown"))
	fmt.Fprintf(&b, "⏱ Prep Time: %s\n", orDefault(r.PrepTime, "Unknown"))
	fmt.Fprintf(&b, "🛒 Ingredients: %s\n", orDefault(r.Ingredients, "Not listed"))
	fmt.Fprintf(&b, "📝 Instructions: %s", orDefault(r.Instructions, "Not provided"))
	return b.String()
}

// Records 多張食譜卡片
func Records(records []catalog.Recipe) string {
	cards := make([]string, len(records))
	for i, r := range records {
		cards[i] = Recipe(r)
	}
	return strings.Join(cards, "\n\n")
}

// Options 低信心候選清單
func Options(names []string) string {
	return "I found several matching dishes:\n" + numbered(names) +
		"\n\nPlease reply with the exact name or number."
}

// Guess 中信心猜測加候選清單
func Guess(guess string, options []string) string {
	return fmt.Sprintf("🤔 Did you mean '%s'?\nHere are similar dishes:\n", guess) + numbered(options) +
		"\n\nPlease reply with the name or number."
}

// Outcome 解析結果；NoneOutcome 會帶出搜尋的菜名
func Outcome(out resolver.Outcome, query string) string {
	switch out.Kind {
	case resolver.KindRecipe:
		return Recipe(*out.Recipe)
	case resolver.KindGuessWithOptions:
		return Guess(out.Guess, out.Options)
	case resolver.KindOptions:
		return Options(out.Options)
	}
	return fmt.Sprintf("❌ Sorry, I couldn't find anything for '%s'.", query)
}

// Suggestions 附在回覆後的推薦預覽
func Suggestions(recs []recommend.Recommendation) string {
	if len(recs) == 0 {
		return ""
	}
	lines := make([]string, len(recs))
	for i, r := range recs {
		if r.Course != "" {
			lines[i] = fmt.Sprintf("%d. %s (%s)", i+1, r.Name, r.Course)
		} else {
			lines[i] = fmt.Sprintf("%d. %s", i+1, r.Name)
		}
	}
	return "💡 You might also like:\n" + strings.Join(lines, "\n") +
		"\n(Reply with the name or number to see details!)"
}

// Failure 有界錯誤訊息
func Failure(state dialogue.State, f *dialogue.Failure) string {
	switch f.Code {
	case dialogue.FailureNoList:
		return "⚠ No list to choose from right now. Try searching again."
	case dialogue.FailureOutOfRange:
		return fmt.Sprintf("⚠ Invalid choice. Please reply with a number between 1 and %d.", f.Max)
	case dialogue.FailureNothingToShow:
		return "⚠ No saved recommendations. Please search for a dish first."
	case dialogue.FailureRecordMissing:
		if state == dialogue.StateShowMore {
			return "❌ Sorry, no recipes found for those recommendations."
		}
		return fmt.Sprintf("❌ Sorry, I couldn't fetch details for '%s'.", f.Name)
	}
	return "⚠ Unexpected error occurred while fetching the recipe."
}

// Turn 一輪對話的完整回覆
func Turn(res *dialogue.Result) string {
	if res.Failure != nil {
		return Failure(res.State, res.Failure)
	}
	if len(res.Records) > 0 {
		return Records(res.Records)
	}

	var base string
	if res.Outcome != nil {
		base = Outcome(*res.Outcome, res.Query)
	} else {
		base = Outcome(resolver.NoneOutcome(), res.Query)
	}
	if s := Suggestions(res.Recommendations); s != "" {
		base += "\n\n" + s
	}
	return base
}

// RecommendationList 推薦查詢的回覆
func RecommendationList(dish string, recs []recommend.Recommendation) string {
	var b strings.Builder
	if dish != "" {
		fmt.Fprintf(&b, "🍽 If you like *%s*, you might also enjoy:", dish)
	} else {
		b.WriteString("🍽 You might enjoy:")
	}
	for _, r := range recs {
		if r.Course != "" {
			fmt.Fprintf(&b, "\n- %s (%s)", r.Name, r.Course)
		} else {
			fmt.Fprintf(&b, "\n- %s", r.Name)
		}
	}
	return b.String()
}

// Locality 附近餐廳清單
func Locality(dish, city string, list []places.Place) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📍 Where to find *%s* in %s:\n", dish, city)
	for _, p := range list {
		fmt.Fprintf(&b, "🍴 %s (⭐ %s)\n", p.Name, p.Rating)
		fmt.Fprintf(&b, "📍 %s\n", p.Address)
		fmt.Fprintf(&b, "🔗 [View on Maps](%s)\n\n", p.MapsURL)
	}
	return strings.TrimSpace(b.String())
}

func numbered(names []string) string {
	lines := make([]string, len(names))
	for i, n := range names {
		lines[i] = fmt.Sprintf("%d. %s", i+1, n)
	}
	return strings.Join(lines, "\n")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
