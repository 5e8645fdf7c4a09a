package render

import (
	"strings"
	"testing"

	"dish-resolver/internal/core/catalog"
	"dish-resolver/internal/core/dialogue"
	"dish-resolver/internal/core/places"
	"dish-resolver/internal/core/recommend"
	"dish-resolver/internal/core/resolver"

	"github.com/stretchr/testify/assert"
)

func TestRecipeFillsDefaults(t *testing.T) {
	got := Recipe(catalog.Recipe{Name: "Kheer", Course: "Dessert"})
	assert.True(t, strings.HasPrefix(got, "🍽 Dish: Kheer\n"))
	assert.Contains(t, got, "📚 Course: Dessert\n")
	assert.Contains(t, got, "📖 Description: No description\n")
	assert.Contains(t, got, "🛒 Ingredients: Not listed\n")
	assert.True(t, strings.HasSuffix(got, "📝 Instructions: Not provided"))
}

func TestOptionsAndGuess(t *testing.T) {
	assert.Equal(t,
		"I found several matching dishes:\n1. Kheer\n2. Kulfi\n\nPlease reply with the exact name or number.",
		Options([]string{"Kheer", "Kulfi"}),
	)
	assert.Equal(t,
		"🤔 Did you mean 'Chicken Biryani'?\nHere are similar dishes:\n1. Chicken Biryani\n2. Veg Biryani\n\nPlease reply with the name or number.",
		Guess("Chicken Biryani", []string{"Chicken Biryani", "Veg Biryani"}),
	)
}

func TestTurnAppendsSuggestions(t *testing.T) {
	none := resolver.NoneOutcome()
	got := Turn(&dialogue.Result{
		State:   dialogue.StateFreshQuery,
		Query:   "xyz",
		Outcome: &none,
		Recommendations: []recommend.Recommendation{
			{Name: "Dal Makhani", Course: "Main Course"},
			{Name: "Aloo Gobi"},
		},
	})
	assert.Equal(t,
		"❌ Sorry, I couldn't find anything for 'xyz'.\n\n"+
			"💡 You might also like:\n1. Dal Makhani (Main Course)\n2. Aloo Gobi\n"+
			"(Reply with the name or number to see details!)",
		got,
	)
}

func TestTurnRecordsAndFailures(t *testing.T) {
	records := Turn(&dialogue.Result{
		State:   dialogue.StateShowMore,
		Records: []catalog.Recipe{{Name: "Dal Makhani"}, {Name: "Aloo Gobi"}},
	})
	assert.Equal(t, 2, strings.Count(records, "🍽 Dish:"))
	assert.Contains(t, records, "\n\n🍽 Dish: Aloo Gobi")

	tests := []struct {
		state   dialogue.State
		failure dialogue.Failure
		want    string
	}{
		{dialogue.StateNumericChoice, dialogue.Failure{Code: dialogue.FailureNoList}, "⚠ No list to choose from right now. Try searching again."},
		{dialogue.StateNumericChoice, dialogue.Failure{Code: dialogue.FailureOutOfRange, Max: 4}, "⚠ Invalid choice. Please reply with a number between 1 and 4."},
		{dialogue.StateShowMore, dialogue.Failure{Code: dialogue.FailureNothingToShow}, "⚠ No saved recommendations. Please search for a dish first."},
		{dialogue.StateNumericChoice, dialogue.Failure{Code: dialogue.FailureRecordMissing, Name: "Rogan Josh"}, "❌ Sorry, I couldn't fetch details for 'Rogan Josh'."},
		{dialogue.StateShowMore, dialogue.Failure{Code: dialogue.FailureRecordMissing}, "❌ Sorry, no recipes found for those recommendations."},
	}
	for _, tt := range tests {
		f := tt.failure
		assert.Equal(t, tt.want, Turn(&dialogue.Result{State: tt.state, Failure: &f}))
	}
}

func TestRecommendationList(t *testing.T) {
	assert.Equal(t,
		"🍽 If you like *Paneer*, you might also enjoy:\n- Paneer Tikka (Snack)\n- Kheer",
		RecommendationList("Paneer", []recommend.Recommendation{{Name: "Paneer Tikka", Course: "Snack"}, {Name: "Kheer"}}),
	)
}

func TestLocality(t *testing.T) {
	got := Locality("biryani", "Hyderabad", []places.Place{
		{Name: "Paradise", Address: "Secunderabad", Rating: "4.3", MapsURL: "https://maps/abc"},
	})
	assert.Equal(t,
		"📍 Where to find *biryani* in Hyderabad:\n🍴 Paradise (⭐ 4.3)\n📍 Secunderabad\n🔗 [View on Maps](https://maps/abc)",
		got,
	)
}
