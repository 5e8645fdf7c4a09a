package recommend

import (
	"strings"
	"testing"

	"dish-resolver/internal/core/catalog"
	"dish-resolver/internal/core/matcher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecommender() *Recommender {
	return New(matcher.New(catalog.New([]catalog.Recipe{
		{Name: "Paneer Tikka", Course: "Snack", Diet: "Vegetarian", Ingredients: "paneer, yogurt"},
		{Name: "Paneer Butter Masala", Course: "Main Course", Diet: "Vegetarian", Ingredients: "paneer, butter"},
		{Name: "paneer tikka", Course: "Snack", Diet: "Vegetarian", Ingredients: "paneer, capsicum"},
		{Name: "Dal Makhani", Course: "Main Course", Diet: "Vegetarian", Ingredients: "black lentils, butter"},
		{Name: "Aloo Gobi", Course: "Side Dish", Diet: "Vegan", Ingredients: "potato, cauliflower"},
	})))
}

func assertDistinct(t *testing.T, recs []Recommendation) {
	t.Helper()
	seen := map[string]bool{}
	for _, r := range recs {
		key := strings.ToLower(r.Name)
		assert.False(t, seen[key], "duplicate %q", r.Name)
		seen[key] = true
	}
}

func TestRecommendEmptySeedUsesStorageOrder(t *testing.T) {
	got := newRecommender().Recommend("", catalog.Filter{}, 0)
	assert.Equal(t, []Recommendation{
		{Name: "Paneer Tikka", Course: "Snack"},
		{Name: "Paneer Butter Masala", Course: "Main Course"},
		{Name: "Dal Makhani", Course: "Main Course"},
	}, got)
}

func TestRecommendFilterThenRefill(t *testing.T) {
	got := newRecommender().Recommend("paneer", catalog.Filter{Course: "main"}, 3)
	require.GreaterOrEqual(t, len(got), 2)
	assert.LessOrEqual(t, len(got), 3)
	assert.Equal(t, "Paneer Butter Masala", got[0].Name)
	assert.Equal(t, "Paneer Tikka", got[1].Name)
	assertDistinct(t, got)
}

func TestRecommendDeduplicatesNames(t *testing.T) {
	got := newRecommender().Recommend("paneer tikka", catalog.Filter{}, 5)
	require.NotEmpty(t, got)
	assert.Equal(t, "Paneer Tikka", got[0].Name)
	assertDistinct(t, got)
}

func TestRecommendNoCandidates(t *testing.T) {
	assert.Empty(t, newRecommender().Recommend("xyzzy", catalog.Filter{}, 3))
	assert.Empty(t, New(matcher.New(catalog.Empty())).Recommend("", catalog.Filter{}, 3))
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"Dal Makhani", "Aloo Gobi"}, Names([]Recommendation{
		{Name: "Dal Makhani"}, {Name: "Aloo Gobi", Course: "Side Dish"},
	}))
}
