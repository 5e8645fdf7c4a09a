package dialogue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dish-resolver/internal/core/catalog"
	"dish-resolver/internal/core/resolver"
	"dish-resolver/internal/core/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type failingExtractor struct{}

func (failingExtractor) Extract(context.Context, string) (Entities, error) {
	return Entities{}, errors.New("model unavailable")
}

type fixture struct {
	engine *Engine
	store  *session.MemoryStore
	clock  *fakeClock
}

func newFixture(opts ...Option) *fixture {
	cat := catalog.New([]catalog.Recipe{
		{Name: "Paneer Tikka", Course: "Snack", Diet: "Vegetarian", Ingredients: "paneer, yogurt"},
		{Name: "Paneer Butter Masala", Course: "Main Course", Diet: "Vegetarian", Ingredients: "paneer, butter, tomato"},
		{Name: "Chicken Biryani", Course: "Main Course", Diet: "Non Vegetarian", Ingredients: "rice, chicken"},
		{Name: "Dal Makhani", Course: "Main Course", Diet: "Vegetarian", Ingredients: "black lentils, butter"},
		{Name: "Aloo Gobi", Course: "Side Dish", Diet: "Vegan", Ingredients: "potato, cauliflower"},
	})
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := session.NewMemoryStore(session.DefaultTimeout, clock)
	return &fixture{
		engine: NewEngine(cat, store, opts...),
		store:  store,
		clock:  clock,
	}
}

func (f *fixture) put(t *testing.T, s session.Session) {
	t.Helper()
	require.NoError(t, f.store.Put(context.Background(), "u1", s))
}

func (f *fixture) session(t *testing.T) *session.Session {
	t.Helper()
	s, err := f.store.Get(context.Background(), "u1")
	if errors.Is(err, session.ErrNotFound) {
		return nil
	}
	require.NoError(t, err)
	return s
}

func requireRecipe(t *testing.T, res *Result, name string) {
	t.Helper()
	require.Nil(t, res.Failure)
	require.NotNil(t, res.Outcome)
	require.Equal(t, resolver.KindRecipe, res.Outcome.Kind)
	assert.Equal(t, name, res.Outcome.Recipe.Name)
}

func TestNumericChoiceResolvesAndClears(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.put(t, session.Session{Options: []string{"Paneer Tikka", "Paneer Butter Masala"}})

	res := f.engine.Handle(ctx, "u1", "1")
	assert.Equal(t, StateNumericChoice, res.State)
	requireRecipe(t, res, "Paneer Tikka")
	assert.Nil(t, f.session(t))

	res = f.engine.Handle(ctx, "u1", "1")
	require.NotNil(t, res.Failure)
	assert.Equal(t, FailureNoList, res.Failure.Code)
}

func TestNumericChoiceOutOfRangeKeepsSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.put(t, session.Session{Options: []string{"Paneer Tikka", "Paneer Butter Masala"}})

	for _, input := range []string{"3", "0", "99999999999999999999999"} {
		res := f.engine.Handle(ctx, "u1", input)
		require.NotNil(t, res.Failure, input)
		assert.Equal(t, FailureOutOfRange, res.Failure.Code)
		assert.Equal(t, 2, res.Failure.Max)
		assert.NotNil(t, f.session(t))
	}

	requireRecipe(t, f.engine.Handle(ctx, "u1", " 2 "), "Paneer Butter Masala")
}

func TestNumericChoiceFallsBackToRecommendations(t *testing.T) {
	f := newFixture()
	f.put(t, session.Session{Recommendations: []string{"Dal Makhani", "Aloo Gobi"}})

	requireRecipe(t, f.engine.Handle(context.Background(), "u1", "2"), "Aloo Gobi")
}

func TestNumericChoiceMissingRecord(t *testing.T) {
	f := newFixture()
	f.put(t, session.Session{Options: []string{"Rogan Josh"}})

	res := f.engine.Handle(context.Background(), "u1", "1")
	require.NotNil(t, res.Failure)
	assert.Equal(t, FailureRecordMissing, res.Failure.Code)
	assert.Equal(t, "Rogan Josh", res.Failure.Name)
	assert.Nil(t, f.session(t))
}

func TestNumericChoiceAfterExpiry(t *testing.T) {
	f := newFixture()
	f.put(t, session.Session{Options: []string{"Paneer Tikka"}})
	f.clock.Advance(181 * time.Second)

	res := f.engine.Handle(context.Background(), "u1", "1")
	require.NotNil(t, res.Failure)
	assert.Equal(t, FailureNoList, res.Failure.Code)
}

func TestShowMoreReturnsAllRecommendations(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.put(t, session.Session{Recommendations: []string{"Dal Makhani", "Aloo Gobi"}})

	res := f.engine.Handle(ctx, "u1", "Show   More")
	assert.Equal(t, StateShowMore, res.State)
	require.Nil(t, res.Failure)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "Dal Makhani", res.Records[0].Name)
	assert.Equal(t, "Aloo Gobi", res.Records[1].Name)
	assert.Nil(t, f.session(t))

	res = f.engine.Handle(ctx, "u1", "1")
	require.NotNil(t, res.Failure)
	assert.Equal(t, FailureNoList, res.Failure.Code)
}

func TestShowMoreWithoutRecommendations(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res := f.engine.Handle(ctx, "u1", "more")
	require.NotNil(t, res.Failure)
	assert.Equal(t, FailureNothingToShow, res.Failure.Code)

	f.put(t, session.Session{Options: []string{"Paneer Tikka"}})
	res = f.engine.Handle(ctx, "u1", "showmore")
	require.NotNil(t, res.Failure)
	assert.Equal(t, FailureNothingToShow, res.Failure.Code)
	assert.NotNil(t, f.session(t))
}

func TestSubstringFollowUp(t *testing.T) {
	f := newFixture()
	f.put(t, session.Session{
		Options:         []string{"Paneer Tikka"},
		Recommendations: []string{"Dal Makhani"},
	})

	res := f.engine.Handle(context.Background(), "u1", "MAKHANI")
	assert.Equal(t, StateSubstring, res.State)
	requireRecipe(t, res, "Dal Makhani")
	assert.Nil(t, f.session(t))
}

func TestSubstringFirstOfferedNameWins(t *testing.T) {
	f := newFixture()
	f.put(t, session.Session{
		Options:         []string{"Paneer Butter Masala"},
		Recommendations: []string{"Paneer Tikka"},
	})

	requireRecipe(t, f.engine.Handle(context.Background(), "u1", "paneer"), "Paneer Butter Masala")
}

func TestFreshQueryGuessThenChoose(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res := f.engine.Handle(ctx, "u1", "biriani")
	assert.Equal(t, StateFreshQuery, res.State)
	assert.Equal(t, "biriani", res.Query)
	require.NotNil(t, res.Outcome)
	require.Equal(t, resolver.KindGuessWithOptions, res.Outcome.Kind)
	assert.Equal(t, "Chicken Biryani", res.Outcome.Guess)

	sess := f.session(t)
	require.NotNil(t, sess)
	assert.Equal(t, "biriani", sess.LastDish)
	assert.Equal(t, res.Outcome.Options, sess.Options)
	assert.Equal(t, len(res.Recommendations), len(sess.Recommendations))

	requireRecipe(t, f.engine.Handle(ctx, "u1", "1"), "Chicken Biryani")
}

func TestFreshQueryReusesPreviousDishAndFilters(t *testing.T) {
	f := newFixture()
	f.put(t, session.Session{LastDish: "paneer", Diet: "vegetarian"})

	res := f.engine.Handle(context.Background(), "u1", "main course")
	assert.Equal(t, StateFreshQuery, res.State)
	assert.Equal(t, "paneer", res.Query)
	assert.Equal(t, catalog.Filter{Diet: "vegetarian", Course: "main course"}, res.Filter)
	requireRecipe(t, res, "Paneer Butter Masala")

	sess := f.session(t)
	require.NotNil(t, sess)
	assert.Equal(t, "main course", sess.Course)
}

func TestFreshQueryWithoutExtractorUsesRawText(t *testing.T) {
	for name, opt := range map[string]Option{
		"nil extractor":     WithExtractor(nil),
		"failing extractor": WithExtractor(failingExtractor{}),
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(opt)
			res := f.engine.Handle(context.Background(), "u1", "Aloo Gobi")
			assert.Equal(t, "aloo gobi", res.Query)
			requireRecipe(t, res, "Aloo Gobi")
		})
	}
}

func TestFreshQueryRecommendationsAreIndependent(t *testing.T) {
	f := newFixture(WithRecommendations(2))
	res := f.engine.Handle(context.Background(), "u1", "paneer")
	requireRecipe(t, res, "Paneer Tikka")
	require.Len(t, res.Recommendations, 2)
	assert.Equal(t, "Paneer Tikka", res.Recommendations[0].Name)
	assert.Equal(t, "Paneer Butter Masala", res.Recommendations[1].Name)
}

func TestFreshQueryNoMatchStillWritesSession(t *testing.T) {
	f := newFixture()
	res := f.engine.Handle(context.Background(), "u1", "xyzzy")
	require.NotNil(t, res.Outcome)
	assert.Equal(t, resolver.KindNone, res.Outcome.Kind)
	assert.Equal(t, "none", res.Label())

	sess := f.session(t)
	require.NotNil(t, sess)
	assert.Equal(t, "xyzzy", sess.LastDish)
	assert.Empty(t, sess.Options)
}

func TestEmptyQueryLeavesSessionAlone(t *testing.T) {
	f := newFixture()
	f.put(t, session.Session{Options: []string{"Paneer Tikka"}})

	res := f.engine.Handle(context.Background(), "u1", "   ")
	require.NotNil(t, res.Outcome)
	assert.Equal(t, resolver.KindNone, res.Outcome.Kind)

	sess := f.session(t)
	require.NotNil(t, sess)
	assert.Equal(t, []string{"Paneer Tikka"}, sess.Options)
}

func TestUsersAreIsolated(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.put(t, session.Session{Options: []string{"Paneer Tikka"}})

	res := f.engine.Handle(ctx, "u2", "1")
	require.NotNil(t, res.Failure)
	assert.Equal(t, FailureNoList, res.Failure.Code)
	assert.NotNil(t, f.session(t))
}

func TestEngineRecommendAndCatalog(t *testing.T) {
	f := newFixture()
	assert.Equal(t, 5, f.engine.Catalog().Len())
	recs := f.engine.Recommend("", catalog.Filter{}, 2)
	require.Len(t, recs, 2)
	assert.Equal(t, "Paneer Tikka", recs[0].Name)
}

func TestIsSelection(t *testing.T) {
	for _, in := range []string{"1", " 12 ", "show more", "Show  More", "MORE", "showmore"} {
		assert.True(t, IsSelection(in), in)
	}
	for _, in := range []string{"", "aloo gobi", "1a", "more dal", "-1"} {
		assert.False(t, IsSelection(in), in)
	}
}
