package catalog

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecipes() []Recipe {
	return []Recipe{
		{Name: "Paneer Tikka", Cuisine: "North Indian", Course: "Snack", Diet: "Vegetarian", Ingredients: "paneer, yogurt, spices"},
		{Name: "Dal Makhani", Cuisine: "Punjabi", Course: "Main Course", Diet: "Vegetarian", Ingredients: "black lentils, butter, cream"},
		{Name: "Aloo Gobi", Cuisine: "North Indian", Course: "Side Dish", Diet: "Vegan", Ingredients: "potato, cauliflower"},
		{Name: "  ", Description: "row without a name"},
	}
}

func TestNewSkipsRowsWithoutName(t *testing.T) {
	c := New(sampleRecipes())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, "Paneer Tikka", c.At(0).Name)
	assert.Equal(t, "paneer tikka", c.FoldedName(0))
	assert.Contains(t, c.SearchText(1), "black lentils")
	assert.Contains(t, c.SearchText(1), "main course")
}

func TestFindByNamesKeepsRequestOrder(t *testing.T) {
	c := New(sampleRecipes())

	got := c.FindByNames([]string{"aloo gobi", "Unknown Dish", "PANEER TIKKA"})
	require.Len(t, got, 2)
	assert.Equal(t, "Aloo Gobi", got[0].Name)
	assert.Equal(t, "Paneer Tikka", got[1].Name)

	assert.Empty(t, c.FindByNames(nil))
}

func TestFindByNameFirstMatchWins(t *testing.T) {
	c := New([]Recipe{
		{Name: "Kheer", Description: "first"},
		{Name: "kheer", Description: "second"},
	})
	r, ok := c.FindByName("KHEER")
	require.True(t, ok)
	assert.Equal(t, "first", r.Description)

	_, ok = c.FindByName("  ")
	assert.False(t, ok)
}

func TestHead(t *testing.T) {
	c := New(sampleRecipes())
	assert.Len(t, c.Head(2), 2)
	assert.Len(t, c.Head(10), 3)
	assert.Nil(t, c.Head(0))
	assert.Nil(t, Empty().Head(3))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "chole bhature", Fold("  Chole-Bhature!! "))
	assert.Equal(t, "gluten free", Fold("Gluten_Free"))
	assert.Equal(t, "", Fold("?!"))
}

func TestReadCSVByHeaderName(t *testing.T) {
	data := "description,name,course,extra\n" +
		"\"Creamy, rich\",Dal Makhani,Main Course,x\n" +
		"short row,Kheer\n"
	recipes, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Dal Makhani", recipes[0].Name)
	assert.Equal(t, "Creamy, rich", recipes[0].Description)
	assert.Equal(t, "Main Course", recipes[0].Course)
	assert.Equal(t, "Kheer", recipes[1].Name)
	assert.Equal(t, "", recipes[1].Course)
}

func TestReadCSVStripsByteOrderMark(t *testing.T) {
	data := "\uFEFFname,course\nKheer,Dessert\n"
	recipes, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Kheer", recipes[0].Name)
	assert.Equal(t, "Dessert", recipes[0].Course)
}

func TestReadCSVRequiresNameColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("title,course\nx,y\n"))
	assert.Error(t, err)
}

func TestReadJSONAcceptsIngredientList(t *testing.T) {
	data := `[
		{"name": "Aloo Gobi", "ingredients": ["potato", "cauliflower"], "prep_time": "30 min"},
		{"name": "Kheer", "ingredients": "rice, milk, sugar", "prep_time": 45}
	]`
	recipes, err := ReadJSON(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "potato, cauliflower", recipes[0].Ingredients)
	assert.Equal(t, "30 min", recipes[0].PrepTime)
	assert.Equal(t, "rice, milk, sugar", recipes[1].Ingredients)
	assert.Equal(t, "45", recipes[1].PrepTime)
}

func TestLoadDispatchesByExtension(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "recipes.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("name,diet\nPaneer Tikka,Vegetarian\n"), 0o644))
	c, err := Load(csvPath)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	jsonPath := filepath.Join(dir, "recipes.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"name":"Kheer"},{"name":"Aloo Gobi"}]`), 0o644))
	c, err = Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	_, err = Load(filepath.Join(dir, "recipes.xml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.db")
	require.NoError(t, WriteSQLite(context.Background(), path, sampleRecipes()))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())
	assert.Equal(t, "Paneer Tikka", c.At(0).Name)
	assert.Equal(t, "Aloo Gobi", c.At(2).Name)
	assert.Equal(t, "potato, cauliflower", c.At(2).Ingredients)

	// 重新匯入會覆寫內容
	require.NoError(t, WriteSQLite(context.Background(), path, []Recipe{{Name: "Kheer"}}))
	c, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestReadSQLiteToleratesNullColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "external.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE recipes (
		name TEXT, image_url TEXT, description TEXT, cuisine TEXT, course TEXT,
		diet TEXT, prep_time TEXT, ingredients TEXT, instructions TEXT
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO recipes (name, course) VALUES ('Kheer', 'Dessert'), (NULL, 'Snack'), ('Aloo Gobi', NULL)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	recipes, err := ReadSQLite(path)
	require.NoError(t, err)
	require.Len(t, recipes, 3)
	assert.Equal(t, "", recipes[1].Name)

	c := New(recipes)
	require.Equal(t, 2, c.Len())
	assert.Equal(t, "Kheer", c.At(0).Name)
	assert.Equal(t, "Aloo Gobi", c.At(1).Name)
	assert.Equal(t, "", c.At(1).Course)
}

func TestReadSQLiteMissingFile(t *testing.T) {
	_, err := ReadSQLite(filepath.Join(t.TempDir(), "nope.db"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOrEmpty(t *testing.T) {
	assert.Equal(t, 0, LoadOrEmpty("").Len())
	assert.Equal(t, 0, LoadOrEmpty(filepath.Join(t.TempDir(), "missing.csv")).Len())
}
