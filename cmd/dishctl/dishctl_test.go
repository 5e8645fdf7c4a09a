package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dish-resolver/internal/core/catalog"
	"dish-resolver/internal/core/dialogue"
	"dish-resolver/internal/core/session"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverse(t *testing.T) {
	cat := catalog.New([]catalog.Recipe{
		{Name: "Paneer Tikka", Course: "Snack"},
		{Name: "Dal Makhani", Course: "Main Course"},
	})
	engine := dialogue.NewEngine(cat, session.NewMemoryStore(session.DefaultTimeout, nil))

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	var out bytes.Buffer
	in := strings.NewReader("dal makhani\n\n5\nexit\npaneer tikka\n")
	require.NoError(t, converse(cmd, engine, "cli", in, &out))

	text := out.String()
	assert.Contains(t, text, "🍽 Dish: Dal Makhani")
	assert.NotContains(t, text, "🍽 Dish: Paneer Tikka")
}

func TestImportCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "recipes.csv")
	dst := filepath.Join(dir, "recipes.db")
	require.NoError(t, os.WriteFile(src, []byte("name,course\nKheer,Dessert\n,Snack\nAloo Gobi,Side Dish\n"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"import", src, dst})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	assert.Contains(t, out.String(), "Imported 2 recipes")

	cat, err := catalog.Load(dst)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())
	assert.Equal(t, "Kheer", cat.At(0).Name)
}
