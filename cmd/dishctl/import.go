package main

import (
	"fmt"

	"dish-resolver/internal/core/catalog"
	"dish-resolver/internal/pkg/common"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <source> <dest.db>",
		Short: "Convert a CSV or JSON catalog into a SQLite catalog",
		Long: `Read a recipe catalog (CSV with header or JSON array) and write it into
the recipes table of a SQLite database. Existing rows are replaced.

Examples:
  dishctl import data/cuisines.csv data/recipes.db`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}

			src, dst := args[0], args[1]
			recipes, err := catalog.ReadFile(src)
			if err != nil {
				return fmt.Errorf("read %s: %w", src, err)
			}
			if err := catalog.WriteSQLite(cmd.Context(), dst, recipes); err != nil {
				return fmt.Errorf("write %s: %w", dst, err)
			}

			// WriteSQLite 會略過沒有名稱的列
			imported := catalog.New(recipes).Len()
			common.LogInfo("Catalog imported",
				zap.String("source", src),
				zap.String("dest", dst),
				zap.Int("recipes", imported),
			)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d recipes into %s\n", imported, dst)
			return err
		},
	}
}
