package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

const recipesSchema = `
CREATE TABLE IF NOT EXISTS recipes (
  name         TEXT NOT NULL,
  image_url    TEXT NOT NULL DEFAULT '',
  description  TEXT NOT NULL DEFAULT '',
  cuisine      TEXT NOT NULL DEFAULT '',
  course       TEXT NOT NULL DEFAULT '',
  diet         TEXT NOT NULL DEFAULT '',
  prep_time    TEXT NOT NULL DEFAULT '',
  ingredients  TEXT NOT NULL DEFAULT '',
  instructions TEXT NOT NULL DEFAULT ''
);`

// ReadSQLite 依 rowid 順序讀取 recipes 資料表
func ReadSQLite(path string) ([]Recipe, error) {
	// sql.Open 不會檢查檔案，缺檔時會默默建立空資料庫
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	query := "SELECT " + strings.Join(columns, ", ") + " FROM recipes ORDER BY rowid"
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		// 外部建立的資料表可能有 NULL 欄位，沒有名稱的列交給 New 略過
		var (
			r                                                    Recipe
			name, image, desc, cuisine, course, diet, prep, ingr sql.NullString
			instr                                                sql.NullString
		)
		if err := rows.Scan(&name, &image, &desc, &cuisine, &course, &diet, &prep, &ingr, &instr); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		r.Name = name.String
		r.ImageURL = image.String
		r.Description = desc.String
		r.Cuisine = cuisine.String
		r.Course = course.String
		r.Diet = diet.String
		r.PrepTime = prep.String
		r.Ingredients = ingr.String
		r.Instructions = instr.String
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}
	return recipes, nil
}

// WriteSQLite 將資料列寫入 SQLite 目錄檔（覆寫既有的 recipes 資料表內容）
func WriteSQLite(ctx context.Context, path string, recipes []Recipe) error {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, recipesSchema); err != nil {
		return fmt.Errorf("create recipes table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM recipes"); err != nil {
		return fmt.Errorf("clear recipes: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO recipes ("+strings.Join(columns, ", ")+") VALUES ("+placeholders+")")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range recipes {
		r = trimRecipe(r)
		if r.Name == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx,
			r.Name, r.ImageURL, r.Description, r.Cuisine, r.Course,
			r.Diet, r.PrepTime, r.Ingredients, r.Instructions,
		); err != nil {
			return fmt.Errorf("insert %q: %w", r.Name, err)
		}
	}

	return tx.Commit()
}
