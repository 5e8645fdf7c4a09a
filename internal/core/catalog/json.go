package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"dish-resolver/internal/pkg/common"
)

// flexText 接受字串、數字或字串陣列
type flexText string

func (t *flexText) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = flexText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*t = flexText(n.String())
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected string, number or list of strings: %w", err)
	}
	*t = flexText(strings.Join(list, ", "))
	return nil
}

type jsonRecipe struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Cuisine      string   `json:"cuisine"`
	Course       string   `json:"course"`
	Diet         string   `json:"diet"`
	PrepTime     flexText `json:"prep_time"`
	Ingredients  flexText `json:"ingredients"`
	Instructions flexText `json:"instructions"`
	ImageURL     string   `json:"image_url"`
}

func readJSONFile(path string) ([]Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ReadJSON 讀取 JSON 陣列格式的目錄
func ReadJSON(r io.Reader) ([]Recipe, error) {
	var rows []jsonRecipe
	if err := common.DecodeJSON(r, &rows); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	recipes := make([]Recipe, 0, len(rows))
	for _, row := range rows {
		recipes = append(recipes, Recipe{
			Name:         row.Name,
			Description:  row.Description,
			Cuisine:      row.Cuisine,
			Course:       row.Course,
			Diet:         row.Diet,
			PrepTime:     string(row.PrepTime),
			Ingredients:  string(row.Ingredients),
			Instructions: string(row.Instructions),
			ImageURL:     row.ImageURL,
		})
	}
	return recipes, nil
}
