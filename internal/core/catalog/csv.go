package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

func readCSVFile(path string) ([]Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV 讀取帶標頭的 CSV；欄位依標頭名稱對應，順序不限，缺少的欄位視為空字串
func ReadCSV(r io.Reader) ([]Recipe, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))] = i
	}
	if _, ok := index["name"]; !ok {
		return nil, fmt.Errorf("catalog header has no name column")
	}

	var recipes []Recipe
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog line %d: %w", line, err)
		}
		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}
		recipes = append(recipes, Recipe{
			Name:         field("name"),
			Description:  field("description"),
			Cuisine:      field("cuisine"),
			Course:       field("course"),
			Diet:         field("diet"),
			PrepTime:     field("prep_time"),
			Ingredients:  field("ingredients"),
			Instructions: field("instructions"),
			ImageURL:     field("image_url"),
		})
	}
	return recipes, nil
}
