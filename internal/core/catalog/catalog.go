// Package catalog 提供啟動時載入、之後不可變的食譜目錄
package catalog

import (
	"strings"
	"unicode"
)

// Recipe 食譜資料列
type Recipe struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Cuisine      string `json:"cuisine"`
	Course       string `json:"course"`
	Diet         string `json:"diet"`
	PrepTime     string `json:"prep_time"`
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`
	ImageURL     string `json:"image_url"`
}

// Catalog 不可變的食譜目錄；索引即為資料列身分，整個程序生命週期內穩定
type Catalog struct {
	recipes    []Recipe
	searchText []string // 已正規化的 name+description+cuisine+course+diet+ingredients
	names      []string // 已正規化的名稱
	nameKeys   []string // 名稱比對鍵（大小寫不敏感）
}

// New 從資料列建立目錄快照；缺少名稱的資料列會被略過
func New(recipes []Recipe) *Catalog {
	c := &Catalog{
		recipes:    make([]Recipe, 0, len(recipes)),
		searchText: make([]string, 0, len(recipes)),
		names:      make([]string, 0, len(recipes)),
		nameKeys:   make([]string, 0, len(recipes)),
	}
	for _, r := range recipes {
		r = trimRecipe(r)
		if r.Name == "" {
			continue
		}
		c.recipes = append(c.recipes, r)
		c.searchText = append(c.searchText, Fold(strings.Join([]string{
			r.Name, r.Description, r.Cuisine, r.Course, r.Diet, r.Ingredients,
		}, " ")))
		c.names = append(c.names, Fold(r.Name))
		c.nameKeys = append(c.nameKeys, NameKey(r.Name))
	}
	return c
}

// Empty 回傳空目錄
func Empty() *Catalog {
	return New(nil)
}

// Len 回傳資料列數量
func (c *Catalog) Len() int {
	return len(c.recipes)
}

// At 回傳指定索引的食譜（值複製，呼叫端無法修改目錄）
func (c *Catalog) At(i int) Recipe {
	return c.recipes[i]
}

// SearchText 回傳指定索引的正規化搜尋文字
func (c *Catalog) SearchText(i int) string {
	return c.searchText[i]
}

// FoldedName 回傳指定索引的正規化名稱
func (c *Catalog) FoldedName(i int) string {
	return c.names[i]
}

// Head 依儲存順序回傳前 n 筆
func (c *Catalog) Head(n int) []Recipe {
	if n > len(c.recipes) {
		n = len(c.recipes)
	}
	if n <= 0 {
		return nil
	}
	out := make([]Recipe, n)
	copy(out, c.recipes[:n])
	return out
}

// FindByName 以大小寫不敏感的名稱找出第一筆符合的食譜
func (c *Catalog) FindByName(name string) (Recipe, bool) {
	key := NameKey(name)
	if key == "" {
		return Recipe{}, false
	}
	for i, k := range c.nameKeys {
		if k == key {
			return c.recipes[i], true
		}
	}
	return Recipe{}, false
}

// FindByNames 依請求順序回傳每個名稱對應的食譜，未知名稱直接略過
func (c *Catalog) FindByNames(names []string) []Recipe {
	out := make([]Recipe, 0, len(names))
	for _, name := range names {
		if r, ok := c.FindByName(name); ok {
			out = append(out, r)
		}
	}
	return out
}

// NameKey 名稱去重與比對用的鍵
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Fold 正規化文字：轉小寫、非字母數字改為空白、合併連續空白
func Fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := true
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func trimRecipe(r Recipe) Recipe {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.Cuisine = strings.TrimSpace(r.Cuisine)
	r.Course = strings.TrimSpace(r.Course)
	r.Diet = strings.TrimSpace(r.Diet)
	r.PrepTime = strings.TrimSpace(r.PrepTime)
	r.Ingredients = strings.TrimSpace(r.Ingredients)
	r.Instructions = strings.TrimSpace(r.Instructions)
	r.ImageURL = strings.TrimSpace(r.ImageURL)
	return r
}
