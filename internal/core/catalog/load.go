package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dish-resolver/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrUnsupportedFormat 不支援的目錄檔案格式
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// columns 目錄檔案欄位（與資料清理腳本輸出一致）
var columns = []string{
	"name", "image_url", "description", "cuisine", "course",
	"diet", "prep_time", "ingredients", "instructions",
}

// Load 依副檔名載入目錄：.csv、.json、.db/.sqlite/.sqlite3
func Load(path string) (*Catalog, error) {
	recipes, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(recipes), nil
}

// ReadFile 依副檔名讀出原始資料列（不建立目錄），匯入工具也使用
func ReadFile(path string) ([]Recipe, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSVFile(path)
	case ".json":
		return readJSONFile(path)
	case ".db", ".sqlite", ".sqlite3":
		return ReadSQLite(path)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// LoadOrEmpty 載入目錄；檔案缺失或格式錯誤時記錄警告並回傳空目錄，服務仍可啟動
func LoadOrEmpty(path string) *Catalog {
	if path == "" {
		common.LogWarn("未設定目錄路徑，使用空目錄")
		return Empty()
	}
	c, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			common.LogWarn("目錄檔案不存在，使用空目錄", zap.String("path", path))
		} else {
			common.LogError("目錄載入失敗，使用空目錄", zap.String("path", path), zap.Error(err))
		}
		return Empty()
	}
	common.LogInfo("目錄已載入",
		zap.String("path", path),
		zap.Int("recipes", c.Len()),
	)
	return c
}
