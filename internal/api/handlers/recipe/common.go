package recipe

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// queryInt 讀取整數查詢參數；缺少或空白時回傳 0
func queryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
