package health

import (
	"net/http"
	"runtime"
	"time"

	"dish-resolver/internal/core/dialogue"
	"dish-resolver/internal/infrastructure/config"
	"dish-resolver/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Catalog   CatalogStatus          `json:"catalog"`
	Session   SessionStatus          `json:"session"`
}

// CatalogStatus 食譜目錄狀態
type CatalogStatus struct {
	Path    string `json:"path"`
	Recipes int    `json:"recipes"`
}

// SessionStatus 對話 session 狀態
type SessionStatus struct {
	Backend string `json:"backend"`
	Timeout string `json:"timeout"`
}

// fromContext 取出路由注入的設定與引擎
func fromContext(c *gin.Context) (*config.Config, *dialogue.Engine, bool) {
	cfgValue, exists := c.Get("config")
	if !exists {
		common.LogError("Configuration not found in context")
		common.WriteError(c, common.ErrInternalError, false)
		return nil, nil, false
	}
	cfg, ok := cfgValue.(*config.Config)
	if !ok {
		common.LogError("Invalid configuration type in context")
		common.WriteError(c, common.ErrInternalError, false)
		return nil, nil, false
	}

	engineValue, exists := c.Get("engine")
	if !exists {
		common.LogError("Dialogue engine not found in context")
		common.WriteError(c, common.ErrInternalError, false)
		return nil, nil, false
	}
	engine, ok := engineValue.(*dialogue.Engine)
	if !ok {
		common.LogError("Invalid dialogue engine type in context")
		common.WriteError(c, common.ErrInternalError, false)
		return nil, nil, false
	}
	return cfg, engine, true
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	cfg, engine, ok := fromContext(c)
	if !ok {
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   cfg.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Catalog: CatalogStatus{
			Path:    cfg.Catalog.Path,
			Recipes: engine.Catalog().Len(),
		},
		Session: SessionStatus{
			Backend: cfg.Session.Backend,
			Timeout: cfg.Session.Timeout.String(),
		},
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器：目錄為空時服務仍可回應，但所有查詢都會落空
func ReadinessCheck(c *gin.Context) {
	_, engine, ok := fromContext(c)
	if !ok {
		return
	}

	recipes := engine.Catalog().Len()
	if recipes == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not_ready",
			"reason":  "catalog is empty",
			"recipes": 0,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"recipes": recipes,
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
