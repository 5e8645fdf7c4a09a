package api

import (
	"context"
	"fmt"
	"time"

	"dish-resolver/internal/api/handlers/discovery"
	"dish-resolver/internal/api/handlers/health"
	recipeHandler "dish-resolver/internal/api/handlers/recipe"
	"dish-resolver/internal/api/middleware"
	"dish-resolver/internal/core/dialogue"
	"dish-resolver/internal/infrastructure/config"
	mcptools "dish-resolver/internal/mcp"
	"dish-resolver/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	// 請求體大小限制 (1MB)
	maxBodySize = 1 << 20
)

// Services 路由依賴的服務
type Services struct {
	Engine *dialogue.Engine
	Places mcptools.PlaceFinder // 可為 nil
	MCP    *server.MCPServer    // 可為 nil，此時不掛載 /mcp/stream
}

// SetupRouter 設置路由；ctx 結束時停止背景清理
func SetupRouter(ctx context.Context, cfg *config.Config, svc Services) (*gin.Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if svc.Engine == nil {
		return nil, fmt.Errorf("dialogue engine is required")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(requestid.New())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "Mcp-Session-Id"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID", "Mcp-Session-Id"},
		MaxAge:        12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 注入設定與引擎
	router.Use(func(c *gin.Context) {
		c.Set("config", cfg)
		c.Set("engine", svc.Engine)
		c.Next()
	})

	// 健康檢查與指標
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	recipes := recipeHandler.NewHandler(svc.Engine, svc.Places, cfg.App.Debug)
	disc := discovery.NewHandler(cfg.MCP.Name, cfg.App.Version, cfg.App.Debug)

	dedup := middleware.NewDeduplicator(cfg.DedupWindow)
	dedup.StartCleanup(ctx, 0)

	// API 路由與 MCP 串流共用同一份限流額度
	var limited []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		limiter.StartCleanup(ctx, 0)
		limited = append(limited, limiter.Middleware())
	}

	api := router.Group("/")
	api.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	api.Use(limited...)
	{
		api.GET("/get_recipe", dedup.Middleware(isSelection), recipes.HandleGetRecipe)
		api.GET("/recommend", recipes.HandleRecommend)
		api.GET("/get_locality", recipes.HandleLocality)
		api.GET("/validate", disc.HandleValidate)
		api.GET("/mcp", disc.HandleManifest)
	}

	// MCP streamable HTTP 傳輸是長連線，不套用請求逾時
	if svc.MCP != nil {
		stream := append(limited, gin.WrapH(mcptools.HTTPHandler(svc.MCP)))
		router.Any("/mcp/stream", stream...)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Int("catalog_recipes", svc.Engine.Catalog().Len()),
		zap.Bool("places_enabled", svc.Places != nil && svc.Places.Enabled()),
		zap.Bool("mcp_stream", svc.MCP != nil),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}

// isSelection 只對會清空 session 的選擇輸入去重，相同的新查詢照常處理
func isSelection(c *gin.Context) bool {
	return dialogue.IsSelection(c.Query("dish"))
}
