package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dish-resolver/internal/api"
	"dish-resolver/internal/core/catalog"
	"dish-resolver/internal/core/dialogue"
	"dish-resolver/internal/core/places"
	"dish-resolver/internal/core/session"
	"dish-resolver/internal/infrastructure/config"
	mcptools "dish-resolver/internal/mcp"
	"dish-resolver/internal/metrics"
	"dish-resolver/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("catalog_path", cfg.Catalog.Path),
		zap.String("session_backend", cfg.Session.Backend),
		zap.Bool("places_enabled", cfg.Places.Enabled),
		zap.String("places_key", config.MaskAPIKey(cfg.Places.APIKey)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 載入目錄；失敗時以空目錄啟動
	cat := catalog.LoadOrEmpty(cfg.Catalog.Path)
	metrics.CatalogRecipes.Set(float64(cat.Len()))

	// 初始化 session 儲存
	sessions, closeSessions, err := session.NewStore(ctx, cfg.Session, session.SystemClock)
	if err != nil {
		common.LogFatal("Failed to initialize session store", zap.Error(err))
	}
	defer func() {
		if err := closeSessions(); err != nil {
			common.LogWarn("Failed to close session store", zap.Error(err))
		}
	}()

	engine := dialogue.NewEngine(cat, sessions)

	var finder mcptools.PlaceFinder
	if cfg.Places.Enabled {
		finder = places.NewClient(cfg.Places)
	}

	// 設置路由
	router, err := api.SetupRouter(ctx, cfg, api.Services{
		Engine: engine,
		Places: finder,
		MCP:    mcptools.NewServer(engine, finder, cfg.MCP.Name, cfg.App.Version),
	})
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
			zap.Int("recipes", cat.Len()),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
