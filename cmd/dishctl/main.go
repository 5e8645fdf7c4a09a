package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dish-resolver/internal/core/catalog"
	"dish-resolver/internal/infrastructure/config"
	"dish-resolver/internal/metrics"
	"dish-resolver/internal/pkg/common"

	"github.com/spf13/cobra"
)

var (
	catalogPath string
	logLevel    string

	rootCmd = &cobra.Command{
		Use:   "dishctl",
		Short: "🍽  Dish resolution tools",
		Long: `dishctl resolves free-text dish queries against a recipe catalog.

It can run a conversation in the terminal, serve the MCP tools over stdio,
or convert a CSV/JSON catalog into the SQLite format.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "catalog file (.csv, .json, .db); overrides CATALOG_PATH")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(mcpCmd())
	rootCmd.AddCommand(importCmd())
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig 載入設定並套用命令列覆寫；日誌一律寫到 stderr
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if catalogPath != "" {
		cfg.Catalog.Path = catalogPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	common.InitStderrLogger(cfg.LogLevel)
	return cfg, nil
}

// loadCatalog 載入目錄；失敗時為空目錄
func loadCatalog(cfg *config.Config) *catalog.Catalog {
	cat := catalog.LoadOrEmpty(cfg.Catalog.Path)
	metrics.CatalogRecipes.Set(float64(cat.Len()))
	return cat
}
