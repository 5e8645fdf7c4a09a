package main

import (
	"dish-resolver/internal/core/dialogue"
	"dish-resolver/internal/core/places"
	"dish-resolver/internal/core/session"
	mcptools "dish-resolver/internal/mcp"
	"dish-resolver/internal/pkg/common"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the dish tools over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer common.Sync()

			sessions, closeSessions, err := session.NewStore(cmd.Context(), cfg.Session, session.SystemClock)
			if err != nil {
				return err
			}
			defer func() { _ = closeSessions() }()

			engine := dialogue.NewEngine(loadCatalog(cfg), sessions)

			var finder mcptools.PlaceFinder
			if cfg.Places.Enabled {
				finder = places.NewClient(cfg.Places)
			}

			common.LogInfo("Serving MCP over stdio",
				zap.String("name", cfg.MCP.Name),
				zap.Strings("tools", mcptools.ToolNames()),
				zap.Int("recipes", engine.Catalog().Len()),
			)
			return mcptools.ServeStdio(mcptools.NewServer(engine, finder, cfg.MCP.Name, cfg.App.Version))
		},
	}
}
