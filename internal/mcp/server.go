// Package mcp 以 MCP 工具的形式提供菜名解析、推薦與附近餐廳查詢
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"dish-resolver/internal/core/dialogue"
	"dish-resolver/internal/core/places"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// PlaceFinder 附近餐廳查詢能力
type PlaceFinder interface {
	Enabled() bool
	Nearby(ctx context.Context, dish, city string) ([]places.Place, error)
}

// toolEntry 工具定義與處理函式
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

var toolRegistry = map[string]toolEntry{
	"get_recipe": {
		def: mcp.NewTool("get_recipe",
			mcp.WithDescription("Resolve a dish query for a user. Short replies such as a number, 'show more' or part of a dish name continue the previous turn."),
			mcp.WithString("user_id", mcp.Required(), mcp.Description("Stable user identifier used to scope the conversation")),
			mcp.WithString("dish", mcp.Required(), mcp.Description("Dish query or follow-up reply")),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGetRecipe },
	},
	"recommend": {
		def: mcp.NewTool("recommend",
			mcp.WithDescription("Recommend dishes similar to a seed dish, optionally filtered by diet and course."),
			mcp.WithString("dish", mcp.Description("Seed dish; empty returns the first catalog entries")),
			mcp.WithString("diet", mcp.Description("Diet filter, e.g. vegetarian")),
			mcp.WithString("course", mcp.Description("Course filter, e.g. dessert")),
			mcp.WithNumber("top_n", mcp.Description("Number of recommendations (default 3)")),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRecommend },
	},
	"get_locality": {
		def: mcp.NewTool("get_locality",
			mcp.WithDescription("Find places in a city that serve a dish."),
			mcp.WithString("dish", mcp.Required(), mcp.Description("Dish name")),
			mcp.WithString("city", mcp.Required(), mcp.Description("City name")),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleLocality },
	},
	"validate": {
		def: mcp.NewTool("validate",
			mcp.WithDescription("Validate a bearer token and return the authenticated phone number."),
			mcp.WithString("token", mcp.Required(), mcp.Description("Base64 encoded phone number")),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleValidate },
	},
}

// ToolNames 所有工具名稱（已排序）
func ToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewServer 建立並註冊所有工具的 MCP 伺服器
func NewServer(engine *dialogue.Engine, finder PlaceFinder, name, version string) *server.MCPServer {
	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(engine, finder)
	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}
	return s
}

// ServeStdio 以 stdio 傳輸執行
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// HTTPHandler 以 streamable HTTP 傳輸提供 MCP
func HTTPHandler(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s)
}

// decode 將工具參數解析為型別化結構
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	args := req.GetArguments()
	b, err := json.Marshal(args)
	if err != nil {
		return result, fmt.Errorf("marshal args: %w", err)
	}
	if err := json.Unmarshal(b, &result); err != nil {
		return result, fmt.Errorf("unmarshal args: %w", err)
	}
	return result, nil
}
