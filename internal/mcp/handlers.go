package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"dish-resolver/internal/core/auth"
	"dish-resolver/internal/core/catalog"
	"dish-resolver/internal/core/dialogue"
	"dish-resolver/internal/core/places"
	"dish-resolver/internal/core/recommend"
	"dish-resolver/internal/core/render"
	"dish-resolver/internal/pkg/common"

	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers MCP 工具處理器
type Handlers struct {
	engine *dialogue.Engine
	finder PlaceFinder
}

// NewHandlers 建立工具處理器；finder 可為 nil
func NewHandlers(engine *dialogue.Engine, finder PlaceFinder) *Handlers {
	return &Handlers{engine: engine, finder: finder}
}

// GetRecipeRequest get_recipe 參數
type GetRecipeRequest struct {
	UserID string `json:"user_id"`
	Dish   string `json:"dish"`
}

// RecommendRequest recommend 參數
type RecommendRequest struct {
	Dish   string `json:"dish"`
	Diet   string `json:"diet"`
	Course string `json:"course"`
	TopN   int    `json:"top_n"`
}

// LocalityRequest get_locality 參數
type LocalityRequest struct {
	Dish string `json:"dish"`
	City string `json:"city"`
}

// ValidateRequest validate 參數
type ValidateRequest struct {
	Token string `json:"token"`
}

// HandleGetRecipe 處理 get_recipe
func (h *Handlers) HandleGetRecipe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRecipeRequest](req)
	if err != nil {
		return errorResult(common.ErrInvalidRequest.Wrap(err)), nil
	}
	if strings.TrimSpace(input.UserID) == "" {
		return errorResult(common.InvalidRequest("user_id is required")), nil
	}

	res := h.engine.Handle(ctx, input.UserID, input.Dish)
	return successResult(map[string]any{
		"response": render.Turn(res),
		"result":   res,
	})
}

// HandleRecommend 處理 recommend
func (h *Handlers) HandleRecommend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RecommendRequest](req)
	if err != nil {
		return errorResult(common.ErrInvalidRequest.Wrap(err)), nil
	}

	recs := h.engine.Recommend(input.Dish, catalog.Filter{Diet: input.Diet, Course: input.Course}, input.TopN)
	if recs == nil {
		recs = []recommend.Recommendation{}
	}
	return successResult(map[string]any{
		"response":        render.RecommendationList(input.Dish, recs),
		"recommendations": recs,
	})
}

// HandleLocality 處理 get_locality
func (h *Handlers) HandleLocality(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LocalityRequest](req)
	if err != nil {
		return errorResult(common.ErrInvalidRequest.Wrap(err)), nil
	}
	if strings.TrimSpace(input.Dish) == "" || strings.TrimSpace(input.City) == "" {
		return errorResult(common.InvalidRequest("dish and city are required")), nil
	}
	if h.finder == nil || !h.finder.Enabled() {
		return errorResult(common.ErrPlacesDisabled), nil
	}

	list, err := h.finder.Nearby(ctx, input.Dish, input.City)
	if err != nil {
		if errors.Is(err, places.ErrDisabled) {
			return errorResult(common.ErrPlacesDisabled.Wrap(err)), nil
		}
		return errorResult(common.ErrPlacesUnavailable.Wrap(err)), nil
	}
	if list == nil {
		list = []places.Place{}
	}

	response := "No nearby places found."
	if len(list) > 0 {
		response = render.Locality(input.Dish, input.City, list)
	}
	return successResult(map[string]any{
		"response": response,
		"places":   list,
	})
}

// HandleValidate 處理 validate
func (h *Handlers) HandleValidate(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ValidateRequest](req)
	if err != nil {
		return errorResult(common.ErrInvalidRequest.Wrap(err)), nil
	}
	phone, err := auth.PhoneFromToken(input.Token)
	if err != nil {
		return errorResult(common.ErrInvalidToken.Wrap(err)), nil
	}
	return successResult(map[string]any{"phone": phone})
}

// errorResult 工具錯誤結果（IsError=true）；內部錯誤不帶細節
func errorResult(ce *common.CustomError) *mcp.CallToolResult {
	content, _ := json.Marshal(map[string]any{
		"error": map[string]any{
			"code":    ce.Code,
			"message": ce.Message,
			"status":  ce.Status,
		},
	})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult 工具成功結果
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
