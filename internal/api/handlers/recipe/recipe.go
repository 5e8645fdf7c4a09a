package recipe

import (
	"errors"
	"net/http"
	"strings"

	"dish-resolver/internal/core/catalog"
	"dish-resolver/internal/core/dialogue"
	"dish-resolver/internal/core/places"
	"dish-resolver/internal/core/render"
	mcptools "dish-resolver/internal/mcp"
	"dish-resolver/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 菜名解析、推薦與附近餐廳查詢的 HTTP 處理器
type Handler struct {
	engine *dialogue.Engine
	finder mcptools.PlaceFinder
	debug  bool
}

// NewHandler 創建處理器；finder 可為 nil（附近餐廳查詢停用）
func NewHandler(engine *dialogue.Engine, finder mcptools.PlaceFinder, debug bool) *Handler {
	return &Handler{
		engine: engine,
		finder: finder,
		debug:  debug,
	}
}

// GetRecipeResponse GET /get_recipe 響應
type GetRecipeResponse struct {
	Response string           `json:"response"`
	Result   *dialogue.Result `json:"result"`
}

// HandleGetRecipe GET /get_recipe?user_id=&dish=
func (h *Handler) HandleGetRecipe(c *gin.Context) {
	requestID := common.RequestID(c)

	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		common.WriteError(c, common.InvalidRequest("user_id is required"), h.debug)
		return
	}
	dish, ok := c.GetQuery("dish")
	if !ok {
		common.WriteError(c, common.InvalidRequest("dish is required"), h.debug)
		return
	}

	res := h.engine.Handle(c.Request.Context(), userID, dish)

	common.LogDebug("Turn handled",
		zap.String("request_id", requestID),
		zap.String("state", string(res.State)),
		zap.String("outcome", res.Label()),
	)

	c.JSON(http.StatusOK, GetRecipeResponse{
		Response: render.Turn(res),
		Result:   res,
	})
}

// HandleRecommend GET /recommend?dish=&diet=&course=&top_n=
func (h *Handler) HandleRecommend(c *gin.Context) {
	topN, err := queryInt(c, "top_n")
	if err != nil {
		common.WriteError(c, common.InvalidRequest("top_n must be an integer").Wrap(err), h.debug)
		return
	}

	dish := c.Query("dish")
	filter := catalog.Filter{Diet: c.Query("diet"), Course: c.Query("course")}
	recs := h.engine.Recommend(dish, filter, topN)
	if len(recs) == 0 {
		common.WriteError(c, common.NotFound("No recommendations found."), h.debug)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response":        render.RecommendationList(dish, recs),
		"recommendations": recs,
	})
}

// HandleLocality GET /get_locality?dish=&city=
func (h *Handler) HandleLocality(c *gin.Context) {
	requestID := common.RequestID(c)

	dish := strings.TrimSpace(c.Query("dish"))
	city := strings.TrimSpace(c.Query("city"))
	if dish == "" || city == "" {
		common.WriteError(c, common.InvalidRequest("dish and city are required"), h.debug)
		return
	}
	if h.finder == nil || !h.finder.Enabled() {
		common.WriteError(c, common.ErrPlacesDisabled, h.debug)
		return
	}

	list, err := h.finder.Nearby(c.Request.Context(), dish, city)
	if err != nil {
		common.LogWarn("Place lookup failed",
			zap.String("request_id", requestID),
			zap.String("dish", dish),
			zap.String("city", city),
			zap.Error(err),
		)
		if errors.Is(err, places.ErrDisabled) {
			common.WriteError(c, common.ErrPlacesDisabled.Wrap(err), h.debug)
			return
		}
		common.WriteError(c, common.ErrPlacesUnavailable.Wrap(err), h.debug)
		return
	}
	if len(list) == 0 {
		common.WriteError(c, common.NotFound("No nearby places found."), h.debug)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response": render.Locality(dish, city, list),
		"places":   list,
	})
}
