package discovery

import (
	"errors"
	"net/http"

	"dish-resolver/internal/core/auth"
	mcptools "dish-resolver/internal/mcp"
	"dish-resolver/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler token 驗證與 MCP 探索清單
type Handler struct {
	name    string
	version string
	debug   bool
}

// NewHandler 創建處理器
func NewHandler(name, version string, debug bool) *Handler {
	return &Handler{name: name, version: version, debug: debug}
}

// HandleValidate GET /validate，Authorization: Bearer base64(phone)
func (h *Handler) HandleValidate(c *gin.Context) {
	phone, err := auth.PhoneFromHeader(c.GetHeader("Authorization"))
	if err != nil {
		common.LogDebug("Token validation failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		if errors.Is(err, auth.ErrMissingBearer) {
			common.WriteError(c, common.ErrUnauthorized.Wrap(err), h.debug)
			return
		}
		common.WriteError(c, common.ErrInvalidToken.Wrap(err), h.debug)
		return
	}

	c.JSON(http.StatusOK, gin.H{"phone": phone})
}

// HandleManifest GET /mcp；帶有效 token 時回填 phone
func (h *Handler) HandleManifest(c *gin.Context) {
	var phone *string
	if p, err := auth.PhoneFromHeader(c.GetHeader("Authorization")); err == nil {
		phone = &p
	}

	c.JSON(http.StatusOK, mcptools.NewManifest(h.name, h.version, phone))
}
