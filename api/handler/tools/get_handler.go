package tools

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harane/toolshed/api/common"
	toolsrepo "github.com/harane/toolshed/database/repo/tools"
)

// GetTool 获取单个工具详情，公开访问
func (h *Handler) GetTool(c *gin.Context) {
	identifier := c.Param("identifier")

	tool, err := h.toolService.Get(c.Request.Context(), identifier)
	if err != nil {
		if errors.Is(err, toolsrepo.ErrToolNotFound) {
			common.RespondError(c, http.StatusNotFound, "Tool not found")
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	common.RespondSuccess(c, viewOf(tool))
}
