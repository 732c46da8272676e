package tools

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harane/toolshed/api/common"
	"github.com/harane/toolshed/api/middleware"
	toolsrepo "github.com/harane/toolshed/database/repo/tools"
)

// UpdateTool 更新工具记录
// 记录不存在与不属于当前用户统一返回 404
func (h *Handler) UpdateTool(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		common.RespondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	identifier := c.Param("identifier")

	input, err := toolInputFromForm(c, h.maxPhotoSize)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	tool, err := h.toolService.Update(c.Request.Context(), userID, identifier, input)
	if err != nil {
		if errors.Is(err, toolsrepo.ErrToolNotFound) {
			common.RespondError(c, http.StatusNotFound, "Tool not found")
			return
		}
		respondToolError(c, err)
		return
	}

	h.bumpListVersion(c.Request.Context())

	common.RespondSuccess(c, viewOf(tool))
}
