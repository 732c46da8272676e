package tools

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harane/toolshed/api/common"
	"github.com/harane/toolshed/api/middleware"
	toolsrepo "github.com/harane/toolshed/database/repo/tools"
)

// DeleteTool 删除工具记录
func (h *Handler) DeleteTool(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		common.RespondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	identifier := c.Param("identifier")

	err := h.toolService.Delete(c.Request.Context(), userID, identifier)
	if err != nil {
		if errors.Is(err, toolsrepo.ErrToolNotFound) {
			common.RespondError(c, http.StatusNotFound, "Tool not found")
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.bumpListVersion(c.Request.Context())

	common.RespondSuccessMessage(c, "Tool deleted", nil)
}
