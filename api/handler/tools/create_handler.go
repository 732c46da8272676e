package tools

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harane/toolshed/api/common"
	"github.com/harane/toolshed/api/middleware"
	"github.com/harane/toolshed/internal/photos"
	toolsvc "github.com/harane/toolshed/internal/tools"
)

// CreateTool 创建工具记录
func (h *Handler) CreateTool(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		common.RespondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	input, err := toolInputFromForm(c, h.maxPhotoSize)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	tool, err := h.toolService.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondToolError(c, err)
		return
	}

	h.bumpListVersion(c.Request.Context())

	common.RespondCreated(c, viewOf(tool))
}

// respondToolError 将服务层错误映射为 HTTP 响应
func respondToolError(c *gin.Context, err error) {
	switch {
	case toolsvc.IsValidationError(err):
		common.RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, photos.ErrUnsupportedType):
		common.RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, photos.ErrTooLarge):
		common.RespondError(c, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, photos.ErrStorageFailure):
		common.RespondError(c, http.StatusBadGateway, "Failed to store photo")
	default:
		common.RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
