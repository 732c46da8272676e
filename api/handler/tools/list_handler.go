package tools

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/harane/toolshed/api/common"
	"github.com/harane/toolshed/api/middleware"
	"github.com/harane/toolshed/cache"
)

const (
	defaultPageSize = 24
	maxPageSize     = 100
)

// listResponse 工具列表响应
type listResponse struct {
	Tools    []toolView `json:"tools"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

// ListTools 获取工具列表，支持搜索与分类筛选，公开访问
func (h *Handler) ListTools(c *gin.Context) {
	search := c.Query("search")
	category := c.Query("category")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	ctx := c.Request.Context()

	// 先查缓存
	var cached listResponse
	var cacheKey string
	if h.cacheProvider != nil {
		cacheKey = cache.ToolListKey(h.listVersion(ctx), search, category, page, pageSize)
		if err := h.cacheProvider.Get(ctx, cacheKey, &cached); err == nil {
			common.RespondSuccess(c, cached)
			return
		}
	}

	toolList, total, err := h.toolService.List(ctx, search, category, page, pageSize)
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := listResponse{
		Tools:    viewsOf(toolList),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}

	if h.cacheProvider != nil {
		_ = h.cacheProvider.Set(ctx, cacheKey, response, h.listTTL)
	}

	common.RespondSuccess(c, response)
}

// ListMyTools 获取当前用户自己的工具列表
func (h *Handler) ListMyTools(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		common.RespondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	toolList, total, err := h.toolService.ListMine(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	common.RespondSuccess(c, listResponse{
		Tools:    viewsOf(toolList),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}
