package photos

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harane/toolshed/api/common"
	photosvc "github.com/harane/toolshed/internal/photos"
)

// Handler 照片访问处理器
type Handler struct {
	photoService *photosvc.Service
}

// NewHandler 创建照片访问处理器
func NewHandler(photoService *photosvc.Service) *Handler {
	return &Handler{photoService: photoService}
}

// ServePhoto 公开读取照片对象
func (h *Handler) ServePhoto(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		common.RespondError(c, http.StatusBadRequest, "Photo key is required")
		return
	}

	reader, err := h.photoService.Open(c.Request.Context(), key)
	if err != nil {
		common.RespondError(c, http.StatusNotFound, "Photo not found")
		return
	}
	if closer, ok := reader.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	http.ServeContent(c.Writer, c.Request, key, time.Time{}, reader)
}
