package identify

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harane/toolshed/api/common"
	identifysvc "github.com/harane/toolshed/internal/identify"
	"github.com/harane/toolshed/internal/photos"
	"github.com/harane/toolshed/utils/validator"
)

// Handler AI 识别处理器
type Handler struct {
	identifier   identifysvc.Identifier
	maxPhotoSize int64
}

// NewHandler 创建识别处理器，identifier 为 nil 时表示功能未配置
func NewHandler(identifier identifysvc.Identifier, maxPhotoSize int64) *Handler {
	return &Handler{
		identifier:   identifier,
		maxPhotoSize: maxPhotoSize,
	}
}

// IdentifyTool 识别上传照片中的工具
// 本地校验先于任何网络调用，不合格的图片不会产生一次模型请求
func (h *Handler) IdentifyTool(c *gin.Context) {
	if h.identifier == nil {
		common.RespondError(c, http.StatusServiceUnavailable, "Tool identification is not configured")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "No image provided")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid form data")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxPhotoSize+1))
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "Failed to read image")
		return
	}

	ok, mimeType, err := validator.IsImageBytes(data)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "Failed to read image")
		return
	}
	if !ok {
		common.RespondError(c, http.StatusBadRequest, photos.ErrUnsupportedType.Error())
		return
	}
	if err := photos.ValidateImage(mimeType, int64(len(data)), h.maxPhotoSize); err != nil {
		if errors.Is(err, photos.ErrTooLarge) {
			common.RespondError(c, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	guess, err := h.identifier.Identify(c.Request.Context(), data, mimeType)
	if err != nil {
		respondIdentifyError(c, err)
		return
	}

	common.RespondSuccess(c, guess)
}

// respondIdentifyError 将识别错误映射为 HTTP 响应
// 对外只暴露脱敏后的消息，原始 provider 错误仅进日志
func respondIdentifyError(c *gin.Context, err error) {
	var identifyErr *identifysvc.Error
	if errors.As(err, &identifyErr) {
		status := identifyErr.HTTPStatus
		if status == 0 {
			status = http.StatusBadGateway
		}
		common.RespondError(c, status, identifyErr.Message)
		return
	}
	common.RespondError(c, http.StatusInternalServerError, "Internal server error")
}
