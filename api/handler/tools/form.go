package tools

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harane/toolshed/internal/photos"
	toolsvc "github.com/harane/toolshed/internal/tools"
	"github.com/harane/toolshed/utils/validator"
)

// toolInputFromForm 从 multipart 表单提取工具字段与可选照片
func toolInputFromForm(c *gin.Context, maxPhotoSize int64) (toolsvc.Input, error) {
	input := toolsvc.Input{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		ModelNumber: c.PostForm("model"),
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		if err == http.ErrMissingFile {
			return input, nil
		}
		return input, fmt.Errorf("invalid form data: %w", err)
	}

	data, mimeType, err := readPhoto(fileHeader, maxPhotoSize)
	if err != nil {
		return input, err
	}
	input.Photo = data
	input.PhotoMime = mimeType

	return input, nil
}

// readPhoto 读取上传文件内容并嗅探实际类型
// 读取上限为 maxSize+1，超限交由照片服务统一报错
func readPhoto(fileHeader *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read uploaded file: %w", err)
	}

	// 以实际内容嗅探类型，不信任客户端声明
	ok, mimeType, err := validator.IsImageBytes(data)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", photos.ErrUnsupportedType
	}
	return data, mimeType, nil
}
