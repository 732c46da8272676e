package validator

import (
	"io"
	"net/http"
)

// allowedImageMimeTypes Allowed image types
var allowedImageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// IsImage Verify if the file content is an allowed image type.
// The stream is reset to the beginning before returning.
func IsImage(file io.ReadSeeker) (bool, string, error) {
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return false, "", err
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return false, "", err
	}

	return IsImageBytes(buffer[:n])
}

// IsImageBytes Verify image type from raw bytes.
func IsImageBytes(data []byte) (bool, string, error) {
	if len(data) == 0 {
		return false, "", nil
	}

	// 检测 MIME 类型
	mimeType := http.DetectContentType(data)

	if allowedImageMimeTypes[mimeType] {
		return true, mimeType, nil
	}

	return false, "", nil
}
