package photos

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/harane/toolshed/storage"
)

var (
	// ErrUnsupportedType 不在允许列表中的图片类型
	ErrUnsupportedType = errors.New("only JPEG, PNG, and WebP images are allowed")

	// ErrTooLarge 图片超过大小上限
	ErrTooLarge = errors.New("image must be 5MB or smaller")

	// ErrStorageFailure 存储后端写入失败
	ErrStorageFailure = errors.New("failed to upload photo")
)

// DefaultMaxSizeBytes 默认图片大小上限（5 MiB）
const DefaultMaxSizeBytes = 5 * 1024 * 1024

// allowedMimeTypes 允许的图片类型与对应扩展名
var allowedMimeTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ValidateImage 校验图片类型与大小，任何网络调用之前执行
func ValidateImage(mimeType string, size int64, maxSize int64) error {
	if _, ok := allowedMimeTypes[mimeType]; !ok {
		return ErrUnsupportedType
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSizeBytes
	}
	if size > maxSize {
		return ErrTooLarge
	}
	return nil
}

// Service 照片存储服务
// 负责校验、按所有者命名存储对象并生成可公开访问的 URL
type Service struct {
	provider storage.Provider
	baseURL  string
	maxSize  int64

	// now 可注入以便测试关键路径的键生成
	now func() time.Time
}

// NewService 创建照片存储服务
func NewService(provider storage.Provider, baseURL string, maxSize int64) *Service {
	if maxSize <= 0 {
		maxSize = DefaultMaxSizeBytes
	}
	return &Service{
		provider: provider,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		maxSize:  maxSize,
		now:      time.Now,
	}
}

// MaxSize 返回图片大小上限
func (s *Service) MaxSize() int64 {
	return s.maxSize
}

// buildKey 生成存储 key：{ownerID}/{纳秒时间戳}{ext}
// 时间戳保证同一所有者的并发上传不会互相覆盖
func (s *Service) buildKey(ownerID uint, mimeType string) string {
	ext := allowedMimeTypes[mimeType]
	return fmt.Sprintf("%d/%d%s", ownerID, s.now().UnixNano(), ext)
}

// Upload 校验并上传照片，返回可公开访问的 URL
func (s *Service) Upload(ctx context.Context, ownerID uint, data []byte, mimeType string) (string, error) {
	if err := ValidateImage(mimeType, int64(len(data)), s.maxSize); err != nil {
		return "", err
	}

	key := s.buildKey(ownerID, mimeType)
	if err := s.provider.SaveWithContext(ctx, key, bytes.NewReader(data), int64(len(data)), mimeType); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	return s.PublicURL(key), nil
}

// PublicURL 根据存储 key 生成公开 URL
func (s *Service) PublicURL(key string) string {
	return fmt.Sprintf("%s/photos/%s", s.baseURL, key)
}

// KeyFromURL 从公开 URL 解析存储 key
func (s *Service) KeyFromURL(photoURL string) (string, error) {
	parsed, err := url.Parse(photoURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse photo URL '%s': %w", photoURL, err)
	}

	const prefix = "/photos/"
	idx := strings.Index(parsed.Path, prefix)
	if idx < 0 {
		return "", fmt.Errorf("photo URL '%s' does not contain an object key", photoURL)
	}

	key := parsed.Path[idx+len(prefix):]
	if key == "" {
		return "", fmt.Errorf("photo URL '%s' has an empty object key", photoURL)
	}
	return key, nil
}

// Delete 尽力而为地删除照片对象
// 解析或删除失败只记录日志，绝不向调用方返回错误——
// 照片清理不允许阻塞或中断工具记录的变更
func (s *Service) Delete(ctx context.Context, photoURL string) {
	key, err := s.KeyFromURL(photoURL)
	if err != nil {
		log.Printf("Failed to resolve photo key from URL: %v", err)
		return
	}

	if err := s.provider.DeleteWithContext(ctx, key); err != nil {
		log.Printf("Failed to delete photo object '%s': %v", key, err)
	}
}

// Open 打开存储中的照片对象，供公开访问路由使用
func (s *Service) Open(ctx context.Context, key string) (io.ReadSeeker, error) {
	return s.provider.GetWithContext(ctx, key)
}
