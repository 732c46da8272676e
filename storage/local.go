package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// localStorage 本地文件存储实现
type localStorage struct {
	absBasePath string
}

// NewLocalStorage 创建本地存储提供者
func NewLocalStorage(basePath string) (Provider, error) {
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create local storage directory '%s': %w", absPath, err)
	}

	return &localStorage{
		absBasePath: absPath + string(os.PathSeparator),
	}, nil
}

// resolve 将对象 key 解析为基础目录内的绝对路径
func (s *localStorage) resolve(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid object key: %s", key)
	}

	fullPath := filepath.Join(s.absBasePath, filepath.FromSlash(key))

	// 确保最终路径在 basePath 内，防止目录穿越
	if !strings.HasPrefix(fullPath, s.absBasePath) {
		return "", fmt.Errorf("invalid object key, potential directory traversal: %s", key)
	}
	return fullPath, nil
}

// SaveWithContext 保存文件到本地存储
func (s *localStorage) SaveWithContext(ctx context.Context, key string, file io.Reader, size int64, contentType string) error {
	dstPath, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory for '%s': %w", key, err)
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file '%s': %w", dstPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to copy file content to '%s': %w", dstPath, err)
	}

	return nil
}

// GetWithContext 从本地存储获取文件
func (s *localStorage) GetWithContext(ctx context.Context, key string) (io.ReadSeeker, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("object not found: %s", key)
		}
		return nil, fmt.Errorf("failed to open file '%s': %w", key, err)
	}

	return file, nil
}

// DeleteWithContext 从本地存储删除文件
func (s *localStorage) DeleteWithContext(ctx context.Context, key string) error {
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			// 对象已不存在，删除视为成功
			return nil
		}
		return fmt.Errorf("failed to delete file '%s': %w", key, err)
	}
	return nil
}

// Exists 检查文件是否存在
func (s *localStorage) Exists(ctx context.Context, key string) (bool, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Health 检查存储健康状态
func (s *localStorage) Health(ctx context.Context) error {
	info, err := os.Stat(s.absBasePath)
	if err != nil {
		return fmt.Errorf("local storage base path unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("local storage base path is not a directory: %s", s.absBasePath)
	}
	return nil
}

// Name 返回存储名称
func (s *localStorage) Name() string {
	return "local"
}
