package tools

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/harane/toolshed/database/models"
	toolsrepo "github.com/harane/toolshed/database/repo/tools"
	"github.com/harane/toolshed/internal/search"
)

// ValidationError 字段校验错误，可直接展示给用户
// 校验在任何副作用之前完成，校验失败时既不上传照片也不写库
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError 判断是否为字段校验错误
func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

// PhotoStore 照片存储接口
type PhotoStore interface {
	Upload(ctx context.Context, ownerID uint, data []byte, mimeType string) (string, error)
	Delete(ctx context.Context, photoURL string)
}

// Input 工具录入表单字段
type Input struct {
	Name        string
	Description string
	Category    string
	ModelNumber string

	// Photo 为空表示本次未提交照片
	Photo     []byte
	PhotoMime string
}

// validate 校验表单字段，与工具 schema 保持一致
// 长度按字符（rune）计而非字节，且针对裁剪后即将入库的值
func (in *Input) validate() error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return &ValidationError{Message: "Tool name is required"}
	}
	if utf8.RuneCountInString(name) > 255 {
		return &ValidationError{Message: "Tool name must be 255 characters or less"}
	}
	if in.Category == "" {
		return &ValidationError{Message: "Category is required"}
	}
	if !models.Category(in.Category).IsValid() {
		return &ValidationError{Message: "Please select a category"}
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Description)) > 5000 {
		return &ValidationError{Message: "Description must be 5000 characters or less"}
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.ModelNumber)) > 100 {
		return &ValidationError{Message: "Model number must be 100 characters or less"}
	}
	return nil
}

// Service 工具录入服务
// 负责编排校验、照片上传与仓库写入，并定义各步骤失败时的一致性行为
type Service struct {
	repo   *toolsrepo.Repository
	photos PhotoStore
}

// NewService 创建工具录入服务
func NewService(repo *toolsrepo.Repository, photos PhotoStore) *Service {
	return &Service{
		repo:   repo,
		photos: photos,
	}
}

// Create 创建工具记录
// 固定顺序：校验 -> 照片上传 -> 仓库写入。照片先于记录写入，
// 保证已提交的记录绝不引用不存在的对象；写库失败时已上传的
// 照片会成为孤儿对象，这是可接受的取舍，不做自动回收。
func (s *Service) Create(ctx context.Context, userID uint, in Input) (*models.Tool, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var photoURL *string
	if len(in.Photo) > 0 {
		url, err := s.photos.Upload(ctx, userID, in.Photo, in.PhotoMime)
		if err != nil {
			// 上传失败时中止，不尝试写库
			return nil, err
		}
		photoURL = &url
	}

	tool := &models.Tool{
		Identifier:  uuid.New().String(),
		UserID:      userID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Category:    models.Category(in.Category),
		ModelNumber: strings.TrimSpace(in.ModelNumber),
		PhotoURL:    photoURL,
	}

	if err := s.repo.WithContext(ctx).Create(tool); err != nil {
		return nil, fmt.Errorf("failed to create tool: %w", err)
	}

	return tool, nil
}

// Update 更新工具记录
// 先按 (identifier, user_id) 取出现有记录完成授权；新照片在删除旧照片
// 之前上传，旧照片只在仓库更新提交之后删除，尽量缩小记录引用
// 即将被删除对象的窗口。过渡期间允许新旧对象短暂并存。
func (s *Service) Update(ctx context.Context, userID uint, identifier string, in Input) (*models.Tool, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.WithContext(ctx).GetByIdentifierAndUser(identifier, userID)
	if err != nil {
		return nil, err
	}

	newPhotoURL := existing.PhotoURL
	uploadedNew := false
	if len(in.Photo) > 0 {
		url, uploadErr := s.photos.Upload(ctx, userID, in.Photo, in.PhotoMime)
		if uploadErr != nil {
			return nil, uploadErr
		}
		newPhotoURL = &url
		uploadedNew = true
	}

	updates := map[string]interface{}{
		"name":        strings.TrimSpace(in.Name),
		"description": strings.TrimSpace(in.Description),
		"category":    models.Category(in.Category),
		"model":       strings.TrimSpace(in.ModelNumber),
		"photo_url":   newPhotoURL,
	}

	updated, err := s.repo.WithContext(ctx).UpdateByIdentifierAndUser(identifier, userID, updates)
	if err != nil {
		// 新照片已上传但未被任何记录引用，作为孤儿对象接受
		return nil, err
	}

	if uploadedNew && existing.PhotoURL != nil {
		s.photos.Delete(ctx, *existing.PhotoURL)
	}

	return updated, nil
}

// Delete 删除工具记录
// 记录删除是权威操作；照片清理尽力而为，失败只留日志，
// 绝不导致已删除的工具记录重新出现。
func (s *Service) Delete(ctx context.Context, userID uint, identifier string) error {
	tool, err := s.repo.WithContext(ctx).GetByIdentifierAndUser(identifier, userID)
	if err != nil {
		return err
	}

	if err := s.repo.WithContext(ctx).DeleteByIdentifierAndUser(identifier, userID); err != nil {
		return err
	}

	if tool.PhotoURL != nil {
		s.photos.Delete(ctx, *tool.PhotoURL)
	}

	return nil
}

// ListMine 获取当前用户自己的工具列表
func (s *Service) ListMine(ctx context.Context, userID uint, page, pageSize int) ([]*models.Tool, int64, error) {
	return s.repo.WithContext(ctx).ListByUser(userID, page, pageSize)
}

// Get 获取单个工具（公开浏览路径）
func (s *Service) Get(ctx context.Context, identifier string) (*models.Tool, error) {
	return s.repo.WithContext(ctx).GetByIdentifier(identifier)
}

// List 获取工具列表
// 两段式过滤：存储层做大小写不敏感的子串匹配，分类筛选
// 在内存中对已取回的结果集做二次过滤。
func (s *Service) List(ctx context.Context, searchTerm, category string, page, pageSize int) ([]*models.Tool, int64, error) {
	if category == "" {
		return s.repo.WithContext(ctx).List(searchTerm, page, pageSize)
	}

	// 分类筛选在内存中进行，需要先取回全量匹配结果再分页
	toolList, _, err := s.repo.WithContext(ctx).List(searchTerm, 0, 0)
	if err != nil {
		return nil, 0, err
	}

	toolList = search.FilterByCategory(toolList, models.Category(category))
	total := int64(len(toolList))

	if pageSize > 0 {
		if page < 1 {
			page = 1
		}
		start := (page - 1) * pageSize
		if start >= len(toolList) {
			return []*models.Tool{}, total, nil
		}
		end := start + pageSize
		if end > len(toolList) {
			end = len(toolList)
		}
		toolList = toolList[start:end]
	}

	return toolList, total, nil
}
