package tools

import (
	"context"
	"errors"
	"strings"

	"github.com/harane/toolshed/database/models"
	"gorm.io/gorm"
)

// ErrToolNotFound 工具不存在或不属于该用户。两种情况刻意不作区分，
// 避免通过错误信息探测他人工具的存在性。
var ErrToolNotFound = errors.New("tool not found")

// Repository 工具仓库
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建新的工具仓库
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create 保存工具记录
func (r *Repository) Create(tool *models.Tool) error {
	return r.db.Create(tool).Error
}

// GetByIdentifier 通过标识符获取工具（公开浏览路径，附带所有者摘要）
func (r *Repository) GetByIdentifier(identifier string) (*models.Tool, error) {
	var tool models.Tool
	err := r.db.Preload("User").Where("identifier = ?", identifier).First(&tool).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrToolNotFound
		}
		return nil, err
	}
	return &tool, nil
}

// GetByIdentifierAndUser 通过标识符和用户ID获取工具
func (r *Repository) GetByIdentifierAndUser(identifier string, userID uint) (*models.Tool, error) {
	var tool models.Tool
	err := r.db.Where("identifier = ? AND user_id = ?", identifier, userID).First(&tool).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrToolNotFound
		}
		return nil, err
	}
	return &tool, nil
}

// UpdateByIdentifierAndUser 按 (identifier, user_id) 更新工具并返回更新后的记录
func (r *Repository) UpdateByIdentifierAndUser(identifier string, userID uint, updates map[string]interface{}) (*models.Tool, error) {
	result := r.db.Model(&models.Tool{}).
		Where("identifier = ? AND user_id = ?", identifier, userID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrToolNotFound
	}
	return r.GetByIdentifierAndUser(identifier, userID)
}

// DeleteByIdentifierAndUser 按 (identifier, user_id) 删除工具
func (r *Repository) DeleteByIdentifierAndUser(identifier string, userID uint) error {
	if identifier == "" {
		return ErrToolNotFound
	}

	result := r.db.Where("identifier = ? AND user_id = ?", identifier, userID).Delete(&models.Tool{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrToolNotFound
	}
	return nil
}

// List 获取工具列表，按创建时间倒序
// search 为大小写不敏感的子串匹配，作用于 name 或 description；
// 分类过滤不下推到这里，由上层在内存中做二次筛选。
func (r *Repository) List(search string, page, pageSize int) ([]*models.Tool, int64, error) {
	var toolList []*models.Tool
	var total int64

	db := r.db.Model(&models.Tool{})
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Preload("User").Order("created_at desc")
	if pageSize > 0 {
		offset := (page - 1) * pageSize
		if offset < 0 {
			offset = 0
		}
		db = db.Offset(offset).Limit(pageSize)
	}

	err := db.Find(&toolList).Error
	return toolList, total, err
}

// ListByUser 获取某个用户的工具列表
func (r *Repository) ListByUser(userID uint, page, pageSize int) ([]*models.Tool, int64, error) {
	var toolList []*models.Tool
	var total int64

	db := r.db.Model(&models.Tool{}).Where("user_id = ?", userID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}
	err := db.Order("created_at desc").Offset(offset).Limit(pageSize).Find(&toolList).Error
	return toolList, total, err
}

// WithContext 返回带上下文的仓库
func (r *Repository) WithContext(ctx context.Context) *Repository {
	return &Repository{db: r.db.WithContext(ctx)}
}
