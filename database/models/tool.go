package models

import (
	"gorm.io/gorm"
)

// Category 工具分类，固定枚举
type Category string

const (
	CategoryPowerTools Category = "Power Tools"
	CategoryHandTools  Category = "Hand Tools"
	CategoryGarden     Category = "Garden"
	CategoryLadders    Category = "Ladders"
	CategoryAutomotive Category = "Automotive"
	CategoryCleaning   Category = "Cleaning"
	CategoryOther      Category = "Other"
)

// Categories 返回全部合法分类
func Categories() []Category {
	return []Category{
		CategoryPowerTools,
		CategoryHandTools,
		CategoryGarden,
		CategoryLadders,
		CategoryAutomotive,
		CategoryCleaning,
		CategoryOther,
	}
}

// IsValid 检查分类是否为合法枚举值
func (c Category) IsValid() bool {
	switch c {
	case CategoryPowerTools, CategoryHandTools, CategoryGarden,
		CategoryLadders, CategoryAutomotive, CategoryCleaning, CategoryOther:
		return true
	}
	return false
}

type Tool struct {
	gorm.Model
	Identifier string `gorm:"uniqueIndex:idx_tool_identifier;not null"`

	// 所有权在创建后不可变，所有可变操作必须同时按 (identifier, user_id) 过滤
	UserID uint `gorm:"index:idx_tool_user_created_at,priority:1;not null"`
	User   User `gorm:"foreignKey:UserID"`

	Name        string   `gorm:"type:varchar(255);not null"`
	Description string   `gorm:"type:text"`
	Category    Category `gorm:"type:varchar(32);not null;index"`
	ModelNumber string   `gorm:"column:model;type:varchar(100)"`

	// PhotoURL 为空表示无照片；非空时指向存储中的对象
	PhotoURL *string `gorm:"type:varchar(512)"`
}
