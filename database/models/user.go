package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username    string `gorm:"uniqueIndex;not null" json:"username"`
	Password    string `gorm:"not null" json:"-"`
	DisplayName string `gorm:"type:varchar(255);not null" json:"display_name"`
	Address     string `gorm:"type:varchar(1000)" json:"address"`
	PhoneNumber string `gorm:"type:varchar(32)" json:"phone_number"`
}
