package accounts

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/harane/toolshed/database/models"
	"gorm.io/gorm"
)

// DeviceRepository 设备仓库 - 封装刷新令牌相关的数据库操作
type DeviceRepository struct {
	db *gorm.DB
}

// NewDeviceRepository 创建新的设备仓库
func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// hashToken 刷新令牌只存哈希
func hashToken(token string) string {
	hasher := sha256.New()
	hasher.Write([]byte(token))
	return hex.EncodeToString(hasher.Sum(nil))
}

// CreateLoginDevice 创建设备登录记录
func (r *DeviceRepository) CreateLoginDevice(userID uint, deviceID string, refreshToken string, refreshTokenExpiry time.Time) error {
	device := &models.Device{
		UserID:       userID,
		RefreshToken: hashToken(refreshToken),
		Expiry:       refreshTokenExpiry,
		DeviceID:     deviceID,
	}
	return r.db.Create(device).Error
}

// GetDeviceByRefreshTokenAndDeviceID 通过刷新令牌和设备ID获取设备
func (r *DeviceRepository) GetDeviceByRefreshTokenAndDeviceID(refreshToken string, deviceID string) (*models.Device, error) {
	var device models.Device
	err := r.db.Where("refresh_token = ? AND device_id = ? AND expiry > ?", hashToken(refreshToken), deviceID, time.Now()).First(&device).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &device, nil
}

// RotateRefreshToken 轮换刷新令牌
func (r *DeviceRepository) RotateRefreshToken(userID uint, deviceID, newRefreshToken string, newRefreshTokenExpiry time.Time) error {
	result := r.db.Model(&models.Device{}).
		Where("user_id = ? AND device_id = ?", userID, deviceID).
		Updates(map[string]interface{}{
			"refresh_token": hashToken(newRefreshToken),
			"expiry":        newRefreshTokenExpiry,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteDevice 删除设备登录记录
func (r *DeviceRepository) DeleteDevice(deviceID string) error {
	return r.db.Where("device_id = ?", deviceID).Delete(&models.Device{}).Error
}

// DeleteExpiredDevices 清理过期的设备记录
func (r *DeviceRepository) DeleteExpiredDevices() (int64, error) {
	result := r.db.Where("expiry <= ?", time.Now()).Delete(&models.Device{})
	return result.RowsAffected, result.Error
}
