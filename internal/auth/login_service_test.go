package auth

import (
	"fmt"
	"testing"

	"github.com/harane/toolshed/api"
	"github.com/harane/toolshed/database/models"
	"github.com/harane/toolshed/database/repo/accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLoginService(t *testing.T) (*LoginService, *gorm.DB) {
	require.NoError(t, api.TokenInit("login-test-secret", "15m", "168h"))

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Device{}))

	accountsRepo := accounts.NewRepository(db)
	svc := NewLoginService(accountsRepo, accounts.NewDeviceRepository(db))

	// 预置用户
	accountSvc := NewAccountService(accountsRepo)
	_, err = accountSvc.Register("alice", "password123", ProfileInput{
		DisplayName: "Alice Smith",
		Address:     "1 Main St",
	})
	require.NoError(t, err)

	return svc, db
}

// TestLogin_Success 登录成功签发令牌并登记设备
func TestLogin_Success(t *testing.T) {
	svc, db := setupLoginService(t)

	result, err := svc.Login("alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice", result.User.Username)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.NotEmpty(t, result.DeviceID)

	// 访问令牌可解析且携带用户身份
	claims, err := api.Parse(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims["username"])

	var count int64
	db.Model(&models.Device{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

// TestLogin_WrongPassword 密码错误
func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := setupLoginService(t)

	_, err := svc.Login("alice", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// TestLogin_UnknownUser 未知用户与密码错误不可区分
func TestLogin_UnknownUser(t *testing.T) {
	svc, _ := setupLoginService(t)

	_, err := svc.Login("mallory", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// TestRefreshToken_Rotation 刷新后旧令牌立即失效
func TestRefreshToken_Rotation(t *testing.T) {
	svc, _ := setupLoginService(t)

	login, err := svc.Login("alice", "password123")
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(login.RefreshToken, login.DeviceID)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, login.DeviceID, refreshed.DeviceID)

	// 旧刷新令牌已被轮换
	_, err = svc.RefreshToken(login.RefreshToken, login.DeviceID)
	assert.Error(t, err)

	// 新令牌可继续使用
	_, err = svc.RefreshToken(refreshed.RefreshToken, refreshed.DeviceID)
	assert.NoError(t, err)
}

// TestRefreshToken_WrongDevice 令牌与设备不匹配
func TestRefreshToken_WrongDevice(t *testing.T) {
	svc, _ := setupLoginService(t)

	login, err := svc.Login("alice", "password123")
	require.NoError(t, err)

	_, err = svc.RefreshToken(login.RefreshToken, "other-device")
	assert.Error(t, err)
}

// TestLogout 登出后设备记录删除，刷新失败
func TestLogout(t *testing.T) {
	svc, db := setupLoginService(t)

	login, err := svc.Login("alice", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(login.DeviceID))

	var count int64
	db.Model(&models.Device{}).Count(&count)
	assert.Equal(t, int64(0), count)

	_, err = svc.RefreshToken(login.RefreshToken, login.DeviceID)
	assert.Error(t, err)
}

// TestValidateCredentials 凭据验证不泄露用户是否存在
func TestValidateCredentials(t *testing.T) {
	svc, _ := setupLoginService(t)

	user, ok, err := svc.ValidateCredentials("alice", "password123")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alice", user.Username)

	_, ok, err = svc.ValidateCredentials("alice", "nope-nope-nope")
	require.NoError(t, err)
	assert.False(t, ok)

	user, ok, err = svc.ValidateCredentials("nobody", "password123")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, user)
}
