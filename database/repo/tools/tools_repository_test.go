package tools

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harane/toolshed/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB 创建测试数据库，每个测试使用独立的内存库
func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	// 自动迁移
	err = db.AutoMigrate(&models.User{}, &models.Tool{})
	require.NoError(t, err)

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	user := &models.User{
		Username:    username,
		Password:    "hashed",
		DisplayName: "Test User",
		Address:     "123 Main St",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newTool(userID uint, name string) *models.Tool {
	return &models.Tool{
		Identifier: uuid.New().String(),
		UserID:     userID,
		Name:       name,
		Category:   models.CategoryHandTools,
	}
}

// TestCreateAndGetByIdentifier 测试创建后按标识符读取
func TestCreateAndGetByIdentifier(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	user := createTestUser(t, db, "alice")

	tool := newTool(user.ID, "Cordless Drill")
	tool.Description = "18V with two batteries"
	require.NoError(t, repo.Create(tool))

	got, err := repo.GetByIdentifier(tool.Identifier)
	require.NoError(t, err)
	assert.Equal(t, "Cordless Drill", got.Name)
	assert.Equal(t, models.CategoryHandTools, got.Category)
	// 公开读取应附带所有者信息
	assert.Equal(t, "alice", got.User.Username)
}

// TestGetByIdentifier_NotFound 测试读取不存在的工具
func TestGetByIdentifier_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	_, err := repo.GetByIdentifier("no-such-identifier")
	assert.ErrorIs(t, err, ErrToolNotFound)
}

// TestGetByIdentifierAndUser_WrongOwner 其他用户的工具不可见
func TestGetByIdentifierAndUser_WrongOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")

	tool := newTool(owner.ID, "Circular Saw")
	require.NoError(t, repo.Create(tool))

	_, err := repo.GetByIdentifierAndUser(tool.Identifier, other.ID)
	assert.ErrorIs(t, err, ErrToolNotFound)

	got, err := repo.GetByIdentifierAndUser(tool.Identifier, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, tool.Identifier, got.Identifier)
}

// TestUpdateByIdentifierAndUser 更新只对所有者生效
func TestUpdateByIdentifierAndUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")

	tool := newTool(owner.ID, "Hedge Trimmer")
	require.NoError(t, repo.Create(tool))
	// 新记录两个时间戳一致
	assert.True(t, tool.UpdatedAt.Equal(tool.CreatedAt))

	updates := map[string]interface{}{
		"name":     "Electric Hedge Trimmer",
		"category": models.CategoryGarden,
	}

	// 非所有者更新返回 not found
	_, err := repo.UpdateByIdentifierAndUser(tool.Identifier, other.ID, updates)
	assert.ErrorIs(t, err, ErrToolNotFound)

	time.Sleep(10 * time.Millisecond)

	// 所有者更新成功并返回新值
	updated, err := repo.UpdateByIdentifierAndUser(tool.Identifier, owner.ID, updates)
	require.NoError(t, err)
	assert.Equal(t, "Electric Hedge Trimmer", updated.Name)
	assert.Equal(t, models.CategoryGarden, updated.Category)
	// 每次写入都刷新 updated_at
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
}

// TestUpdate_ClearPhotoURL 更新可以把照片置空
func TestUpdate_ClearPhotoURL(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	owner := createTestUser(t, db, "owner")

	photoURL := "http://localhost:8080/photos/1/123.jpg"
	tool := newTool(owner.ID, "Shop Vac")
	tool.PhotoURL = &photoURL
	require.NoError(t, repo.Create(tool))

	updated, err := repo.UpdateByIdentifierAndUser(tool.Identifier, owner.ID, map[string]interface{}{
		"photo_url": nil,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.PhotoURL)
}

// TestDeleteByIdentifierAndUser 删除只对所有者生效
func TestDeleteByIdentifierAndUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")

	tool := newTool(owner.ID, "Ladder")
	require.NoError(t, repo.Create(tool))

	assert.ErrorIs(t, repo.DeleteByIdentifierAndUser(tool.Identifier, other.ID), ErrToolNotFound)
	require.NoError(t, repo.DeleteByIdentifierAndUser(tool.Identifier, owner.ID))

	_, err := repo.GetByIdentifier(tool.Identifier)
	assert.ErrorIs(t, err, ErrToolNotFound)

	// 重复删除同样返回 not found
	assert.ErrorIs(t, repo.DeleteByIdentifierAndUser(tool.Identifier, owner.ID), ErrToolNotFound)
}

// TestList_SearchCaseInsensitive 搜索大小写不敏感，匹配名称或描述
func TestList_SearchCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	user := createTestUser(t, db, "alice")

	drill := newTool(user.ID, "Cordless Drill")
	require.NoError(t, repo.Create(drill))

	saw := newTool(user.ID, "Table Saw")
	saw.Description = "Includes spare drill bits"
	require.NoError(t, repo.Create(saw))

	mower := newTool(user.ID, "Lawn Mower")
	require.NoError(t, repo.Create(mower))

	results, total, err := repo.List("DRILL", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, results, 2)
}

// TestList_OrderedByNewest 列表按创建时间倒序
func TestList_OrderedByNewest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	user := createTestUser(t, db, "alice")

	older := newTool(user.ID, "Older Tool")
	require.NoError(t, repo.Create(older))
	require.NoError(t, db.Model(older).Update("created_at", time.Now().Add(-time.Hour)).Error)

	newer := newTool(user.ID, "Newer Tool")
	require.NoError(t, repo.Create(newer))

	results, total, err := repo.List("", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, results, 2)
	assert.Equal(t, "Newer Tool", results[0].Name)
	assert.Equal(t, "Older Tool", results[1].Name)
}

// TestList_Pagination 分页返回正确的切片与总数
func TestList_Pagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	user := createTestUser(t, db, "alice")

	for i := 0; i < 5; i++ {
		tool := newTool(user.ID, "Tool")
		require.NoError(t, repo.Create(tool))
	}

	page1, total, err := repo.List("", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page1, 2)

	page3, total, err := repo.List("", 3, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page3, 1)
}

// TestListByUser 只返回指定用户的工具
func TestListByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, repo.Create(newTool(alice.ID, "Drill")))
	require.NoError(t, repo.Create(newTool(alice.ID, "Saw")))
	require.NoError(t, repo.Create(newTool(bob.ID, "Mower")))

	results, total, err := repo.ListByUser(alice.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, results, 2)
	for _, tool := range results {
		assert.Equal(t, alice.ID, tool.UserID)
	}
}
