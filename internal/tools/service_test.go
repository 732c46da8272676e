package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/harane/toolshed/database/models"
	toolsrepo "github.com/harane/toolshed/database/repo/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakePhotoStore 记录上传与删除调用顺序的照片存储
type fakePhotoStore struct {
	uploadErr error
	uploads   int
	deleted   []string
	calls     []string
}

func (f *fakePhotoStore) Upload(ctx context.Context, ownerID uint, data []byte, mimeType string) (string, error) {
	f.calls = append(f.calls, "upload")
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploads++
	return fmt.Sprintf("http://localhost:8080/photos/%d/%d.jpg", ownerID, f.uploads), nil
}

func (f *fakePhotoStore) Delete(ctx context.Context, photoURL string) {
	f.calls = append(f.calls, "delete")
	f.deleted = append(f.deleted, photoURL)
}

func setupService(t *testing.T) (*Service, *fakePhotoStore, *gorm.DB) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Tool{}))

	user := &models.User{Username: "alice", Password: "x", DisplayName: "Alice", Address: "1 Main St"}
	require.NoError(t, db.Create(user).Error)

	store := &fakePhotoStore{}
	return NewService(toolsrepo.NewRepository(db), store), store, db
}

func validInput() Input {
	return Input{
		Name:     "Cordless Drill",
		Category: string(models.CategoryPowerTools),
	}
}

// TestCreate_Success 创建成功并生成标识符
func TestCreate_Success(t *testing.T) {
	svc, _, _ := setupService(t)

	tool, err := svc.Create(context.Background(), 1, validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, tool.Identifier)
	assert.Equal(t, uint(1), tool.UserID)
	assert.Nil(t, tool.PhotoURL)
}

// TestCreate_WithPhoto 照片上传先于记录写入
func TestCreate_WithPhoto(t *testing.T) {
	svc, _, _ := setupService(t)

	input := validInput()
	input.Photo = []byte("jpeg-bytes")
	input.PhotoMime = "image/jpeg"

	tool, err := svc.Create(context.Background(), 1, input)
	require.NoError(t, err)
	require.NotNil(t, tool.PhotoURL)
	assert.Contains(t, *tool.PhotoURL, "/photos/1/")
}

// TestCreate_ValidationBeforeSideEffects 校验失败时不上传照片
func TestCreate_ValidationBeforeSideEffects(t *testing.T) {
	svc, store, _ := setupService(t)

	input := validInput()
	input.Name = ""
	input.Photo = []byte("jpeg-bytes")
	input.PhotoMime = "image/jpeg"

	_, err := svc.Create(context.Background(), 1, input)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, "Tool name is required", err.Error())
	assert.Empty(t, store.calls)
}

// TestCreate_ValidationMessages 校验消息与字段约束一致
func TestCreate_ValidationMessages(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	cases := []struct {
		mutate  func(*Input)
		message string
	}{
		{func(in *Input) { in.Name = strings.Repeat("x", 256) }, "Tool name must be 255 characters or less"},
		{func(in *Input) { in.Category = "" }, "Category is required"},
		{func(in *Input) { in.Category = "Kitchen" }, "Please select a category"},
		{func(in *Input) { in.Description = strings.Repeat("x", 5001) }, "Description must be 5000 characters or less"},
		{func(in *Input) { in.ModelNumber = strings.Repeat("x", 101) }, "Model number must be 100 characters or less"},
	}

	for _, tc := range cases {
		input := validInput()
		tc.mutate(&input)
		_, err := svc.Create(ctx, 1, input)
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
		assert.Equal(t, tc.message, err.Error())
	}
}

// TestCreate_AcceptsExactLimits 恰好达到长度上限的字段被接受
func TestCreate_AcceptsExactLimits(t *testing.T) {
	svc, _, _ := setupService(t)

	input := validInput()
	input.Name = strings.Repeat("x", 255)
	input.Description = strings.Repeat("y", 5000)
	input.ModelNumber = strings.Repeat("z", 100)

	tool, err := svc.Create(context.Background(), 1, input)
	require.NoError(t, err)
	assert.Len(t, tool.Name, 255)
	assert.Len(t, tool.Description, 5000)
	assert.Len(t, tool.ModelNumber, 100)
}

// TestCreate_LimitsCountRunes 长度按字符计而非字节
func TestCreate_LimitsCountRunes(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	// 多字节字符恰好 255 个应被接受
	input := validInput()
	input.Name = strings.Repeat("锯", 255)
	input.Description = strings.Repeat("锯", 5000)
	_, err := svc.Create(ctx, 1, input)
	require.NoError(t, err)

	input = validInput()
	input.Name = strings.Repeat("锯", 256)
	_, err = svc.Create(ctx, 1, input)
	require.Error(t, err)
	assert.Equal(t, "Tool name must be 255 characters or less", err.Error())
}

// TestCreate_LimitsMeasureTrimmedValue 长度针对裁剪后入库的值
func TestCreate_LimitsMeasureTrimmedValue(t *testing.T) {
	svc, _, _ := setupService(t)

	input := validInput()
	input.Description = strings.Repeat("y", 5000) + " "

	tool, err := svc.Create(context.Background(), 1, input)
	require.NoError(t, err)
	assert.Len(t, tool.Description, 5000)
}

// TestCreate_Timestamps 新记录的 updated_at 与 created_at 相同
func TestCreate_Timestamps(t *testing.T) {
	svc, _, _ := setupService(t)

	tool, err := svc.Create(context.Background(), 1, validInput())
	require.NoError(t, err)
	assert.False(t, tool.CreatedAt.IsZero())
	assert.True(t, tool.UpdatedAt.Equal(tool.CreatedAt))
}

// TestUpdate_RefreshesUpdatedAt 更新后 updated_at 晚于 created_at
func TestUpdate_RefreshesUpdatedAt(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, validInput())
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	update := validInput()
	update.Name = "Renamed Drill"
	updated, err := svc.Update(ctx, 1, created.Identifier, update)
	require.NoError(t, err)

	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
	// created_at 在更新时保持不变
	assert.WithinDuration(t, created.CreatedAt, updated.CreatedAt, time.Second)
}

// TestCreate_UploadFailureAborts 照片上传失败时不写库
func TestCreate_UploadFailureAborts(t *testing.T) {
	svc, store, db := setupService(t)
	store.uploadErr = errors.New("storage down")

	input := validInput()
	input.Photo = []byte("jpeg-bytes")
	input.PhotoMime = "image/jpeg"

	_, err := svc.Create(context.Background(), 1, input)
	require.Error(t, err)

	var count int64
	db.Model(&models.Tool{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

// TestUpdate_ReplacePhoto 新照片上传成功后才删除旧照片
func TestUpdate_ReplacePhoto(t *testing.T) {
	svc, store, _ := setupService(t)
	ctx := context.Background()

	input := validInput()
	input.Photo = []byte("old-photo")
	input.PhotoMime = "image/jpeg"
	created, err := svc.Create(ctx, 1, input)
	require.NoError(t, err)
	oldURL := *created.PhotoURL

	update := validInput()
	update.Name = "Updated Drill"
	update.Photo = []byte("new-photo")
	update.PhotoMime = "image/jpeg"

	updated, err := svc.Update(ctx, 1, created.Identifier, update)
	require.NoError(t, err)
	assert.Equal(t, "Updated Drill", updated.Name)
	require.NotNil(t, updated.PhotoURL)
	assert.NotEqual(t, oldURL, *updated.PhotoURL)

	// 旧照片在更新提交之后删除
	require.Len(t, store.deleted, 1)
	assert.Equal(t, oldURL, store.deleted[0])
	assert.Equal(t, []string{"upload", "upload", "delete"}, store.calls)
}

// TestUpdate_KeepsPhotoWhenNoneProvided 未提交新照片时保留旧照片
func TestUpdate_KeepsPhotoWhenNoneProvided(t *testing.T) {
	svc, store, _ := setupService(t)
	ctx := context.Background()

	input := validInput()
	input.Photo = []byte("photo")
	input.PhotoMime = "image/jpeg"
	created, err := svc.Create(ctx, 1, input)
	require.NoError(t, err)

	update := validInput()
	update.Name = "Renamed"

	updated, err := svc.Update(ctx, 1, created.Identifier, update)
	require.NoError(t, err)
	require.NotNil(t, updated.PhotoURL)
	assert.Equal(t, *created.PhotoURL, *updated.PhotoURL)
	assert.Empty(t, store.deleted)
}

// TestUpdate_WrongOwner 非所有者更新返回 not found
func TestUpdate_WrongOwner(t *testing.T) {
	svc, store, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, validInput())
	require.NoError(t, err)

	update := validInput()
	update.Photo = []byte("photo")
	update.PhotoMime = "image/jpeg"

	_, err = svc.Update(ctx, 2, created.Identifier, update)
	assert.ErrorIs(t, err, toolsrepo.ErrToolNotFound)
	// 授权检查先于照片上传
	assert.Empty(t, store.calls)
}

// TestDelete_RecordFirstThenPhoto 记录删除成功后才清理照片
func TestDelete_RecordFirstThenPhoto(t *testing.T) {
	svc, store, db := setupService(t)
	ctx := context.Background()

	input := validInput()
	input.Photo = []byte("photo")
	input.PhotoMime = "image/jpeg"
	created, err := svc.Create(ctx, 1, input)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1, created.Identifier))

	var count int64
	db.Model(&models.Tool{}).Count(&count)
	assert.Equal(t, int64(0), count)
	require.Len(t, store.deleted, 1)
	assert.Equal(t, *created.PhotoURL, store.deleted[0])
}

// TestDelete_WrongOwner 非所有者删除返回 not found 且不触碰照片
func TestDelete_WrongOwner(t *testing.T) {
	svc, store, _ := setupService(t)
	ctx := context.Background()

	input := validInput()
	input.Photo = []byte("photo")
	input.PhotoMime = "image/jpeg"
	created, err := svc.Create(ctx, 1, input)
	require.NoError(t, err)

	err = svc.Delete(ctx, 2, created.Identifier)
	assert.ErrorIs(t, err, toolsrepo.ErrToolNotFound)
	assert.Empty(t, store.deleted)
}

// TestList_CategoryFacet 分类筛选在内存中进行
func TestList_CategoryFacet(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	drill := validInput()
	_, err := svc.Create(ctx, 1, drill)
	require.NoError(t, err)

	rake := validInput()
	rake.Name = "Garden Rake"
	rake.Category = string(models.CategoryGarden)
	_, err = svc.Create(ctx, 1, rake)
	require.NoError(t, err)

	all, total, err := svc.List(ctx, "", "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	garden, total, err := svc.List(ctx, "", string(models.CategoryGarden), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, garden, 1)
	assert.Equal(t, "Garden Rake", garden[0].Name)
}
