package tools

import (
	"context"
	"time"

	"github.com/harane/toolshed/cache"
	"github.com/harane/toolshed/database/models"
	toolsvc "github.com/harane/toolshed/internal/tools"
)

// Handler 工具处理器
type Handler struct {
	toolService   *toolsvc.Service
	cacheProvider cache.Provider
	listTTL       time.Duration
	maxPhotoSize  int64

	searchDebounceInterval time.Duration
}

// NewHandler 创建工具处理器
func NewHandler(toolService *toolsvc.Service, cacheProvider cache.Provider, listTTL, searchDebounceInterval time.Duration, maxPhotoSize int64) *Handler {
	return &Handler{
		toolService:            toolService,
		cacheProvider:          cacheProvider,
		listTTL:                listTTL,
		maxPhotoSize:           maxPhotoSize,
		searchDebounceInterval: searchDebounceInterval,
	}
}

// toolView 工具的对外 JSON 形态
type toolView struct {
	Identifier  string     `json:"identifier"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category"`
	Model       *string    `json:"model,omitempty"`
	PhotoURL    *string    `json:"photo_url,omitempty"`
	Owner       *ownerView `json:"owner,omitempty"`
	CreatedAt   int64      `json:"created_at"`
}

type ownerView struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

func viewOf(tool *models.Tool) toolView {
	view := toolView{
		Identifier:  tool.Identifier,
		Name:        tool.Name,
		Description: tool.Description,
		Category:    string(tool.Category),
		PhotoURL:    tool.PhotoURL,
		CreatedAt:   tool.CreatedAt.Unix(),
	}
	if tool.ModelNumber != "" {
		model := tool.ModelNumber
		view.Model = &model
	}
	if tool.User.ID != 0 {
		view.Owner = &ownerView{
			Username: tool.User.Username,
			FullName: tool.User.DisplayName,
		}
	}
	return view
}

func viewsOf(tools []*models.Tool) []toolView {
	views := make([]toolView, 0, len(tools))
	for _, tool := range tools {
		views = append(views, viewOf(tool))
	}
	return views
}

// listVersion 读取列表缓存版本号
// 未初始化时为 0，与首次 Increment 产生的 1 错开，
// 保证首次变更也能使此前缓存的列表失效
func (h *Handler) listVersion(ctx context.Context) int64 {
	if h.cacheProvider == nil {
		return 0
	}
	var version int64
	err := h.cacheProvider.Get(ctx, cache.ToolListVersionKey(), &version)
	if err != nil {
		return 0
	}
	return version
}

// bumpListVersion 原子自增版本号，使所有列表缓存失效
// 并发变更各自拿到不同的新版本，不会互相覆盖
func (h *Handler) bumpListVersion(ctx context.Context) {
	if h.cacheProvider == nil {
		return
	}
	// 版本号常驻，不设过期
	_, _ = h.cacheProvider.Increment(ctx, cache.ToolListVersionKey())
}
