package search

import "github.com/harane/toolshed/database/models"

// FilterByCategory 按分类过滤工具列表
// 分类集合小且固定，列表在取回后于内存中过滤即可
func FilterByCategory(tools []*models.Tool, category models.Category) []*models.Tool {
	if category == "" {
		return tools
	}
	filtered := make([]*models.Tool, 0, len(tools))
	for _, tool := range tools {
		if tool.Category == category {
			filtered = append(filtered, tool)
		}
	}
	return filtered
}
