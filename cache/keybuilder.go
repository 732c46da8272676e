package cache

import "fmt"

// ToolListKey 工具列表缓存键，包含版本号与全部查询参数
func ToolListKey(version int64, search, category string, page, pageSize int) string {
	return fmt.Sprintf("tools:list:v%d:%s:%s:%d:%d", version, search, category, page, pageSize)
}

// ToolListVersionKey 工具列表版本号键，任何工具变更时自增使列表缓存整体失效
func ToolListVersionKey() string {
	return "tools:list:version"
}
