package utils

import "log"

// SafeGo 启动拦截 panic 的 goroutine
// 用于限流器清理等后台任务，panic 只记日志不拖垮进程
func SafeGo(fn func()) {
	go func() {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[SafeGo] panic recovered: %v", err)
			}
		}()
		fn()
	}()
}
