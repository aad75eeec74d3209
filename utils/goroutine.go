package utils

import "log"

// SafeGo 在拦截 panic 的 goroutine 中执行后台任务（邮件发送、桶对象清理）
func SafeGo(task func()) {
	go func() {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[SafeGo] panic recovered: %v", err)
			}
		}()
		task()
	}()
}
