package database

import "gorm.io/gorm"

// DefaultPageSize 列表接口默认页大小
const DefaultPageSize = 20

// CursorScope 基于自增主键的游标分页
// previous 为上一页最后一项的 autoIncrementId；0 表示从头开始。
// 按 id 倒序返回，翻页取 id < previous，无重叠无空洞
func CursorScope(previous uint, pageSize int) func(*gorm.DB) *gorm.DB {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return func(db *gorm.DB) *gorm.DB {
		if previous > 0 {
			db = db.Where("id < ?", previous)
		}
		return db.Order("id desc").Limit(pageSize)
	}
}
