package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockingClause 返回行级写锁子句，用于事务内的读改写
func LockingClause() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

// IsUniqueViolation 判断错误是否为唯一索引冲突。
// 同时覆盖 PostgreSQL 和 SQLite 两种驱动的报错文案。
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
