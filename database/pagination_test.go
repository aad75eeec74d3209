package database

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type cursorRow struct {
	ID   uint `gorm:"primaryKey;autoIncrement"`
	Name string
}

func setupCursorDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&cursorRow{}))
	return db
}

func TestCursorScopePagination(t *testing.T) {
	db := setupCursorDB(t)
	for i := 1; i <= 45; i++ {
		require.NoError(t, db.Create(&cursorRow{Name: fmt.Sprintf("row%d", i)}).Error)
	}

	var seen []uint
	previous := uint(0)
	for {
		var page []cursorRow
		require.NoError(t, db.Scopes(CursorScope(previous, DefaultPageSize)).Find(&page).Error)
		if len(page) == 0 {
			break
		}
		assert.LessOrEqual(t, len(page), DefaultPageSize)
		for _, row := range page {
			seen = append(seen, row.ID)
		}
		previous = page[len(page)-1].ID
	}

	// 倒序、无重叠、无空洞地覆盖全部行
	require.Len(t, seen, 45)
	for i, id := range seen {
		assert.Equal(t, uint(45-i), id)
	}
}

func TestCursorScopeDefaults(t *testing.T) {
	db := setupCursorDB(t)
	for i := 1; i <= 5; i++ {
		require.NoError(t, db.Create(&cursorRow{Name: "x"}).Error)
	}

	// 非法页大小回退到默认值
	var page []cursorRow
	require.NoError(t, db.Scopes(CursorScope(0, -1)).Find(&page).Error)
	assert.Len(t, page, 5)
	assert.Equal(t, uint(5), page[0].ID)
}
