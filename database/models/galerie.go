package models

import "time"

type Galerie struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"autoIncrementId"`
	UUID      string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	Name        string `gorm:"type:varchar(30);not null" json:"name"`
	Description string `gorm:"type:varchar(200)" json:"description"`

	// Archived 创建者账号被删除但仍有其他成员时软退役，不再可写
	Archived bool `gorm:"default:false;not null" json:"archived"`
}
