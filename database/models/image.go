package models

import "time"

// Image 对象存储中一个图片对象的元数据
// SignedURL 渲染时生成，不落库
type Image struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	UUID      string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	BucketName string `gorm:"type:varchar(63);not null" json:"-"`
	FileName   string `gorm:"type:varchar(255);not null" json:"fileName"`
	Format     string `gorm:"type:varchar(10);not null" json:"format"`
	Width      int    `gorm:"not null" json:"width"`
	Height     int    `gorm:"not null" json:"height"`
	Size       int64  `gorm:"not null" json:"size"`

	SignedURL string `gorm:"-" json:"signedUrl,omitempty"`
}
