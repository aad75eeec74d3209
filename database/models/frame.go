package models

import "time"

// Frame 相册中的一条图片帖，持有一组有序的 GaleriePicture
type Frame struct {
	// ID 同时作为分页游标（autoIncrementId）对外暴露
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"autoIncrementId"`
	UUID      string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	GalerieID uint    `gorm:"index;not null" json:"-"`
	Galerie   Galerie `gorm:"foreignKey:GalerieID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    uint    `gorm:"index;not null" json:"-"`
	User      User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	Description string `gorm:"type:varchar(200)" json:"description"`

	// NumOfLikes 只允许通过行级原子自增/自减更新
	NumOfLikes int64 `gorm:"default:0;not null" json:"numOfLikes"`

	GaleriePictures []GaleriePicture `gorm:"foreignKey:FrameID" json:"galeriePictures"`
}
