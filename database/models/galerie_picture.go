package models

import "time"

// GaleriePicture 帧内的一张图片，最多引用三个 Image 变体
// 裁剪变体由 worker 异步生成；pending 变体在生成完成后被替换
type GaleriePicture struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	UUID      string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	FrameID uint `gorm:"index;not null" json:"-"`
	// Index 列名取 position，避免撞上 SQLite 的保留字 index
	Index int `gorm:"column:position;default:0;not null" json:"index"`

	// Current 作为相册封面
	Current bool `gorm:"default:false;not null" json:"current"`

	OriginalImageID *uint  `json:"-"`
	OriginalImage   *Image `gorm:"foreignKey:OriginalImageID;constraint:OnDelete:SET NULL" json:"originalImage,omitempty"`
	CroppedImageID  *uint  `json:"-"`
	CroppedImage    *Image `gorm:"foreignKey:CroppedImageID;constraint:OnDelete:SET NULL" json:"croppedImage,omitempty"`
	PendingImageID  *uint  `json:"-"`
	PendingImage    *Image `gorm:"foreignKey:PendingImageID;constraint:OnDelete:SET NULL" json:"pendingImage,omitempty"`
}

// ImageIDs 返回所有非空的图片外键
func (p *GaleriePicture) ImageIDs() []uint {
	ids := make([]uint, 0, 3)
	for _, id := range []*uint{p.OriginalImageID, p.CroppedImageID, p.PendingImageID} {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return ids
}
