package models

import "time"

// ProfilePicture 用户头像，与 GaleriePicture 同样持有三个图片变体
type ProfilePicture struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	UUID      string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	UserID uint `gorm:"index;not null" json:"-"`
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	Current bool `gorm:"default:false;not null" json:"current"`

	OriginalImageID *uint  `json:"-"`
	OriginalImage   *Image `gorm:"foreignKey:OriginalImageID;constraint:OnDelete:SET NULL" json:"originalImage,omitempty"`
	CroppedImageID  *uint  `json:"-"`
	CroppedImage    *Image `gorm:"foreignKey:CroppedImageID;constraint:OnDelete:SET NULL" json:"croppedImage,omitempty"`
	PendingImageID  *uint  `json:"-"`
	PendingImage    *Image `gorm:"foreignKey:PendingImageID;constraint:OnDelete:SET NULL" json:"pendingImage,omitempty"`
}

// ImageIDs 返回所有非空的图片外键
func (p *ProfilePicture) ImageIDs() []uint {
	ids := make([]uint, 0, 3)
	for _, id := range []*uint{p.OriginalImageID, p.CroppedImageID, p.PendingImageID} {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return ids
}
