package models

import "time"

// Invitation 相册邀请码
type Invitation struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	UUID      string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	GalerieID uint    `gorm:"index;not null" json:"-"`
	Galerie   Galerie `gorm:"foreignKey:GalerieID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    uint    `gorm:"index;not null" json:"-"`
	User      User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	Code string `gorm:"type:varchar(10);uniqueIndex;not null" json:"code"`

	// Time 有效时长（毫秒），nil 表示不过期
	Time *int64 `json:"time"`
	// NumOfInvits 剩余可用次数，nil 表示不限次
	NumOfInvits *int `json:"numOfInvits"`
}

// UsableAt 判断邀请码在给定时刻是否仍可使用
func (i *Invitation) UsableAt(now time.Time) bool {
	if i.NumOfInvits != nil && *i.NumOfInvits <= 0 {
		return false
	}
	if i.Time != nil {
		exp := i.CreatedAt.Add(time.Duration(*i.Time) * time.Millisecond)
		if !now.Before(exp) {
			return false
		}
	}
	return true
}
