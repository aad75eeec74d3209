package models

import "time"

// GalerieBlackList 相册级黑名单
// 创建时在同一事务内删除目标的 GalerieUser 成员关系；
// 解除封禁删除本行，但不恢复成员关系
type GalerieBlackList struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	UUID      string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	GalerieID uint    `gorm:"uniqueIndex:idx_galerie_black_list;not null" json:"-"`
	Galerie   Galerie `gorm:"foreignKey:GalerieID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    uint    `gorm:"uniqueIndex:idx_galerie_black_list;not null" json:"-"`
	User      User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	// 封禁操作人；离开相册或账号被删除时置空，保留封禁本身
	CreatedByID *uint `json:"-"`
	CreatedBy   *User `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"createdBy,omitempty"`
}
