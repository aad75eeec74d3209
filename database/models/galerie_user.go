package models

import "time"

// 相册内角色常量，与全局角色相互独立
const (
	GalerieRoleUser      = "user"
	GalerieRoleModerator = "moderator"
	GalerieRoleAdmin     = "admin"
	GalerieRoleCreator   = "creator"
)

var galerieRoleRanks = map[string]int{
	GalerieRoleUser:      0,
	GalerieRoleModerator: 1,
	GalerieRoleAdmin:     2,
	GalerieRoleCreator:   3,
}

// GalerieRoleRank 返回相册角色等级，未知角色视为普通成员
func GalerieRoleRank(role string) int {
	if rank, ok := galerieRoleRanks[role]; ok {
		return rank
	}
	return 0
}

// GalerieUser 相册成员关系，每个活跃相册有且只有一个 creator
type GalerieUser struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	GalerieID uint    `gorm:"uniqueIndex:idx_galerie_user;not null" json:"-"`
	Galerie   Galerie `gorm:"foreignKey:GalerieID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    uint    `gorm:"uniqueIndex:idx_galerie_user;not null" json:"-"`
	User      User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	Role string `gorm:"type:varchar(20);default:user;not null" json:"role"`

	// AllowNotification 成员是否接收该相册的通知聚合
	AllowNotification bool `gorm:"default:true;not null" json:"allowNotification"`
}
