package models

import (
	"time"
)

// 全局角色常量
const (
	RoleUser       = "user"
	RoleModerator  = "moderator"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superAdmin"
)

// roleRanks 全局角色权力等级
var roleRanks = map[string]int{
	RoleUser:       0,
	RoleModerator:  1,
	RoleAdmin:      2,
	RoleSuperAdmin: 3,
}

// RoleRank 返回角色等级，未知角色视为普通用户
func RoleRank(role string) int {
	if rank, ok := roleRanks[role]; ok {
		return rank
	}
	return 0
}

// IsRole 判断是否是合法的全局角色
func IsRole(role string) bool {
	_, ok := roleRanks[role]
	return ok
}

type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"autoIncrementId"`
	UUID      string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	UserName string `gorm:"type:varchar(30);uniqueIndex;not null" json:"userName"`
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"type:varchar(20);default:user;not null" json:"role"`

	// 邮箱确认与令牌版本（修改密码/邮箱后旧令牌立即失效）
	Confirmed           bool `gorm:"default:false;not null" json:"-"`
	AuthTokenVersion    int  `gorm:"default:0;not null" json:"-"`
	ConfirmTokenVersion int  `gorm:"default:0;not null" json:"-"`

	HasNewNotifications bool `gorm:"default:false;not null" json:"hasNewNotifications"`

	// IsBlackListed 派生字段：存在生效且未过期的全局封禁
	// 读取时计算，绝不落库
	IsBlackListed bool `gorm:"-" json:"isBlackListed"`

	CurrentProfilePicture *ProfilePicture `gorm:"-" json:"currentProfilePicture,omitempty"`
}
