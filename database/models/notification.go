package models

import "time"

// 通知类型常量
const (
	NotificationFrameLikedType    = "FRAME_LIKED"
	NotificationFramePostedType   = "FRAME_POSTED"
	NotificationUserSubscribeType = "USER_SUBSCRIBE"
	NotificationBetaKeyUsedType   = "BETA_KEY_USED"
	NotificationRoleChangeType    = "ROLE_CHANGE"
)

// NotificationRenderLimit 渲染时每条通知最多暴露的关联实体数
const NotificationRenderLimit = 4

// Notification 按 (userId, 作用域, type) 聚合的通知行
// 未读期间 num 递增；减到 0 时整行连同关联表一起删除
type Notification struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"autoIncrementId"`
	UUID      string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID uint `gorm:"index;not null" json:"-"`
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	Type string `gorm:"type:varchar(20);index;not null" json:"type"`

	// 作用域外键，按类型取用
	GalerieID *uint    `gorm:"index" json:"-"`
	Galerie   *Galerie `gorm:"foreignKey:GalerieID;constraint:OnDelete:CASCADE" json:"-"`
	FrameID   *uint    `gorm:"index" json:"-"`
	Frame     *Frame   `gorm:"foreignKey:FrameID;constraint:OnDelete:CASCADE" json:"-"`

	// Role 仅 ROLE_CHANGE 类型使用
	Role string `gorm:"type:varchar(20)" json:"-"`

	Num  int64 `gorm:"default:1;not null" json:"num"`
	Seen bool  `gorm:"default:false;not null" json:"seen"`
}

// NotificationFrameLiked FRAME_LIKED 关联的点赞用户
type NotificationFrameLiked struct {
	ID             uint         `gorm:"primaryKey;autoIncrement" json:"-"`
	CreatedAt      time.Time    `json:"-"`
	NotificationID uint         `gorm:"uniqueIndex:idx_notif_liked;not null" json:"-"`
	Notification   Notification `gorm:"foreignKey:NotificationID;constraint:OnDelete:CASCADE" json:"-"`
	UserID         uint         `gorm:"uniqueIndex:idx_notif_liked;not null" json:"-"`
	User           User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// NotificationFramePosted FRAME_POSTED 关联的新帧
type NotificationFramePosted struct {
	ID             uint         `gorm:"primaryKey;autoIncrement" json:"-"`
	CreatedAt      time.Time    `json:"-"`
	NotificationID uint         `gorm:"uniqueIndex:idx_notif_posted;not null" json:"-"`
	Notification   Notification `gorm:"foreignKey:NotificationID;constraint:OnDelete:CASCADE" json:"-"`
	FrameID        uint         `gorm:"uniqueIndex:idx_notif_posted;not null" json:"-"`
	Frame          Frame        `gorm:"foreignKey:FrameID;constraint:OnDelete:CASCADE" json:"-"`
}

// NotificationUserSubscribe USER_SUBSCRIBE 关联的新成员
type NotificationUserSubscribe struct {
	ID             uint         `gorm:"primaryKey;autoIncrement" json:"-"`
	CreatedAt      time.Time    `json:"-"`
	NotificationID uint         `gorm:"uniqueIndex:idx_notif_subscribe;not null" json:"-"`
	Notification   Notification `gorm:"foreignKey:NotificationID;constraint:OnDelete:CASCADE" json:"-"`
	UserID         uint         `gorm:"uniqueIndex:idx_notif_subscribe;not null" json:"-"`
	User           User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// NotificationBetaKeyUsed BETA_KEY_USED 关联的注册用户
type NotificationBetaKeyUsed struct {
	ID             uint         `gorm:"primaryKey;autoIncrement" json:"-"`
	CreatedAt      time.Time    `json:"-"`
	NotificationID uint         `gorm:"uniqueIndex:idx_notif_betakey;not null" json:"-"`
	Notification   Notification `gorm:"foreignKey:NotificationID;constraint:OnDelete:CASCADE" json:"-"`
	UserID         uint         `gorm:"uniqueIndex:idx_notif_betakey;not null" json:"-"`
	User           User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
