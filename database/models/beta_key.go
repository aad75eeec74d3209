package models

import "time"

// BetaKey 注册邀请码，消费后记录注册用户
type BetaKey struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	UUID      string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	Code  string  `gorm:"type:varchar(10);uniqueIndex;not null" json:"code"`
	Email *string `gorm:"type:varchar(255)" json:"email"`

	CreatedByID *uint `json:"-"`
	CreatedBy   *User `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"-"`

	// UserID 消费该邀请码注册的用户
	UserID *uint `json:"-"`
	User   *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
}
