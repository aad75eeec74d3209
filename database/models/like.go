package models

import "time"

// Like (frameId, userId) 唯一约束是防止并发双重点赞的真正屏障
type Like struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"autoIncrementId"`
	UUID      string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	FrameID uint  `gorm:"uniqueIndex:idx_frame_user_like;not null" json:"-"`
	Frame   Frame `gorm:"foreignKey:FrameID;constraint:OnDelete:CASCADE" json:"-"`
	UserID  uint  `gorm:"uniqueIndex:idx_frame_user_like;not null" json:"-"`
	User    User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
