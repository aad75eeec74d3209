package models

import "time"

// 黑名单时长边界（毫秒）
const (
	BlackListMinTimeMs = int64(10 * time.Minute / time.Millisecond)
	BlackListMaxTimeMs = int64(365 * 24 * time.Hour / time.Millisecond)
)

// BlackList 全局黑名单记录
// 过期不做后台清扫，读取时按 createdAt+time 计算效果；行永久保留用于审计
type BlackList struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"autoIncrementId"`
	UUID      string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	Reason string `gorm:"type:varchar(200);not null" json:"reason"`
	// Time 封禁时长（毫秒），nil 表示永久
	Time   *int64 `json:"time"`
	Active bool   `gorm:"default:true;not null" json:"active"`

	UserID uint `gorm:"index;not null" json:"-"`
	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	// 创建/修改黑名单的管理员；账号删除时置空以保留封禁记录
	CreatedByID *uint `json:"-"`
	CreatedBy   *User `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"createdBy,omitempty"`
	UpdatedByID *uint `json:"-"`
	UpdatedBy   *User `gorm:"foreignKey:UpdatedByID;constraint:OnDelete:SET NULL" json:"updatedBy,omitempty"`
}

// ExpiresAt 过期时间点，永久封禁返回 nil
func (b *BlackList) ExpiresAt() *time.Time {
	if b.Time == nil {
		return nil
	}
	t := b.CreatedAt.Add(time.Duration(*b.Time) * time.Millisecond)
	return &t
}

// EffectiveAt 判断封禁在给定时刻是否生效
func (b *BlackList) EffectiveAt(now time.Time) bool {
	if !b.Active {
		return false
	}
	if exp := b.ExpiresAt(); exp != nil && !now.Before(*exp) {
		return false
	}
	return true
}
