package models

import "time"

// 举报理由常量
const (
	ReportReasonDisinformation = "disinformation"
	ReportReasonHarassment     = "harassment"
	ReportReasonIntimidation   = "intimidation"
	ReportReasonShocking       = "shocking"
)

// ReportReasons 所有合法举报理由
var ReportReasons = []string{
	ReportReasonDisinformation,
	ReportReasonHarassment,
	ReportReasonIntimidation,
	ReportReasonShocking,
}

// IsReportReason 校验举报理由
func IsReportReason(reason string) bool {
	for _, r := range ReportReasons {
		if r == reason {
			return true
		}
	}
	return false
}

// Report 针对一个 Frame 的举报聚合行，按理由分桶计数
type Report struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	UUID      string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	FrameID uint  `gorm:"uniqueIndex;not null" json:"-"`
	Frame   Frame `gorm:"foreignKey:FrameID;constraint:OnDelete:CASCADE" json:"-"`

	NumOfReports int64 `gorm:"default:0;not null" json:"numOfReports"`

	NumOfDisinformation int64 `gorm:"default:0;not null" json:"numOfDisinformation"`
	NumOfHarassment     int64 `gorm:"default:0;not null" json:"numOfHarassment"`
	NumOfIntimidation   int64 `gorm:"default:0;not null" json:"numOfIntimidation"`
	NumOfShocking       int64 `gorm:"default:0;not null" json:"numOfShocking"`
}

// ReportUser 去重表：同一用户对同一内容只计一次举报
type ReportUser struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	CreatedAt time.Time `json:"createdAt"`

	ReportID uint   `gorm:"uniqueIndex:idx_report_user;not null" json:"-"`
	Report   Report `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"-"`
	UserID   uint   `gorm:"uniqueIndex:idx_report_user;not null" json:"-"`
	User     User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
