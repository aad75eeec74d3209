package reports

import (
	"context"
	"errors"
	"fmt"

	"github.com/galeries/galeries-server/database"
	"github.com/galeries/galeries-server/database/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrAlreadyReported 同一用户重复举报同一图框
var ErrAlreadyReported = errors.New("user already reported this frame")

// Repository 举报仓库
type Repository struct {
	db database.Provider
}

// NewRepository 创建新的举报仓库
func NewRepository(db database.Provider) *Repository {
	return &Repository{db: db}
}

// reasonColumn 举报理由对应的计数列
func reasonColumn(reason string) (string, error) {
	switch reason {
	case models.ReportReasonDisinformation:
		return "num_of_disinformation", nil
	case models.ReportReasonHarassment:
		return "num_of_harassment", nil
	case models.ReportReasonIntimidation:
		return "num_of_intimidation", nil
	case models.ReportReasonShocking:
		return "num_of_shocking", nil
	default:
		return "", fmt.Errorf("unknown report reason %q", reason)
	}
}

// ReportFrame 举报图框。首次举报创建汇总行，重复理由只递增计数；
// 同一用户对同一图框只允许举报一次。
func (r *Repository) ReportFrame(ctx context.Context, frameID, userID uint, reason string) error {
	column, err := reasonColumn(reason)
	if err != nil {
		return err
	}
	return r.db.TransactionWithContext(ctx, func(tx *gorm.DB) error {
		var report models.Report
		err := tx.Clauses(database.LockingClause()).
			Where("frame_id = ?", frameID).First(&report).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			report = models.Report{UUID: uuid.New().String(), FrameID: frameID, NumOfReports: 1}
			switch column {
			case "num_of_disinformation":
				report.NumOfDisinformation = 1
			case "num_of_harassment":
				report.NumOfHarassment = 1
			case "num_of_intimidation":
				report.NumOfIntimidation = 1
			case "num_of_shocking":
				report.NumOfShocking = 1
			}
			if err := tx.Create(&report).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			updates := map[string]interface{}{
				"num_of_reports": gorm.Expr("num_of_reports + 1"),
				column:           gorm.Expr(column + " + 1"),
			}
			if err := tx.Model(&models.Report{}).
				Where("id = ?", report.ID).Updates(updates).Error; err != nil {
				return err
			}
		}

		reportUser := models.ReportUser{ReportID: report.ID, UserID: userID}
		if err := tx.Create(&reportUser).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return ErrAlreadyReported
			}
			return err
		}
		return nil
	})
}

// GetByFrame 查询图框的举报汇总
func (r *Repository) GetByFrame(ctx context.Context, frameID uint) (*models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).
		Where("frame_id = ?", frameID).First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

// HasReported 检查用户是否已举报某图框
func (r *Repository) HasReported(ctx context.Context, frameID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ReportUser{}).
		Joins("JOIN reports ON reports.id = report_users.report_id").
		Where("reports.frame_id = ? AND report_users.user_id = ?", frameID, userID).
		Count(&count).Error
	return count > 0, err
}

// ListReportedFrames 列出被举报的图框汇总，游标分页
func (r *Repository) ListReportedFrames(ctx context.Context, previous uint) ([]*models.Report, error) {
	var reports []*models.Report
	err := r.db.WithContext(ctx).Model(&models.Report{}).
		Preload("Frame").
		Scopes(database.CursorScope(previous, database.DefaultPageSize)).
		Find(&reports).Error
	return reports, err
}

// DeleteByFrame 图框删除时清理举报汇总及关联举报人
func (r *Repository) DeleteByFrame(tx *gorm.DB, frameID uint) error {
	var report models.Report
	err := tx.Where("frame_id = ?", frameID).First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := tx.Where("report_id = ?", report.ID).
		Delete(&models.ReportUser{}).Error; err != nil {
		return err
	}
	return tx.Delete(&report).Error
}

// DeleteUserReports 账号删除时移除其举报记录并回退计数
func (r *Repository) DeleteUserReports(tx *gorm.DB, userID uint) error {
	var reportUsers []models.ReportUser
	if err := tx.Where("user_id = ?", userID).Find(&reportUsers).Error; err != nil {
		return err
	}
	for _, ru := range reportUsers {
		if err := tx.Model(&models.Report{}).
			Where("id = ? AND num_of_reports > 0", ru.ReportID).
			Update("num_of_reports", gorm.Expr("num_of_reports - 1")).Error; err != nil {
			return err
		}
	}
	return tx.Where("user_id = ?", userID).Delete(&models.ReportUser{}).Error
}
