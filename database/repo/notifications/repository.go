package notifications

import (
	"context"
	"errors"

	"github.com/galeries/galeries-server/database"
	"github.com/galeries/galeries-server/database/models"
	"gorm.io/gorm"
)

// Repository 通知仓库
type Repository struct {
	db database.Provider
}

// NewRepository 创建新的通知仓库
func NewRepository(db database.Provider) *Repository {
	return &Repository{db: db}
}

// Scope 通知聚合作用域，零值表示全局作用域
type Scope struct {
	GalerieID *uint
	FrameID   *uint
	Role      string
}

// scopedQuery 按 (userId, type, 作用域) 定位聚合行
func scopedQuery(tx *gorm.DB, userID uint, notifType string, scope Scope) *gorm.DB {
	tx = tx.Where("user_id = ? AND type = ?", userID, notifType)
	if scope.GalerieID != nil {
		tx = tx.Where("galerie_id = ?", *scope.GalerieID)
	} else {
		tx = tx.Where("galerie_id IS NULL")
	}
	if scope.FrameID != nil {
		tx = tx.Where("frame_id = ?", *scope.FrameID)
	} else {
		tx = tx.Where("frame_id IS NULL")
	}
	if scope.Role != "" {
		tx = tx.Where("role = ?", scope.Role)
	}
	return tx
}

// GetUnseen 查询未读的聚合行
func (r *Repository) GetUnseen(tx *gorm.DB, userID uint, notifType string, scope Scope) (*models.Notification, error) {
	var notification models.Notification
	err := scopedQuery(tx, userID, notifType, scope).
		Where("seen = ?", false).
		Clauses(database.LockingClause()).
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notification, nil
}

// Create 创建聚合行
func (r *Repository) Create(tx *gorm.DB, notification *models.Notification) error {
	return tx.Create(notification).Error
}

// Increment 未读聚合行计数加一
func (r *Repository) Increment(tx *gorm.DB, notificationID uint) error {
	return tx.Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Update("num", gorm.Expr("num + 1")).Error
}

// Decrement 计数减一；减到 0 时删除整行及其关联表
func (r *Repository) Decrement(tx *gorm.DB, notificationID uint) error {
	var notification models.Notification
	err := tx.Clauses(database.LockingClause()).
		First(&notification, notificationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if notification.Num <= 1 {
		return r.deleteWithJoins(tx, []uint{notification.ID})
	}
	return tx.Model(&models.Notification{}).
		Where("id = ?", notification.ID).
		Update("num", gorm.Expr("num - 1")).Error
}

// AddFrameLiked 记录点赞用户，重复点赞同一聚合行是空操作
func (r *Repository) AddFrameLiked(tx *gorm.DB, notificationID, likedByID uint) error {
	err := tx.Create(&models.NotificationFrameLiked{
		NotificationID: notificationID,
		UserID:         likedByID,
	}).Error
	if err != nil && database.IsUniqueViolation(err) {
		return nil
	}
	return err
}

// RemoveFrameLiked 取消点赞时移除关联行
func (r *Repository) RemoveFrameLiked(tx *gorm.DB, notificationID, likedByID uint) error {
	return tx.Where("notification_id = ? AND user_id = ?", notificationID, likedByID).
		Delete(&models.NotificationFrameLiked{}).Error
}

// AddFramePosted 记录新发布的图框
func (r *Repository) AddFramePosted(tx *gorm.DB, notificationID, frameID uint) error {
	err := tx.Create(&models.NotificationFramePosted{
		NotificationID: notificationID,
		FrameID:        frameID,
	}).Error
	if err != nil && database.IsUniqueViolation(err) {
		return nil
	}
	return err
}

// AddUserSubscribe 记录新加入的成员
func (r *Repository) AddUserSubscribe(tx *gorm.DB, notificationID, userID uint) error {
	err := tx.Create(&models.NotificationUserSubscribe{
		NotificationID: notificationID,
		UserID:         userID,
	}).Error
	if err != nil && database.IsUniqueViolation(err) {
		return nil
	}
	return err
}

// AddBetaKeyUsed 记录使用测试码注册的用户
func (r *Repository) AddBetaKeyUsed(tx *gorm.DB, notificationID, userID uint) error {
	err := tx.Create(&models.NotificationBetaKeyUsed{
		NotificationID: notificationID,
		UserID:         userID,
	}).Error
	if err != nil && database.IsUniqueViolation(err) {
		return nil
	}
	return err
}

// ListByUser 用户通知列表，游标分页
func (r *Repository) ListByUser(ctx context.Context, userID uint, previous uint) ([]*models.Notification, error) {
	var notifications []*models.Notification
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Scopes(database.CursorScope(previous, database.DefaultPageSize)).
		Find(&notifications).Error
	return notifications, err
}

// GetByUUID 通过公开 UUID 查询用户自己的通知
func (r *Repository) GetByUUID(ctx context.Context, userID uint, uuid string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND uuid = ?", userID, uuid).
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notification, nil
}

// MarkSeen 标记通知为已读；已读的聚合行不再累积
func (r *Repository) MarkSeen(ctx context.Context, notificationID uint) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Update("seen", true).Error
}

// FrameLikedUsers 点赞者列表，渲染上限内
func (r *Repository) FrameLikedUsers(ctx context.Context, notificationID uint) ([]*models.User, error) {
	var rows []models.NotificationFrameLiked
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("notification_id = ?", notificationID).
		Order("id desc").Limit(models.NotificationRenderLimit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	users := make([]*models.User, 0, len(rows))
	for i := range rows {
		users = append(users, &rows[i].User)
	}
	return users, nil
}

// FramePostedFrames 新图框列表，渲染上限内
func (r *Repository) FramePostedFrames(ctx context.Context, notificationID uint) ([]*models.Frame, error) {
	var rows []models.NotificationFramePosted
	err := r.db.WithContext(ctx).
		Preload("Frame").
		Where("notification_id = ?", notificationID).
		Order("id desc").Limit(models.NotificationRenderLimit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	frames := make([]*models.Frame, 0, len(rows))
	for i := range rows {
		frames = append(frames, &rows[i].Frame)
	}
	return frames, nil
}

// UserSubscribeUsers 新成员列表，渲染上限内
func (r *Repository) UserSubscribeUsers(ctx context.Context, notificationID uint) ([]*models.User, error) {
	var rows []models.NotificationUserSubscribe
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("notification_id = ?", notificationID).
		Order("id desc").Limit(models.NotificationRenderLimit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	users := make([]*models.User, 0, len(rows))
	for i := range rows {
		users = append(users, &rows[i].User)
	}
	return users, nil
}

// BetaKeyUsedUsers 测试码注册用户列表，渲染上限内
func (r *Repository) BetaKeyUsedUsers(ctx context.Context, notificationID uint) ([]*models.User, error) {
	var rows []models.NotificationBetaKeyUsed
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("notification_id = ?", notificationID).
		Order("id desc").Limit(models.NotificationRenderLimit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	users := make([]*models.User, 0, len(rows))
	for i := range rows {
		users = append(users, &rows[i].User)
	}
	return users, nil
}

// DeleteByUser 账号删除时清理其全部通知
func (r *Repository) DeleteByUser(tx *gorm.DB, userID uint) error {
	ids, err := notificationIDs(tx, tx.Model(&models.Notification{}).Where("user_id = ?", userID))
	if err != nil {
		return err
	}
	return r.deleteWithJoins(tx, ids)
}

// DeleteByFrame 图框删除时清理以其为作用域的通知
func (r *Repository) DeleteByFrame(tx *gorm.DB, frameID uint) error {
	ids, err := notificationIDs(tx, tx.Model(&models.Notification{}).Where("frame_id = ?", frameID))
	if err != nil {
		return err
	}
	if err := tx.Where("frame_id = ?", frameID).
		Delete(&models.NotificationFramePosted{}).Error; err != nil {
		return err
	}
	return r.deleteWithJoins(tx, ids)
}

// RewriteForFrameDelete 帧删除时的通知重写：
// FRAME_POSTED 聚合 num>1 时递减并摘除关联行，num<=1 时整行删除；
// 以该帧为作用域的聚合（FRAME_LIKED）连同关联表一并删除。
func (r *Repository) RewriteForFrameDelete(tx *gorm.DB, frameID uint) error {
	var joins []models.NotificationFramePosted
	if err := tx.Where("frame_id = ?", frameID).Find(&joins).Error; err != nil {
		return err
	}
	for _, join := range joins {
		if err := tx.Delete(&models.NotificationFramePosted{}, join.ID).Error; err != nil {
			return err
		}
		if err := r.Decrement(tx, join.NotificationID); err != nil {
			return err
		}
	}
	return r.DeleteByFrame(tx, frameID)
}

// DeleteByGalerie 相册删除时清理以其为作用域的通知
func (r *Repository) DeleteByGalerie(tx *gorm.DB, galerieID uint) error {
	ids, err := notificationIDs(tx, tx.Model(&models.Notification{}).Where("galerie_id = ?", galerieID))
	if err != nil {
		return err
	}
	return r.deleteWithJoins(tx, ids)
}

// DetachUser 账号删除时摘除其在他人通知关联表中的痕迹，
// 对应的聚合计数同步回退
func (r *Repository) DetachUser(tx *gorm.DB, userID uint) error {
	joins := []struct {
		model interface{}
	}{
		{&models.NotificationFrameLiked{}},
		{&models.NotificationUserSubscribe{}},
		{&models.NotificationBetaKeyUsed{}},
	}
	for _, j := range joins {
		var notifIDs []uint
		if err := tx.Model(j.model).
			Where("user_id = ?", userID).
			Pluck("notification_id", &notifIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(j.model).Error; err != nil {
			return err
		}
		for _, id := range notifIDs {
			if err := r.Decrement(tx, id); err != nil {
				return err
			}
		}
	}
	return nil
}

func notificationIDs(tx *gorm.DB, query *gorm.DB) ([]uint, error) {
	var ids []uint
	err := query.Pluck("id", &ids).Error
	return ids, err
}

// deleteWithJoins 删除聚合行及全部关联表行
func (r *Repository) deleteWithJoins(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	joinModels := []interface{}{
		&models.NotificationFrameLiked{},
		&models.NotificationFramePosted{},
		&models.NotificationUserSubscribe{},
		&models.NotificationBetaKeyUsed{},
	}
	for _, m := range joinModels {
		if err := tx.Where("notification_id IN ?", ids).Delete(m).Error; err != nil {
			return err
		}
	}
	return tx.Where("id IN ?", ids).Delete(&models.Notification{}).Error
}
