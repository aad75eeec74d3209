package galeries

import (
	"context"
	"errors"

	"github.com/galeries/galeries-server/database"
	"github.com/galeries/galeries-server/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository 相册仓库 - 封装相册与成员关系的数据库操作
type Repository struct {
	db database.Provider
}

// NewRepository 创建新的相册仓库
func NewRepository(db database.Provider) *Repository {
	return &Repository{db: db}
}

// CreateGalerie 创建相册并在同一事务内写入 creator 成员关系
func (r *Repository) CreateGalerie(ctx context.Context, galerie *models.Galerie, creatorID uint) error {
	return r.db.TransactionWithContext(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(galerie).Error; err != nil {
			return err
		}
		return tx.Create(&models.GalerieUser{
			GalerieID: galerie.ID,
			UserID:    creatorID,
			Role:      models.GalerieRoleCreator,
		}).Error
	})
}

// GetGalerieByUUID 获取相册，仅当请求者是成员时可见
// 不存在与不可见返回同一个 nil，调用方统一渲染 404
func (r *Repository) GetGalerieByUUID(ctx context.Context, uuid string, userID uint) (*models.Galerie, *models.GalerieUser, error) {
	var galerie models.Galerie
	err := r.db.WithContext(ctx).
		Joins("JOIN galerie_users ON galerie_users.galerie_id = galeries.id AND galerie_users.user_id = ?", userID).
		Where("galeries.uuid = ?", uuid).
		First(&galerie).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	membership, err := r.GetMembership(ctx, galerie.ID, userID)
	if err != nil {
		return nil, nil, err
	}
	return &galerie, membership, nil
}

// GetGalerieByID 通过内部 ID 获取相册
func (r *Repository) GetGalerieByID(ctx context.Context, id uint) (*models.Galerie, error) {
	var galerie models.Galerie
	err := r.db.WithContext(ctx).First(&galerie, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &galerie, nil
}

// ListGaleriesForUser 用户订阅的相册列表，游标分页
func (r *Repository) ListGaleriesForUser(ctx context.Context, userID uint, previous uint) ([]*models.Galerie, error) {
	var galeries []*models.Galerie
	err := r.db.WithContext(ctx).Model(&models.Galerie{}).
		Joins("JOIN galerie_users ON galerie_users.galerie_id = galeries.id AND galerie_users.user_id = ?", userID).
		Scopes(database.CursorScope(previous, database.DefaultPageSize)).
		Find(&galeries).Error
	return galeries, err
}

// UpdateGalerie 更新相册名称/描述
func (r *Repository) UpdateGalerie(ctx context.Context, galerieID uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Galerie{}).Where("id = ?", galerieID).
		Updates(updates).Error
}

// GetMembership 获取成员关系
func (r *Repository) GetMembership(ctx context.Context, galerieID, userID uint) (*models.GalerieUser, error) {
	var membership models.GalerieUser
	err := r.db.WithContext(ctx).
		Where("galerie_id = ? AND user_id = ?", galerieID, userID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &membership, nil
}

// CreateMembership 写入成员关系
func (r *Repository) CreateMembership(ctx context.Context, membership *models.GalerieUser) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

// DeleteMembership 删除成员关系
func (r *Repository) DeleteMembership(ctx context.Context, galerieID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("galerie_id = ? AND user_id = ?", galerieID, userID).
		Delete(&models.GalerieUser{}).Error
}

// UpdateMemberRole 更新成员相册角色
func (r *Repository) UpdateMemberRole(ctx context.Context, galerieID, userID uint, role string) error {
	return r.db.WithContext(ctx).Model(&models.GalerieUser{}).
		Where("galerie_id = ? AND user_id = ?", galerieID, userID).
		Update("role", role).Error
}

// ListMembers 相册成员列表，游标分页（按成员关系 id）
func (r *Repository) ListMembers(ctx context.Context, galerieID uint, previous uint) ([]*models.GalerieUser, error) {
	var members []*models.GalerieUser
	err := r.db.WithContext(ctx).Model(&models.GalerieUser{}).
		Preload("User").
		Where("galerie_id = ?", galerieID).
		Scopes(database.CursorScope(previous, database.DefaultPageSize)).
		Find(&members).Error
	return members, err
}

// ListMemberships 用户的全部成员关系（删除账号时遍历）
func (r *Repository) ListMemberships(ctx context.Context, userID uint) ([]*models.GalerieUser, error) {
	var memberships []*models.GalerieUser
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&memberships).Error
	return memberships, err
}

// ListNotifiableMembers 接收通知的成员（排除事件发起者本人）
func (r *Repository) ListNotifiableMembers(ctx context.Context, galerieID uint, excludeUserID uint, minRank int) ([]*models.GalerieUser, error) {
	var members []*models.GalerieUser
	err := r.db.WithContext(ctx).
		Where("galerie_id = ? AND user_id <> ? AND allow_notification = ?", galerieID, excludeUserID, true).
		Find(&members).Error
	if err != nil {
		return nil, err
	}

	if minRank <= 0 {
		return members, nil
	}
	filtered := members[:0]
	for _, m := range members {
		if models.GalerieRoleRank(m.Role) >= minRank {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

// CountMembers 相册成员数量
func (r *Repository) CountMembers(ctx context.Context, galerieID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.GalerieUser{}).
		Where("galerie_id = ?", galerieID).
		Count(&count).Error
	return count, err
}

// LockGalerie 在事务中锁定相册行，防止并发删除/归档交错
func (r *Repository) LockGalerie(tx *gorm.DB, galerieID uint) (*models.Galerie, error) {
	var galerie models.Galerie
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&galerie, "id = ?", galerieID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &galerie, nil
}
