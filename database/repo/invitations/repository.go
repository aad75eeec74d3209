package invitations

import (
	"context"
	"errors"

	"github.com/galeries/galeries-server/database"
	"github.com/galeries/galeries-server/database/models"
	"gorm.io/gorm"
)

// Repository 邀请码仓库
type Repository struct {
	db database.Provider
}

// NewRepository 创建新的邀请码仓库
func NewRepository(db database.Provider) *Repository {
	return &Repository{db: db}
}

// Create 创建邀请码
func (r *Repository) Create(ctx context.Context, invitation *models.Invitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

// GetByCode 通过邀请码查询
func (r *Repository) GetByCode(ctx context.Context, code string) (*models.Invitation, error) {
	var invitation models.Invitation
	err := r.db.WithContext(ctx).
		Preload("Galerie").
		Where("code = ?", code).First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invitation, nil
}

// GetByUUID 相册内通过公开 UUID 查询
func (r *Repository) GetByUUID(ctx context.Context, galerieID uint, uuid string) (*models.Invitation, error) {
	var invitation models.Invitation
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("galerie_id = ? AND uuid = ?", galerieID, uuid).First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invitation, nil
}

// ListByGalerie 相册邀请码列表，游标分页
func (r *Repository) ListByGalerie(ctx context.Context, galerieID uint, previous uint) ([]*models.Invitation, error) {
	var invitations []*models.Invitation
	err := r.db.WithContext(ctx).Model(&models.Invitation{}).
		Preload("User").
		Where("galerie_id = ?", galerieID).
		Scopes(database.CursorScope(previous, database.DefaultPageSize)).
		Find(&invitations).Error
	return invitations, err
}

// Consume 原子消费一次邀请次数；不限次的邀请码是空操作
func (r *Repository) Consume(ctx context.Context, invitationID uint) error {
	return r.db.WithContext(ctx).Model(&models.Invitation{}).
		Where("id = ? AND num_of_invits IS NOT NULL", invitationID).
		Update("num_of_invits", gorm.Expr("num_of_invits - 1")).Error
}

// Delete 删除邀请码
func (r *Repository) Delete(ctx context.Context, invitationID uint) error {
	return r.db.WithContext(ctx).Delete(&models.Invitation{}, invitationID).Error
}

// DeleteByGalerie 相册归档/删除时销毁全部邀请码
func (r *Repository) DeleteByGalerie(tx *gorm.DB, galerieID uint) error {
	return tx.Where("galerie_id = ?", galerieID).Delete(&models.Invitation{}).Error
}

// DeleteByUser 账号删除时销毁其签发的全部邀请码
func (r *Repository) DeleteByUser(tx *gorm.DB, userID uint) error {
	return tx.Where("user_id = ?", userID).Delete(&models.Invitation{}).Error
}
