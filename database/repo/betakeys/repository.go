package betakeys

import (
	"context"
	"errors"

	"github.com/galeries/galeries-server/database"
	"github.com/galeries/galeries-server/database/models"
	"gorm.io/gorm"
)

// Repository 注册邀请码仓库
type Repository struct {
	db database.Provider
}

// NewRepository 创建新的注册邀请码仓库
func NewRepository(db database.Provider) *Repository {
	return &Repository{db: db}
}

// Create 签发注册邀请码
func (r *Repository) Create(ctx context.Context, betaKey *models.BetaKey) error {
	return r.db.WithContext(ctx).Create(betaKey).Error
}

// GetByCode 通过邀请码查询，未消费才可用
func (r *Repository) GetByCode(ctx context.Context, code string) (*models.BetaKey, error) {
	var betaKey models.BetaKey
	err := r.db.WithContext(ctx).
		Where("code = ?", code).First(&betaKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &betaKey, nil
}

// GetByUUID 通过公开 UUID 查询
func (r *Repository) GetByUUID(ctx context.Context, uuid string) (*models.BetaKey, error) {
	var betaKey models.BetaKey
	err := r.db.WithContext(ctx).
		Preload("CreatedBy").Preload("User").
		Where("uuid = ?", uuid).First(&betaKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &betaKey, nil
}

// List 邀请码列表，游标分页
func (r *Repository) List(ctx context.Context, previous uint) ([]*models.BetaKey, error) {
	var betaKeys []*models.BetaKey
	err := r.db.WithContext(ctx).Model(&models.BetaKey{}).
		Preload("User").
		Scopes(database.CursorScope(previous, database.DefaultPageSize)).
		Find(&betaKeys).Error
	return betaKeys, err
}

// Consume 消费邀请码，记录注册用户。已消费的码返回 false。
func (r *Repository) Consume(tx *gorm.DB, betaKeyID, userID uint) (bool, error) {
	res := tx.Model(&models.BetaKey{}).
		Where("id = ? AND user_id IS NULL", betaKeyID).
		Update("user_id", userID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete 删除未消费的邀请码
func (r *Repository) Delete(ctx context.Context, betaKeyID uint) error {
	return r.db.WithContext(ctx).Delete(&models.BetaKey{}, betaKeyID).Error
}

// NullAuthorRefs 账号删除时解除其签发/消费的引用
func (r *Repository) NullAuthorRefs(tx *gorm.DB, userID uint) error {
	if err := tx.Model(&models.BetaKey{}).
		Where("created_by_id = ?", userID).
		Update("created_by_id", nil).Error; err != nil {
		return err
	}
	return tx.Model(&models.BetaKey{}).
		Where("user_id = ?", userID).
		Update("user_id", nil).Error
}
