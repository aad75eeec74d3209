package blacklists

import (
	"context"
	"errors"
	"time"

	"github.com/galeries/galeries-server/database"
	"github.com/galeries/galeries-server/database/models"
	"gorm.io/gorm"
)

// Repository 黑名单仓库 - 全局与相册级封禁记录的数据库操作
type Repository struct {
	db database.Provider
}

// NewRepository 创建新的黑名单仓库
func NewRepository(db database.Provider) *Repository {
	return &Repository{db: db}
}

// ActiveGlobalBlackList 返回目标用户当前生效且未过期的全局封禁
// 过期在读取时计算，不修改行
func (r *Repository) ActiveGlobalBlackList(ctx context.Context, userID uint, now time.Time) (*models.BlackList, error) {
	var blackLists []models.BlackList
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Order("id desc").
		Find(&blackLists).Error
	if err != nil {
		return nil, err
	}

	for i := range blackLists {
		if blackLists[i].EffectiveAt(now) {
			return &blackLists[i], nil
		}
	}
	return nil, nil
}

// IsBlackListed 计算派生字段 isBlackListed
func (r *Repository) IsBlackListed(ctx context.Context, userID uint, now time.Time) (bool, error) {
	bl, err := r.ActiveGlobalBlackList(ctx, userID, now)
	if err != nil {
		return false, err
	}
	return bl != nil, nil
}

// CreateGlobalBlackList 插入全局封禁记录
func (r *Repository) CreateGlobalBlackList(ctx context.Context, blackList *models.BlackList) error {
	return r.db.WithContext(ctx).Create(blackList).Error
}

// GetGlobalBlackListByUUID 通过公开 UUID 获取封禁记录
func (r *Repository) GetGlobalBlackListByUUID(ctx context.Context, uuid string) (*models.BlackList, error) {
	var blackList models.BlackList
	err := r.db.WithContext(ctx).
		Preload("User").Preload("CreatedBy").Preload("UpdatedBy").
		Where("uuid = ?", uuid).First(&blackList).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &blackList, nil
}

// ListGlobalBlackLists 封禁记录列表，游标分页
func (r *Repository) ListGlobalBlackLists(ctx context.Context, previous uint) ([]*models.BlackList, error) {
	var blackLists []*models.BlackList
	err := r.db.WithContext(ctx).Model(&models.BlackList{}).
		Preload("User").Preload("CreatedBy").Preload("UpdatedBy").
		Scopes(database.CursorScope(previous, database.DefaultPageSize)).
		Find(&blackLists).Error
	return blackLists, err
}

// UpdateGlobalBlackListTime 管理员修改封禁时长，记录修改人
func (r *Repository) UpdateGlobalBlackListTime(ctx context.Context, blackListID uint, timeMs *int64, updatedByID uint) error {
	return r.db.WithContext(ctx).Model(&models.BlackList{}).Where("id = ?", blackListID).
		Updates(map[string]interface{}{
			"time":          timeMs,
			"updated_by_id": updatedByID,
		}).Error
}

// DeactivateGlobalBlackList 解除封禁：翻转 active，行保留用于审计
func (r *Repository) DeactivateGlobalBlackList(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&models.BlackList{}).
		Where("user_id = ? AND active = ?", userID, true).
		Update("active", false).Error
}

// NullGlobalAuthorRefs 删除管理员账号时置空其签发/修改的封禁外键，保留封禁本身
func (r *Repository) NullGlobalAuthorRefs(tx *gorm.DB, adminID uint) error {
	if err := tx.Model(&models.BlackList{}).Where("created_by_id = ?", adminID).
		Update("created_by_id", nil).Error; err != nil {
		return err
	}
	return tx.Model(&models.BlackList{}).Where("updated_by_id = ?", adminID).
		Update("updated_by_id", nil).Error
}

// ActiveGalerieBlackList 返回相册内对目标用户的封禁
func (r *Repository) ActiveGalerieBlackList(ctx context.Context, galerieID, userID uint) (*models.GalerieBlackList, error) {
	var blackList models.GalerieBlackList
	err := r.db.WithContext(ctx).
		Where("galerie_id = ? AND user_id = ?", galerieID, userID).
		First(&blackList).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &blackList, nil
}

// CreateGalerieBlackList 创建相册封禁并在同一事务内删除目标成员关系。
// 目标不再是成员，其此前在该相册签发的封禁同时失去操作人引用。
func (r *Repository) CreateGalerieBlackList(ctx context.Context, blackList *models.GalerieBlackList) error {
	return r.db.TransactionWithContext(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(blackList).Error; err != nil {
			return err
		}
		if err := tx.Where("galerie_id = ? AND user_id = ?", blackList.GalerieID, blackList.UserID).
			Delete(&models.GalerieUser{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.GalerieBlackList{}).
			Where("galerie_id = ? AND created_by_id = ? AND id <> ?",
				blackList.GalerieID, blackList.UserID, blackList.ID).
			Update("created_by_id", nil).Error
	})
}

// GetGalerieBlackListByUUID 通过公开 UUID 获取相册封禁
func (r *Repository) GetGalerieBlackListByUUID(ctx context.Context, galerieID uint, uuid string) (*models.GalerieBlackList, error) {
	var blackList models.GalerieBlackList
	err := r.db.WithContext(ctx).
		Preload("User").Preload("CreatedBy").
		Where("galerie_id = ? AND uuid = ?", galerieID, uuid).First(&blackList).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &blackList, nil
}

// ListGalerieBlackLists 相册封禁列表，游标分页
func (r *Repository) ListGalerieBlackLists(ctx context.Context, galerieID uint, previous uint) ([]*models.GalerieBlackList, error) {
	var blackLists []*models.GalerieBlackList
	err := r.db.WithContext(ctx).Model(&models.GalerieBlackList{}).
		Preload("User").Preload("CreatedBy").
		Where("galerie_id = ?", galerieID).
		Scopes(database.CursorScope(previous, database.DefaultPageSize)).
		Find(&blackLists).Error
	return blackLists, err
}

// DeleteGalerieBlackList 解除相册封禁，不恢复成员关系
func (r *Repository) DeleteGalerieBlackList(ctx context.Context, blackListID uint) error {
	return r.db.WithContext(ctx).Delete(&models.GalerieBlackList{}, blackListID).Error
}

// NullGalerieAuthorRefs 封禁操作人账号被删除时置空 createdById
func (r *Repository) NullGalerieAuthorRefs(tx *gorm.DB, adminID uint) error {
	return tx.Model(&models.GalerieBlackList{}).Where("created_by_id = ?", adminID).
		Update("created_by_id", nil).Error
}

// NullGalerieAuthorRefsForUser 操作人被全局拉黑时置空其在所有相册签发封禁的 createdById
func (r *Repository) NullGalerieAuthorRefsForUser(ctx context.Context, adminID uint) error {
	return r.NullGalerieAuthorRefs(r.db.WithContext(ctx), adminID)
}

// NullGalerieAuthorRefsInGalerie 操作人退出相册时置空其在该相册签发封禁的 createdById
func (r *Repository) NullGalerieAuthorRefsInGalerie(ctx context.Context, galerieID, adminID uint) error {
	return r.db.WithContext(ctx).Model(&models.GalerieBlackList{}).
		Where("galerie_id = ? AND created_by_id = ?", galerieID, adminID).
		Update("created_by_id", nil).Error
}
