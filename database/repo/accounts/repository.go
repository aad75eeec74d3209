package accounts

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/galeries/galeries-server/cache"
	"github.com/galeries/galeries-server/database"
	"github.com/galeries/galeries-server/database/models"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var userGroup singleflight.Group

// Repository 用户仓库 - 封装所有用户相关的数据库操作
type Repository struct {
	db      database.Provider
	cache   cache.Provider
	userTTL int
}

// NewRepository 创建新的用户仓库
func NewRepository(db database.Provider, cacheProvider cache.Provider, userTTLSeconds int) *Repository {
	return &Repository{db: db, cache: cacheProvider, userTTL: userTTLSeconds}
}

// CreateUser 创建用户
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetUserByID 通过内部 ID 获取用户，带缓存与 singleflight 合并
func (r *Repository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	if r.cache != nil {
		var cached models.User
		err := r.cache.Get(cache.UserKey.BuildID(id), &cached)
		if err == nil {
			return &cached, nil
		} else if !cache.IsCacheMiss(err) {
			log.Printf("Cache error when getting user by ID %d: %v", id, err)
		}
	}

	val, err, _ := userGroup.Do(fmt.Sprintf("user_%d", id), func() (interface{}, error) {
		var user models.User
		err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}

		r.cacheUser(&user)
		return &user, nil
	})
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, nil
	}
	return val.(*models.User), nil
}

// GetUserByUUID 通过公开 UUID 获取用户
func (r *Repository) GetUserByUUID(ctx context.Context, uuid string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail 通过邮箱获取用户
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByUserName 通过用户名获取用户
func (r *Repository) GetUserByUserName(ctx context.Context, userName string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("user_name = ?", userName).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// SearchUsers 按用户名前缀搜索用户，游标分页
func (r *Repository) SearchUsers(ctx context.Context, userNamePrefix string, previous uint) ([]*models.User, error) {
	var users []*models.User
	db := r.db.WithContext(ctx).Model(&models.User{}).
		Where("confirmed = ?", true)
	if userNamePrefix != "" {
		db = db.Where("user_name LIKE ?", userNamePrefix+"%")
	}
	err := db.Scopes(database.CursorScope(previous, database.DefaultPageSize)).Find(&users).Error
	return users, err
}

// ConfirmUser 确认邮箱并递增确认令牌版本（一次性消费）
func (r *Repository) ConfirmUser(ctx context.Context, userID uint) error {
	defer r.invalidateUser(userID)
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"confirmed":             true,
			"confirm_token_version": gorm.Expr("confirm_token_version + 1"),
		}).Error
}

// UpdatePassword 更新密码并递增认证令牌版本，使所有已签发令牌失效
func (r *Repository) UpdatePassword(ctx context.Context, userID uint, hashedPassword string) error {
	defer r.invalidateUser(userID)
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password":           hashedPassword,
			"auth_token_version": gorm.Expr("auth_token_version + 1"),
		}).Error
}

// UpdateEmail 更新邮箱并递增认证令牌版本
func (r *Repository) UpdateEmail(ctx context.Context, userID uint, email string) error {
	defer r.invalidateUser(userID)
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"email":              email,
			"auth_token_version": gorm.Expr("auth_token_version + 1"),
		}).Error
}

// UpdateRole 更新全局角色
func (r *Repository) UpdateRole(ctx context.Context, userID uint, role string) error {
	defer r.invalidateUser(userID)
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Update("role", role).Error
}

// SetHasNewNotifications 设置未读通知标记
func (r *Repository) SetHasNewNotifications(ctx context.Context, userID uint, value bool) error {
	defer r.invalidateUser(userID)
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Update("has_new_notifications", value).Error
}

// LockUser 在事务中锁定用户行
func (r *Repository) LockUser(tx *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// InvalidateUser 删除用户缓存（封禁、角色变更后调用）
func (r *Repository) InvalidateUser(userID uint) {
	r.invalidateUser(userID)
}

func (r *Repository) cacheUser(user *models.User) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(cache.UserKey.BuildID(user.ID), user, userCacheTTL(r.userTTL)); err != nil {
		log.Printf("Failed to cache user %d: %v", user.ID, err)
	}
}

func (r *Repository) invalidateUser(userID uint) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(cache.UserKey.BuildID(userID)); err != nil {
		log.Printf("Failed to invalidate user cache %d: %v", userID, err)
	}
}
