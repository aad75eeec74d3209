package frames

import (
	"context"
	"errors"

	"github.com/galeries/galeries-server/database"
	"github.com/galeries/galeries-server/database/models"
	"gorm.io/gorm"
)

// Repository 帧仓库 - 封装帧、图片与点赞的数据库操作
type Repository struct {
	db database.Provider
}

// NewRepository 创建新的帧仓库
func NewRepository(db database.Provider) *Repository {
	return &Repository{db: db}
}

// CreateFrame 创建帧及其图片集，嵌套关联在单事务内落库
func (r *Repository) CreateFrame(ctx context.Context, frame *models.Frame) error {
	return r.db.TransactionWithContext(ctx, func(tx *gorm.DB) error {
		return tx.Create(frame).Error
	})
}

// preloadPictures 帧图片及其三个变体
func preloadPictures(db *gorm.DB) *gorm.DB {
	return db.
		Preload("GaleriePictures", func(db *gorm.DB) *gorm.DB {
			return db.Order("galerie_pictures.position asc")
		}).
		Preload("GaleriePictures.OriginalImage").
		Preload("GaleriePictures.CroppedImage").
		Preload("GaleriePictures.PendingImage")
}

// GetFrameByUUID 获取相册内的帧
func (r *Repository) GetFrameByUUID(ctx context.Context, galerieID uint, uuid string) (*models.Frame, error) {
	var frame models.Frame
	err := preloadPictures(r.db.WithContext(ctx)).
		Preload("User").
		Where("galerie_id = ? AND uuid = ?", galerieID, uuid).
		First(&frame).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &frame, nil
}

// GetFrameByID 按内部 ID 获取帧
func (r *Repository) GetFrameByID(ctx context.Context, id uint) (*models.Frame, error) {
	var frame models.Frame
	err := preloadPictures(r.db.WithContext(ctx)).
		Preload("User").
		First(&frame, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &frame, nil
}

// ListFrames 相册帧列表，游标分页
// reporterID 用于排除请求者已举报的帧（特权角色传 0 不过滤）
func (r *Repository) ListFrames(ctx context.Context, galerieID uint, previous uint, reporterID uint) ([]*models.Frame, error) {
	var frames []*models.Frame
	db := preloadPictures(r.db.WithContext(ctx).Model(&models.Frame{})).
		Preload("User").
		Where("frames.galerie_id = ?", galerieID)

	if reporterID > 0 {
		db = db.Where("frames.id NOT IN (?)",
			r.db.DB().Model(&models.ReportUser{}).
				Select("reports.frame_id").
				Joins("JOIN reports ON reports.id = report_users.report_id").
				Where("report_users.user_id = ?", reporterID),
		)
	}

	err := db.Scopes(database.CursorScope(previous, database.DefaultPageSize)).Find(&frames).Error
	return frames, err
}

// ListFramesByUser 用户在所有相册发布的帧
func (r *Repository) ListFramesByUser(ctx context.Context, userID uint) ([]*models.Frame, error) {
	var frames []*models.Frame
	err := preloadPictures(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Find(&frames).Error
	return frames, err
}

// ListFramesByGalerie 相册内全部帧（级联删除用，不分页）
func (r *Repository) ListFramesByGalerie(ctx context.Context, galerieID uint) ([]*models.Frame, error) {
	var frames []*models.Frame
	err := preloadPictures(r.db.WithContext(ctx)).
		Where("galerie_id = ?", galerieID).
		Find(&frames).Error
	return frames, err
}

// ListFramesByUserInGalerie 用户在某相册内发布的帧（退订级联用）
func (r *Repository) ListFramesByUserInGalerie(ctx context.Context, userID, galerieID uint) ([]*models.Frame, error) {
	var frames []*models.Frame
	err := preloadPictures(r.db.WithContext(ctx)).
		Where("user_id = ? AND galerie_id = ?", userID, galerieID).
		Find(&frames).Error
	return frames, err
}

// GetLike 查询点赞记录
func (r *Repository) GetLike(ctx context.Context, frameID, userID uint) (*models.Like, error) {
	var like models.Like
	err := r.db.WithContext(ctx).
		Where("frame_id = ? AND user_id = ?", frameID, userID).
		First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &like, nil
}

// ToggleLike 点赞开关：存在则删除并自减，不存在则创建并自增
// (frameId, userId) 唯一约束兜底并发双重点赞；返回 liked=点赞后的状态
func (r *Repository) ToggleLike(ctx context.Context, like *models.Like) (liked bool, err error) {
	err = r.db.TransactionWithContext(ctx, func(tx *gorm.DB) error {
		var existing models.Like
		findErr := tx.Where("frame_id = ? AND user_id = ?", like.FrameID, like.UserID).
			First(&existing).Error

		switch {
		case findErr == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			liked = false
			return tx.Model(&models.Frame{}).Where("id = ?", like.FrameID).
				Update("num_of_likes", gorm.Expr("num_of_likes - 1")).Error

		case errors.Is(findErr, gorm.ErrRecordNotFound):
			if err := tx.Create(like).Error; err != nil {
				return err
			}
			liked = true
			return tx.Model(&models.Frame{}).Where("id = ?", like.FrameID).
				Update("num_of_likes", gorm.Expr("num_of_likes + 1")).Error

		default:
			return findErr
		}
	})
	return liked, err
}

// ListLikes 帧点赞列表，游标分页
func (r *Repository) ListLikes(ctx context.Context, frameID uint, previous uint) ([]*models.Like, error) {
	var likes []*models.Like
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Preload("User").
		Where("frame_id = ?", frameID).
		Scopes(database.CursorScope(previous, database.DefaultPageSize)).
		Find(&likes).Error
	return likes, err
}

// DeleteLikesByUser 删除用户的全部点赞并回写计数（账号删除级联）
func (r *Repository) DeleteLikesByUser(tx *gorm.DB, userID uint) error {
	var likes []models.Like
	if err := tx.Where("user_id = ?", userID).Find(&likes).Error; err != nil {
		return err
	}
	for _, like := range likes {
		if err := tx.Model(&models.Frame{}).Where("id = ?", like.FrameID).
			Update("num_of_likes", gorm.Expr("num_of_likes - 1")).Error; err != nil {
			return err
		}
	}
	return tx.Where("user_id = ?", userID).Delete(&models.Like{}).Error
}

// DeleteLikesByFrame 帧删除级联：帧自身随后消失，计数不回写
func (r *Repository) DeleteLikesByFrame(tx *gorm.DB, frameID uint) error {
	return tx.Where("frame_id = ?", frameID).Delete(&models.Like{}).Error
}

// DeletePicturesByFrame 删除帧下全部图片行
func (r *Repository) DeletePicturesByFrame(tx *gorm.DB, frameID uint) error {
	return tx.Where("frame_id = ?", frameID).Delete(&models.GaleriePicture{}).Error
}

// DeleteImages 按 ID 删除图片元数据
func (r *Repository) DeleteImages(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Where("id IN ?", ids).Delete(&models.Image{}).Error
}

// DeleteFrameRow 删除帧行本身
func (r *Repository) DeleteFrameRow(tx *gorm.DB, frameID uint) error {
	return tx.Delete(&models.Frame{}, frameID).Error
}

// DeleteProfilePictures 删除用户全部头像行
func (r *Repository) DeleteProfilePictures(tx *gorm.DB, userID uint) error {
	return tx.Where("user_id = ?", userID).Delete(&models.ProfilePicture{}).Error
}

// GetImagesByIDs 批量获取图片元数据
func (r *Repository) GetImagesByIDs(ctx context.Context, ids []uint) ([]*models.Image, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var images []*models.Image
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&images).Error
	return images, err
}

// CreateProfilePicture 创建头像（单事务，自动取消旧的 current）
func (r *Repository) CreateProfilePicture(ctx context.Context, picture *models.ProfilePicture) error {
	return r.db.TransactionWithContext(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&models.ProfilePicture{}).
			Where("user_id = ? AND current = ?", picture.UserID, true).
			Update("current", false).Error; err != nil {
			return err
		}
		picture.Current = true
		return tx.Create(picture).Error
	})
}

// GetCurrentProfilePicture 当前头像
func (r *Repository) GetCurrentProfilePicture(ctx context.Context, userID uint) (*models.ProfilePicture, error) {
	var picture models.ProfilePicture
	err := r.db.WithContext(ctx).
		Preload("OriginalImage").Preload("CroppedImage").Preload("PendingImage").
		Where("user_id = ? AND current = ?", userID, true).
		First(&picture).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &picture, nil
}

// GetProfilePictureByUUID 通过公开 UUID 查询用户自己的头像
func (r *Repository) GetProfilePictureByUUID(ctx context.Context, userID uint, uuid string) (*models.ProfilePicture, error) {
	var picture models.ProfilePicture
	err := r.db.WithContext(ctx).
		Preload("OriginalImage").Preload("CroppedImage").Preload("PendingImage").
		Where("user_id = ? AND uuid = ?", userID, uuid).
		First(&picture).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &picture, nil
}

// SetCurrentProfilePicture 切换当前头像（单事务取消旧的 current）
func (r *Repository) SetCurrentProfilePicture(ctx context.Context, userID, pictureID uint) error {
	return r.db.TransactionWithContext(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&models.ProfilePicture{}).
			Where("user_id = ? AND current = ?", userID, true).
			Update("current", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.ProfilePicture{}).
			Where("id = ? AND user_id = ?", pictureID, userID).
			Update("current", true).Error
	})
}

// DeleteProfilePicture 删除单个头像行及其图片元数据
func (r *Repository) DeleteProfilePicture(ctx context.Context, picture *models.ProfilePicture) error {
	return r.db.TransactionWithContext(ctx, func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ProfilePicture{}, picture.ID).Error; err != nil {
			return err
		}
		if ids := picture.ImageIDs(); len(ids) > 0 {
			return tx.Where("id IN ?", ids).Delete(&models.Image{}).Error
		}
		return nil
	})
}

// ListProfilePictures 用户头像列表（级联删除用）
func (r *Repository) ListProfilePictures(ctx context.Context, userID uint) ([]*models.ProfilePicture, error) {
	var pictures []*models.ProfilePicture
	err := r.db.WithContext(ctx).
		Preload("OriginalImage").Preload("CroppedImage").Preload("PendingImage").
		Where("user_id = ?", userID).
		Find(&pictures).Error
	return pictures, err
}

// UpdatePictureCropped 裁剪完成：写入 cropped 外键并清空 pending
func (r *Repository) UpdatePictureCropped(ctx context.Context, pictureID uint, croppedImageID uint) error {
	return r.db.WithContext(ctx).Model(&models.GaleriePicture{}).Where("id = ?", pictureID).
		Updates(map[string]interface{}{
			"cropped_image_id": croppedImageID,
			"pending_image_id": nil,
		}).Error
}

// UpdateProfilePictureCropped 头像裁剪完成回写
func (r *Repository) UpdateProfilePictureCropped(ctx context.Context, pictureID uint, croppedImageID uint) error {
	return r.db.WithContext(ctx).Model(&models.ProfilePicture{}).Where("id = ?", pictureID).
		Updates(map[string]interface{}{
			"cropped_image_id": croppedImageID,
			"pending_image_id": nil,
		}).Error
}

// DeleteImageByID 删除单条图片元数据
func (r *Repository) DeleteImageByID(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Image{}, id).Error
}

// CreateImage 写入图片元数据
func (r *Repository) CreateImage(ctx context.Context, image *models.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}
