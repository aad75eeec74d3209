package content

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/database/repo/frames"
	"github.com/galeries/galeries-server/internal/worker"
	"github.com/galeries/galeries-server/storage"
	"github.com/galeries/galeries-server/utils"
	"github.com/google/uuid"
)

// ProfilePictureService 头像上传与切换，裁剪流水线与帧图片共用
type ProfilePictureService struct {
	frames          *FrameService
	framesRepo      *frames.Repository
	storageProvider storage.Provider
	pool            *worker.Pool
	bucketName      string
}

// NewProfilePictureService 创建头像服务
func NewProfilePictureService(
	frameService *FrameService,
	framesRepo *frames.Repository,
	storageProvider storage.Provider,
	pool *worker.Pool,
	bucketName string,
) *ProfilePictureService {
	return &ProfilePictureService{
		frames:          frameService,
		framesRepo:      framesRepo,
		storageProvider: storageProvider,
		pool:            pool,
		bucketName:      bucketName,
	}
}

// Upload 上传头像并设为当前，方图裁切入队后台处理
func (s *ProfilePictureService) Upload(ctx context.Context, user *models.User, upload UploadedImage) (*models.ProfilePicture, error) {
	variant, err := s.frames.storeUpload(ctx, upload)
	if err != nil {
		return nil, err
	}

	picture := &models.ProfilePicture{
		UUID:          uuid.New().String(),
		UserID:        user.ID,
		OriginalImage: variant.original,
		PendingImage:  variant.pending,
	}
	if err := s.framesRepo.CreateProfilePicture(ctx, picture); err != nil {
		return nil, fmt.Errorf("failed to create profile picture: %w", err)
	}

	pictureID := picture.ID
	task := worker.NewCropTask(
		s.framesRepo, s.storageProvider, s.bucketName,
		picture.OriginalImage.FileName, picture.OriginalImage.Format,
		picture.PendingImage.ID, picture.PendingImage.FileName,
		func(ctx context.Context, croppedImageID uint) error {
			return s.framesRepo.UpdateProfilePictureCropped(ctx, pictureID, croppedImageID)
		},
	)
	s.pool.TrySubmit(task, 3, time.Second)

	return picture, nil
}

// SetCurrent 切换当前头像，返回是否找到
func (s *ProfilePictureService) SetCurrent(ctx context.Context, user *models.User, pictureUUID string) (bool, error) {
	picture, err := s.framesRepo.GetProfilePictureByUUID(ctx, user.ID, pictureUUID)
	if err != nil {
		return false, fmt.Errorf("failed to get profile picture: %w", err)
	}
	if picture == nil {
		return false, nil
	}
	if err := s.framesRepo.SetCurrentProfilePicture(ctx, user.ID, picture.ID); err != nil {
		return false, fmt.Errorf("failed to set current profile picture: %w", err)
	}
	return true, nil
}

// Delete 删除头像行与图片元数据，桶内对象删库成功后尽力清理
func (s *ProfilePictureService) Delete(ctx context.Context, user *models.User, pictureUUID string) (bool, error) {
	picture, err := s.framesRepo.GetProfilePictureByUUID(ctx, user.ID, pictureUUID)
	if err != nil {
		return false, fmt.Errorf("failed to get profile picture: %w", err)
	}
	if picture == nil {
		return false, nil
	}
	if err := s.framesRepo.DeleteProfilePicture(ctx, picture); err != nil {
		return false, fmt.Errorf("failed to delete profile picture: %w", err)
	}

	objects := make([]string, 0, 3)
	for _, img := range []*models.Image{picture.OriginalImage, picture.CroppedImage, picture.PendingImage} {
		if img != nil {
			objects = append(objects, img.FileName)
		}
	}
	utils.SafeGo(func() {
		purgeCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		for _, fileName := range objects {
			if err := s.storageProvider.DeleteWithContext(purgeCtx, fileName); err != nil {
				log.Printf("Failed to delete object %s: %v", utils.SanitizeLogMessage(fileName), err)
			}
		}
	})
	return true, nil
}
