package content

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/galeries/galeries-server/cache"
	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/database/repo/blacklists"
	"github.com/galeries/galeries-server/database/repo/frames"
	"github.com/galeries/galeries-server/storage"
	"github.com/galeries/galeries-server/utils"
)

// VisibilityService 渲染期的可见性过滤：
// 没有任何图片或签名失败的帧从响应中剔除并排队删除（自愈）；
// isBlackListed 永远按读取时刻计算，不直接暴露存量标记。
type VisibilityService struct {
	framesRepo      *frames.Repository
	blackListsRepo  *blacklists.Repository
	storageProvider storage.Provider
	cacheProvider   cache.Provider
	deletionService *DeletionService

	signedURLExpiry time.Duration
	signedURLTTL    int
}

// NewVisibilityService 创建可见性服务
func NewVisibilityService(
	framesRepo *frames.Repository,
	blackListsRepo *blacklists.Repository,
	storageProvider storage.Provider,
	cacheProvider cache.Provider,
	deletionService *DeletionService,
	signedURLExpiry time.Duration,
	signedURLTTLSeconds int,
) *VisibilityService {
	return &VisibilityService{
		framesRepo:      framesRepo,
		blackListsRepo:  blackListsRepo,
		storageProvider: storageProvider,
		cacheProvider:   cacheProvider,
		deletionService: deletionService,
		signedURLExpiry: signedURLExpiry,
		signedURLTTL:    signedURLTTLSeconds,
	}
}

// signImage 生成签名 URL，缓存命中时直接返回
func (s *VisibilityService) signImage(ctx context.Context, img *models.Image) error {
	if img == nil {
		return nil
	}
	key := cache.SignedURLKey.Build(img.BucketName, img.FileName)

	if s.cacheProvider != nil {
		var cached string
		if err := s.cacheProvider.Get(key, &cached); err == nil && cached != "" {
			img.SignedURL = cached
			return nil
		}
	}

	url, err := s.storageProvider.SignedURL(ctx, img.FileName, s.signedURLExpiry)
	if err != nil {
		return fmt.Errorf("failed to sign %s: %w", img.FileName, err)
	}
	img.SignedURL = url

	if s.cacheProvider != nil {
		if err := s.cacheProvider.Set(key, url, time.Duration(s.signedURLTTL)*time.Second); err != nil {
			log.Printf("Failed to cache signed URL: %v", err)
		}
	}
	return nil
}

// signFrame 为帧的全部图片变体补签名 URL
func (s *VisibilityService) signFrame(ctx context.Context, frame *models.Frame) error {
	if len(frame.GaleriePictures) == 0 {
		return fmt.Errorf("frame %d has no pictures", frame.ID)
	}
	for i := range frame.GaleriePictures {
		picture := &frame.GaleriePictures[i]
		for _, img := range []*models.Image{picture.OriginalImage, picture.CroppedImage, picture.PendingImage} {
			if img == nil {
				continue
			}
			if err := s.signImage(ctx, img); err != nil {
				return err
			}
		}
	}
	return nil
}

// DecorateFrames 过滤并装饰帧列表。坏帧被剔除并异步排队删除，
// 不影响本次响应。
func (s *VisibilityService) DecorateFrames(ctx context.Context, list []*models.Frame) ([]*models.Frame, error) {
	visible := make([]*models.Frame, 0, len(list))
	for _, frame := range list {
		if err := s.signFrame(ctx, frame); err != nil {
			log.Printf("Dropping broken frame %d: %v", frame.ID, err)
			s.queueFrameDeletion(frame)
			continue
		}
		visible = append(visible, frame)
	}
	return visible, nil
}

// DecorateFrame 单帧装饰；坏帧排队删除并返回 nil（对外等同不存在）
func (s *VisibilityService) DecorateFrame(ctx context.Context, frame *models.Frame) (*models.Frame, error) {
	if frame == nil {
		return nil, nil
	}
	if err := s.signFrame(ctx, frame); err != nil {
		log.Printf("Dropping broken frame %d: %v", frame.ID, err)
		s.queueFrameDeletion(frame)
		return nil, nil
	}
	return frame, nil
}

// queueFrameDeletion 自愈：后台清除坏帧
func (s *VisibilityService) queueFrameDeletion(frame *models.Frame) {
	utils.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.deletionService.DeleteFrame(ctx, frame); err != nil {
			log.Printf("Self-healing frame deletion failed for %d: %v", frame.ID, err)
		}
	})
}

// DecorateUser 计算有效拉黑状态并附上当前头像
func (s *VisibilityService) DecorateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return nil
	}
	blackListed, err := s.blackListsRepo.IsBlackListed(ctx, user.ID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to compute black list status: %w", err)
	}
	user.IsBlackListed = blackListed

	picture, err := s.framesRepo.GetCurrentProfilePicture(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to get profile picture: %w", err)
	}
	if picture != nil {
		for _, img := range []*models.Image{picture.OriginalImage, picture.CroppedImage, picture.PendingImage} {
			if img == nil {
				continue
			}
			if err := s.signImage(ctx, img); err != nil {
				log.Printf("Failed to sign profile picture for user %d: %v", user.ID, err)
				return nil
			}
		}
		user.CurrentProfilePicture = picture
	}
	return nil
}

// DecorateProfilePictures 为头像列表补签名 URL
func (s *VisibilityService) DecorateProfilePictures(ctx context.Context, pictures []*models.ProfilePicture) error {
	for _, picture := range pictures {
		for _, img := range []*models.Image{picture.OriginalImage, picture.CroppedImage, picture.PendingImage} {
			if img == nil {
				continue
			}
			if err := s.signImage(ctx, img); err != nil {
				return err
			}
		}
	}
	return nil
}

// DecorateUsers 批量装饰用户
func (s *VisibilityService) DecorateUsers(ctx context.Context, users []*models.User) error {
	for _, user := range users {
		if err := s.DecorateUser(ctx, user); err != nil {
			return err
		}
	}
	return nil
}
