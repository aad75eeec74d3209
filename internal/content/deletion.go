package content

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/galeries/galeries-server/database"
	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/database/repo/accounts"
	"github.com/galeries/galeries-server/database/repo/betakeys"
	"github.com/galeries/galeries-server/database/repo/blacklists"
	"github.com/galeries/galeries-server/database/repo/frames"
	"github.com/galeries/galeries-server/database/repo/galeries"
	"github.com/galeries/galeries-server/database/repo/invitations"
	"github.com/galeries/galeries-server/database/repo/notifications"
	"github.com/galeries/galeries-server/database/repo/reports"
	"github.com/galeries/galeries-server/storage"
	"github.com/galeries/galeries-server/utils"
	"gorm.io/gorm"
)

// planStep 删除计划中的一个有序步骤
type planStep struct {
	name string
	run  func(tx *gorm.DB) error
}

// deletionPlan 级联删除的显式有序计划。数据库步骤在单事务内
// 顺序执行；对象存储删除在提交后尽力而为，失败只记日志。
type deletionPlan struct {
	name          string
	steps         []planStep
	bucketObjects []string
}

func newPlan(name string) *deletionPlan {
	return &deletionPlan{name: name}
}

func (p *deletionPlan) add(name string, run func(tx *gorm.DB) error) {
	p.steps = append(p.steps, planStep{name: name, run: run})
}

func (p *deletionPlan) markObject(fileName string) {
	p.bucketObjects = append(p.bucketObjects, fileName)
}

// markImages 收集图片对应的桶对象
func (p *deletionPlan) markImages(images []*models.Image) {
	for _, img := range images {
		p.markObject(img.FileName)
	}
}

// DeletionService 级联删除编排
type DeletionService struct {
	db              database.Provider
	accountsRepo    *accounts.Repository
	betaKeysRepo    *betakeys.Repository
	blackListsRepo  *blacklists.Repository
	framesRepo      *frames.Repository
	galeriesRepo    *galeries.Repository
	invitationsRepo *invitations.Repository
	notifsRepo      *notifications.Repository
	reportsRepo     *reports.Repository
	storageProvider storage.Provider
}

// NewDeletionService 创建删除编排服务
func NewDeletionService(
	db database.Provider,
	accountsRepo *accounts.Repository,
	betaKeysRepo *betakeys.Repository,
	blackListsRepo *blacklists.Repository,
	framesRepo *frames.Repository,
	galeriesRepo *galeries.Repository,
	invitationsRepo *invitations.Repository,
	notifsRepo *notifications.Repository,
	reportsRepo *reports.Repository,
	storageProvider storage.Provider,
) *DeletionService {
	return &DeletionService{
		db:              db,
		accountsRepo:    accountsRepo,
		betaKeysRepo:    betaKeysRepo,
		blackListsRepo:  blackListsRepo,
		framesRepo:      framesRepo,
		galeriesRepo:    galeriesRepo,
		invitationsRepo: invitationsRepo,
		notifsRepo:      notifsRepo,
		reportsRepo:     reportsRepo,
		storageProvider: storageProvider,
	}
}

// runPlan 事务内执行全部步骤，提交后异步清理桶对象
func (s *DeletionService) runPlan(ctx context.Context, plan *deletionPlan) error {
	err := s.db.TransactionWithContext(ctx, func(tx *gorm.DB) error {
		for _, step := range plan.steps {
			if err := step.run(tx); err != nil {
				return fmt.Errorf("step %q: %w", step.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("deletion plan %q failed: %w", plan.name, err)
	}

	if len(plan.bucketObjects) > 0 {
		objects := plan.bucketObjects
		utils.SafeGo(func() {
			cleanCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			for _, fileName := range objects {
				if err := s.storageProvider.DeleteWithContext(cleanCtx, fileName); err != nil {
					log.Printf("Best-effort bucket delete failed for %s: %v",
						utils.SanitizeLogMessage(fileName), err)
				}
			}
		})
	}
	return nil
}

// addFrameSteps 帧级联：likes → reports → 通知重写 → 图片行 → 图片元数据 → 帧行
func (s *DeletionService) addFrameSteps(plan *deletionPlan, frame *models.Frame) {
	frameID := frame.ID
	imageIDs := make([]uint, 0)
	for i := range frame.GaleriePictures {
		picture := &frame.GaleriePictures[i]
		imageIDs = append(imageIDs, picture.ImageIDs()...)
		for _, img := range []*models.Image{picture.OriginalImage, picture.CroppedImage, picture.PendingImage} {
			if img != nil {
				plan.markObject(img.FileName)
			}
		}
	}

	plan.add("frame likes", func(tx *gorm.DB) error {
		return s.framesRepo.DeleteLikesByFrame(tx, frameID)
	})
	plan.add("frame reports", func(tx *gorm.DB) error {
		return s.reportsRepo.DeleteByFrame(tx, frameID)
	})
	plan.add("frame notifications", func(tx *gorm.DB) error {
		return s.notifsRepo.RewriteForFrameDelete(tx, frameID)
	})
	plan.add("frame pictures", func(tx *gorm.DB) error {
		return s.framesRepo.DeletePicturesByFrame(tx, frameID)
	})
	plan.add("frame images", func(tx *gorm.DB) error {
		return s.framesRepo.DeleteImages(tx, imageIDs)
	})
	plan.add("frame row", func(tx *gorm.DB) error {
		return s.framesRepo.DeleteFrameRow(tx, frameID)
	})
}

// DeleteFrame 删除单个帧
func (s *DeletionService) DeleteFrame(ctx context.Context, frame *models.Frame) error {
	plan := newPlan(fmt.Sprintf("frame %d", frame.ID))
	s.addFrameSteps(plan, frame)
	return s.runPlan(ctx, plan)
}

// addGalerieSteps 相册级联：全部帧 → 邀请码 → 成员 → 相册黑名单 → 相册作用域通知 → 相册行
func (s *DeletionService) addGalerieSteps(ctx context.Context, plan *deletionPlan, galerieID uint) error {
	galerieFrames, err := s.framesRepo.ListFramesByGalerie(ctx, galerieID)
	if err != nil {
		return fmt.Errorf("failed to list frames: %w", err)
	}
	for _, frame := range galerieFrames {
		s.addFrameSteps(plan, frame)
	}

	plan.add("galerie invitations", func(tx *gorm.DB) error {
		return s.invitationsRepo.DeleteByGalerie(tx, galerieID)
	})
	plan.add("galerie users", func(tx *gorm.DB) error {
		return tx.Where("galerie_id = ?", galerieID).Delete(&models.GalerieUser{}).Error
	})
	plan.add("galerie black lists", func(tx *gorm.DB) error {
		return tx.Where("galerie_id = ?", galerieID).Delete(&models.GalerieBlackList{}).Error
	})
	plan.add("galerie notifications", func(tx *gorm.DB) error {
		return s.notifsRepo.DeleteByGalerie(tx, galerieID)
	})
	plan.add("galerie row", func(tx *gorm.DB) error {
		return tx.Delete(&models.Galerie{}, galerieID).Error
	})
	return nil
}

// DeleteGalerie 删除相册及其全部内容
func (s *DeletionService) DeleteGalerie(ctx context.Context, galerie *models.Galerie) error {
	plan := newPlan(fmt.Sprintf("galerie %d", galerie.ID))
	if err := s.addGalerieSteps(ctx, plan, galerie.ID); err != nil {
		return err
	}
	return s.runPlan(ctx, plan)
}

// DeleteUser 账号删除编排。
// 每个相册：唯一成员则整册级联删除；还有其他成员则 archived=true 并摘除创建者成员行。
// 随后删除其所有帧、点赞（回写计数）、邀请码、头像、举报记录，
// 并把其签发的黑名单 createdBy/updatedBy 置空以保留封禁记录。
func (s *DeletionService) DeleteUser(ctx context.Context, user *models.User) error {
	plan := newPlan(fmt.Sprintf("user %d", user.ID))
	userID := user.ID

	memberships, err := s.galeriesRepo.ListMemberships(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list memberships: %w", err)
	}
	for _, membership := range memberships {
		galerieID := membership.GalerieID
		count, err := s.galeriesRepo.CountMembers(ctx, galerieID)
		if err != nil {
			return fmt.Errorf("failed to count members: %w", err)
		}
		if count <= 1 {
			if err := s.addGalerieSteps(ctx, plan, galerieID); err != nil {
				return err
			}
			continue
		}
		if membership.Role == models.GalerieRoleCreator {
			plan.add("archive galerie", func(tx *gorm.DB) error {
				return tx.Model(&models.Galerie{}).Where("id = ?", galerieID).
					Update("archived", true).Error
			})
		}
		plan.add("drop membership", func(tx *gorm.DB) error {
			return tx.Where("galerie_id = ? AND user_id = ?", galerieID, userID).
				Delete(&models.GalerieUser{}).Error
		})
	}

	// 留存相册中用户发布的帧也一并删除
	userFrames, err := s.framesRepo.ListFramesByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list frames: %w", err)
	}
	for _, frame := range userFrames {
		s.addFrameSteps(plan, frame)
	}

	profilePictures, err := s.framesRepo.ListProfilePictures(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list profile pictures: %w", err)
	}
	profileImageIDs := make([]uint, 0)
	for _, picture := range profilePictures {
		for _, img := range []*models.Image{picture.OriginalImage, picture.CroppedImage, picture.PendingImage} {
			if img != nil {
				profileImageIDs = append(profileImageIDs, img.ID)
				plan.markObject(img.FileName)
			}
		}
	}

	plan.add("user likes", func(tx *gorm.DB) error {
		return s.framesRepo.DeleteLikesByUser(tx, userID)
	})
	plan.add("user invitations", func(tx *gorm.DB) error {
		return s.invitationsRepo.DeleteByUser(tx, userID)
	})
	plan.add("user profile pictures", func(tx *gorm.DB) error {
		if err := s.framesRepo.DeleteProfilePictures(tx, userID); err != nil {
			return err
		}
		return s.framesRepo.DeleteImages(tx, profileImageIDs)
	})
	plan.add("user reports", func(tx *gorm.DB) error {
		return s.reportsRepo.DeleteUserReports(tx, userID)
	})
	plan.add("user notifications", func(tx *gorm.DB) error {
		if err := s.notifsRepo.DeleteByUser(tx, userID); err != nil {
			return err
		}
		return s.notifsRepo.DetachUser(tx, userID)
	})
	plan.add("null black list authors", func(tx *gorm.DB) error {
		if err := s.blackListsRepo.NullGlobalAuthorRefs(tx, userID); err != nil {
			return err
		}
		return s.blackListsRepo.NullGalerieAuthorRefs(tx, userID)
	})
	plan.add("null beta key refs", func(tx *gorm.DB) error {
		return s.betaKeysRepo.NullAuthorRefs(tx, userID)
	})
	plan.add("user row", func(tx *gorm.DB) error {
		return tx.Delete(&models.User{}, userID).Error
	})

	if err := s.runPlan(ctx, plan); err != nil {
		return err
	}
	s.accountsRepo.InvalidateUser(userID)
	return nil
}
