package moderation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/database/repo/accounts"
	"github.com/galeries/galeries-server/database/repo/blacklists"
	"github.com/galeries/galeries-server/database/repo/galeries"
	"github.com/google/uuid"
)

// ErrInvalidDuration 封禁时长超出允许区间
var ErrInvalidDuration = errors.New("black list duration out of range")

// roleNotifier 角色变更通知入口，nil 时跳过
type roleNotifier interface {
	NotifyRoleChange(ctx context.Context, targetID uint, newRole string, galerieID *uint) error
}

// Service 黑名单与角色管制服务
type Service struct {
	accountsRepo   *accounts.Repository
	blackListsRepo *blacklists.Repository
	galeriesRepo   *galeries.Repository
	notifier       roleNotifier
}

// NewService 创建管制服务
func NewService(
	accountsRepo *accounts.Repository,
	blackListsRepo *blacklists.Repository,
	galeriesRepo *galeries.Repository,
	notifier roleNotifier,
) *Service {
	return &Service{
		accountsRepo:   accountsRepo,
		blackListsRepo: blackListsRepo,
		galeriesRepo:   galeriesRepo,
		notifier:       notifier,
	}
}

// validateDuration nil 表示永久封禁
func validateDuration(timeMs *int64) error {
	if timeMs == nil {
		return nil
	}
	if *timeMs < models.BlackListMinTimeMs || *timeMs > models.BlackListMaxTimeMs {
		return ErrInvalidDuration
	}
	return nil
}

// BlackListUser 全局拉黑。阶梯校验、重复检查后落库。
func (s *Service) BlackListUser(ctx context.Context, actor, target *models.User, reason string, timeMs *int64) (*models.BlackList, error) {
	if err := CanBlackListGlobal(actor, target); err != nil {
		return nil, err
	}
	if err := validateDuration(timeMs); err != nil {
		return nil, err
	}

	existing, err := s.blackListsRepo.ActiveGlobalBlackList(ctx, target.ID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to check existing black list: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyBlackListed
	}

	actorID := actor.ID
	blackList := &models.BlackList{
		UUID:        uuid.New().String(),
		Reason:      reason,
		Time:        timeMs,
		Active:      true,
		UserID:      target.ID,
		CreatedByID: &actorID,
	}
	if err := s.blackListsRepo.CreateGlobalBlackList(ctx, blackList); err != nil {
		return nil, fmt.Errorf("failed to create black list: %w", err)
	}
	if err := s.blackListsRepo.NullGalerieAuthorRefsForUser(ctx, target.ID); err != nil {
		return nil, fmt.Errorf("failed to null galerie black list authors: %w", err)
	}
	s.accountsRepo.InvalidateUser(target.ID)
	return blackList, nil
}

// UpdateBlackListTime 调整有效封禁的时长
func (s *Service) UpdateBlackListTime(ctx context.Context, actor *models.User, blackListUUID string, timeMs *int64) (*models.BlackList, error) {
	if err := validateDuration(timeMs); err != nil {
		return nil, err
	}

	blackList, err := s.blackListsRepo.GetGlobalBlackListByUUID(ctx, blackListUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get black list: %w", err)
	}
	if blackList == nil || !blackList.EffectiveAt(time.Now()) {
		return nil, nil
	}
	if err := CanBlackListGlobal(actor, &blackList.User); err != nil {
		return nil, err
	}

	if err := s.blackListsRepo.UpdateGlobalBlackListTime(ctx, blackList.ID, timeMs, actor.ID); err != nil {
		return nil, fmt.Errorf("failed to update black list: %w", err)
	}
	blackList.Time = timeMs
	actorID := actor.ID
	blackList.UpdatedByID = &actorID
	return blackList, nil
}

// UnBlackListUser 解除全局拉黑，行保留
func (s *Service) UnBlackListUser(ctx context.Context, actor, target *models.User) error {
	if err := CanBlackListGlobal(actor, target); err != nil {
		return err
	}
	if err := s.blackListsRepo.DeactivateGlobalBlackList(ctx, target.ID); err != nil {
		return fmt.Errorf("failed to deactivate black list: %w", err)
	}
	s.accountsRepo.InvalidateUser(target.ID)
	return nil
}

// BlackListGalerieUser 相册内拉黑。创建黑名单行并原子移除成员资格。
func (s *Service) BlackListGalerieUser(ctx context.Context, galerie *models.Galerie, actor *models.User, actorMembership *models.GalerieUser, target *models.User) (*models.GalerieBlackList, error) {
	targetMembership, err := s.galeriesRepo.GetMembership(ctx, galerie.ID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if targetMembership == nil {
		return nil, nil
	}
	if err := CanBlackListInGalerie(actorMembership, targetMembership); err != nil {
		return nil, err
	}

	existing, err := s.blackListsRepo.ActiveGalerieBlackList(ctx, galerie.ID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing black list: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyBlackListed
	}

	actorID := actor.ID
	blackList := &models.GalerieBlackList{
		UUID:        uuid.New().String(),
		GalerieID:   galerie.ID,
		UserID:      target.ID,
		CreatedByID: &actorID,
	}
	if err := s.blackListsRepo.CreateGalerieBlackList(ctx, blackList); err != nil {
		return nil, fmt.Errorf("failed to create galerie black list: %w", err)
	}
	return blackList, nil
}

// UnBlackListGalerieUser 解除相册内拉黑；不恢复成员资格
func (s *Service) UnBlackListGalerieUser(ctx context.Context, galerie *models.Galerie, blackListUUID string) (bool, error) {
	blackList, err := s.blackListsRepo.GetGalerieBlackListByUUID(ctx, galerie.ID, blackListUUID)
	if err != nil {
		return false, fmt.Errorf("failed to get galerie black list: %w", err)
	}
	if blackList == nil {
		return false, nil
	}
	if err := s.blackListsRepo.DeleteGalerieBlackList(ctx, blackList.ID); err != nil {
		return false, fmt.Errorf("failed to delete galerie black list: %w", err)
	}
	return true, nil
}

// ChangeUserRole 全局角色变更
func (s *Service) ChangeUserRole(ctx context.Context, actor, target *models.User, newRole string) error {
	if err := CanChangeGlobalRole(actor, target, newRole); err != nil {
		return err
	}
	if err := s.accountsRepo.UpdateRole(ctx, target.ID, newRole); err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyRoleChange(ctx, target.ID, newRole, nil); err != nil {
			log.Printf("Failed to notify role change for user %d: %v", target.ID, err)
		}
	}
	return nil
}

// IsBlackListed 读取时计算的有效拉黑状态
func (s *Service) IsBlackListed(ctx context.Context, userID uint) (bool, error) {
	return s.blackListsRepo.IsBlackListed(ctx, userID, time.Now())
}
