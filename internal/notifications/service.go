package notifications

import (
	"context"
	"fmt"

	"github.com/galeries/galeries-server/database"
	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/database/repo/accounts"
	"github.com/galeries/galeries-server/database/repo/galeries"
	"github.com/galeries/galeries-server/database/repo/notifications"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service 通知扇出服务。事件落到每个接收者的 (type, 作用域) 聚合行上：
// 未读行存在则计数递增并补关联实体，否则新建 num=1 的行。
type Service struct {
	db                database.Provider
	accountsRepo      *accounts.Repository
	galeriesRepo      *galeries.Repository
	notificationsRepo *notifications.Repository
}

// NewService 创建通知服务
func NewService(
	db database.Provider,
	accountsRepo *accounts.Repository,
	galeriesRepo *galeries.Repository,
	notificationsRepo *notifications.Repository,
) *Service {
	return &Service{
		db:                db,
		accountsRepo:      accountsRepo,
		galeriesRepo:      galeriesRepo,
		notificationsRepo: notificationsRepo,
	}
}

// upsert 未读聚合行存在则递增，否则新建；返回行 ID 供关联表挂载
func (s *Service) upsert(tx *gorm.DB, userID uint, notifType string, scope notifications.Scope) (uint, error) {
	existing, err := s.notificationsRepo.GetUnseen(tx, userID, notifType, scope)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		if err := s.notificationsRepo.Increment(tx, existing.ID); err != nil {
			return 0, err
		}
		return existing.ID, nil
	}

	notification := &models.Notification{
		UUID:      uuid.New().String(),
		UserID:    userID,
		Type:      notifType,
		GalerieID: scope.GalerieID,
		FrameID:   scope.FrameID,
		Role:      scope.Role,
	}
	if err := s.notificationsRepo.Create(tx, notification); err != nil {
		return 0, err
	}
	return notification.ID, nil
}

// flagRecipient 置位红点，缓存同步失效
func (s *Service) flagRecipient(ctx context.Context, userID uint) {
	if err := s.accountsRepo.SetHasNewNotifications(ctx, userID, true); err == nil {
		s.accountsRepo.InvalidateUser(userID)
	}
}

// NotifyFrameLiked 点赞事件通知图框作者
func (s *Service) NotifyFrameLiked(ctx context.Context, frame *models.Frame, likedByID uint) error {
	if frame.UserID == likedByID {
		return nil
	}
	frameID := frame.ID
	err := s.db.TransactionWithContext(ctx, func(tx *gorm.DB) error {
		notifID, err := s.upsert(tx, frame.UserID, models.NotificationFrameLikedType, notifications.Scope{FrameID: &frameID})
		if err != nil {
			return err
		}
		return s.notificationsRepo.AddFrameLiked(tx, notifID, likedByID)
	})
	if err != nil {
		return fmt.Errorf("failed to notify frame liked: %w", err)
	}
	s.flagRecipient(ctx, frame.UserID)
	return nil
}

// RetractFrameLiked 取消点赞的逆事件，计数回退，减到 0 整行消失
func (s *Service) RetractFrameLiked(ctx context.Context, frame *models.Frame, likedByID uint) error {
	frameID := frame.ID
	err := s.db.TransactionWithContext(ctx, func(tx *gorm.DB) error {
		existing, err := s.notificationsRepo.GetUnseen(tx, frame.UserID, models.NotificationFrameLikedType, notifications.Scope{FrameID: &frameID})
		if err != nil {
			return err
		}
		if existing == nil {
			return nil
		}
		if err := s.notificationsRepo.RemoveFrameLiked(tx, existing.ID, likedByID); err != nil {
			return err
		}
		return s.notificationsRepo.Decrement(tx, existing.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to retract frame liked: %w", err)
	}
	return nil
}

// NotifyFramePosted 新图框事件通知相册内允许接收通知的成员
func (s *Service) NotifyFramePosted(ctx context.Context, galerie *models.Galerie, frame *models.Frame) error {
	members, err := s.galeriesRepo.ListNotifiableMembers(ctx, galerie.ID, frame.UserID, 0)
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}

	galerieID := galerie.ID
	err = s.db.TransactionWithContext(ctx, func(tx *gorm.DB) error {
		for _, member := range members {
			notifID, err := s.upsert(tx, member.UserID, models.NotificationFramePostedType, notifications.Scope{GalerieID: &galerieID})
			if err != nil {
				return err
			}
			if err := s.notificationsRepo.AddFramePosted(tx, notifID, frame.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to notify frame posted: %w", err)
	}
	for _, member := range members {
		s.flagRecipient(ctx, member.UserID)
	}
	return nil
}

// NotifyUserSubscribe 新成员事件通知相册 moderator 及以上
func (s *Service) NotifyUserSubscribe(ctx context.Context, galerie *models.Galerie, subscribedID uint) error {
	members, err := s.galeriesRepo.ListNotifiableMembers(ctx, galerie.ID, subscribedID,
		models.GalerieRoleRank(models.GalerieRoleModerator))
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}

	galerieID := galerie.ID
	err = s.db.TransactionWithContext(ctx, func(tx *gorm.DB) error {
		for _, member := range members {
			notifID, err := s.upsert(tx, member.UserID, models.NotificationUserSubscribeType, notifications.Scope{GalerieID: &galerieID})
			if err != nil {
				return err
			}
			if err := s.notificationsRepo.AddUserSubscribe(tx, notifID, subscribedID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to notify user subscribe: %w", err)
	}
	for _, member := range members {
		s.flagRecipient(ctx, member.UserID)
	}
	return nil
}

// NotifyBetaKeyUsed 邀请码被消费，通知签发者
func (s *Service) NotifyBetaKeyUsed(ctx context.Context, betaKey *models.BetaKey, usedByID uint) error {
	if betaKey.CreatedByID == nil {
		return nil
	}
	recipientID := *betaKey.CreatedByID
	err := s.db.TransactionWithContext(ctx, func(tx *gorm.DB) error {
		notifID, err := s.upsert(tx, recipientID, models.NotificationBetaKeyUsedType, notifications.Scope{})
		if err != nil {
			return err
		}
		return s.notificationsRepo.AddBetaKeyUsed(tx, notifID, usedByID)
	})
	if err != nil {
		return fmt.Errorf("failed to notify beta key used: %w", err)
	}
	s.flagRecipient(ctx, recipientID)
	return nil
}

// NotifyRoleChange 角色变更通知目标本人。ROLE_CHANGE 不聚合计数，
// 每次变更都以角色作用域独立成行。
func (s *Service) NotifyRoleChange(ctx context.Context, targetID uint, newRole string, galerieID *uint) error {
	err := s.db.TransactionWithContext(ctx, func(tx *gorm.DB) error {
		_, err := s.upsert(tx, targetID, models.NotificationRoleChangeType, notifications.Scope{
			GalerieID: galerieID,
			Role:      newRole,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to notify role change: %w", err)
	}
	s.flagRecipient(ctx, targetID)
	return nil
}

// MarkSeen 标记已读并在无未读行时熄灭红点
func (s *Service) MarkSeen(ctx context.Context, user *models.User, notificationUUID string) (bool, error) {
	notification, err := s.notificationsRepo.GetByUUID(ctx, user.ID, notificationUUID)
	if err != nil {
		return false, fmt.Errorf("failed to get notification: %w", err)
	}
	if notification == nil {
		return false, nil
	}
	if err := s.notificationsRepo.MarkSeen(ctx, notification.ID); err != nil {
		return false, fmt.Errorf("failed to mark notification seen: %w", err)
	}
	return true, nil
}

// ClearFlag 拉取通知列表后熄灭红点
func (s *Service) ClearFlag(ctx context.Context, userID uint) {
	if err := s.accountsRepo.SetHasNewNotifications(ctx, userID, false); err == nil {
		s.accountsRepo.InvalidateUser(userID)
	}
}
