package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/database/repo/blacklists"
	"github.com/galeries/galeries-server/database/repo/galeries"
	"github.com/galeries/galeries-server/database/repo/invitations"
	"github.com/galeries/galeries-server/internal/moderation"
	"github.com/galeries/galeries-server/internal/notifications"
	"github.com/galeries/galeries-server/utils"
	cryptopackage "github.com/galeries/galeries-server/utils/crypto"
	"github.com/google/uuid"
)

var (
	// ErrGalerieArchived 退役相册只读
	ErrGalerieArchived = errors.New("this galerie is archived")
	// ErrAlreadySubscribed 已是相册成员
	ErrAlreadySubscribed = errors.New("you are already subscribed to this galerie")
	// ErrInvitationNotUsable 邀请码过期或次数耗尽
	ErrInvitationNotUsable = errors.New("this invitation is not usable")
	// ErrGalerieBlackListed 请求者被该相册拉黑
	ErrGalerieBlackListed = errors.New("you are black listed from this galerie")
	// ErrNotAllowed 相册内权限不足
	ErrNotAllowed = errors.New("your role does not allow you to do this")
	// ErrCreatorCannotLeave 创建者只能删除相册，不能退出
	ErrCreatorCannotLeave = errors.New("the creator can't unsubscribe from a galerie")
	// ErrWrongGalerieName 删除确认时名称不匹配
	ErrWrongGalerieName = errors.New("galerie name does not match")
	// ErrWrongPassword 删除确认时密码错误
	ErrWrongPassword = errors.New("wrong password")
)

// GalerieService 相册生命周期与成员管理
type GalerieService struct {
	galeriesRepo    *galeries.Repository
	invitationsRepo *invitations.Repository
	blackListsRepo  *blacklists.Repository
	notifier        *notifications.Service
	deletionService *DeletionService
}

// NewGalerieService 创建相册服务
func NewGalerieService(
	galeriesRepo *galeries.Repository,
	invitationsRepo *invitations.Repository,
	blackListsRepo *blacklists.Repository,
	notifier *notifications.Service,
	deletionService *DeletionService,
) *GalerieService {
	return &GalerieService{
		galeriesRepo:    galeriesRepo,
		invitationsRepo: invitationsRepo,
		blackListsRepo:  blackListsRepo,
		notifier:        notifier,
		deletionService: deletionService,
	}
}

// Create 创建相册，发起者成为 creator
func (s *GalerieService) Create(ctx context.Context, creator *models.User, name, description string) (*models.Galerie, error) {
	galerie := &models.Galerie{
		UUID:        uuid.New().String(),
		Name:        name,
		Description: description,
	}
	if err := s.galeriesRepo.CreateGalerie(ctx, galerie, creator.ID); err != nil {
		return nil, fmt.Errorf("failed to create galerie: %w", err)
	}
	return galerie, nil
}

// Update 修改名称/描述，相册 admin 及以上
func (s *GalerieService) Update(ctx context.Context, galerie *models.Galerie, membership *models.GalerieUser, globalRole string, updates map[string]interface{}) error {
	if galerie.Archived {
		return ErrGalerieArchived
	}
	if moderation.EffectiveGalerieRank(globalRole, membership.Role) < models.GalerieRoleRank(models.GalerieRoleAdmin) {
		return ErrNotAllowed
	}
	if err := s.galeriesRepo.UpdateGalerie(ctx, galerie.ID, updates); err != nil {
		return fmt.Errorf("failed to update galerie: %w", err)
	}
	return nil
}

// CreateInvitation 签发邀请码，相册 admin 及以上
func (s *GalerieService) CreateInvitation(ctx context.Context, galerie *models.Galerie, membership *models.GalerieUser, globalRole string, timeMs *int64, numOfInvits *int) (*models.Invitation, error) {
	if galerie.Archived {
		return nil, ErrGalerieArchived
	}
	if moderation.EffectiveGalerieRank(globalRole, membership.Role) < models.GalerieRoleRank(models.GalerieRoleAdmin) {
		return nil, ErrNotAllowed
	}

	code, err := utils.GenerateCode(10)
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation code: %w", err)
	}
	invitation := &models.Invitation{
		UUID:        uuid.New().String(),
		GalerieID:   galerie.ID,
		UserID:      membership.UserID,
		Code:        code,
		Time:        timeMs,
		NumOfInvits: numOfInvits,
	}
	if err := s.invitationsRepo.Create(ctx, invitation); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}
	return invitation, nil
}

// Subscribe 通过邀请码加入相册
func (s *GalerieService) Subscribe(ctx context.Context, user *models.User, code string) (*models.Galerie, error) {
	invitation, err := s.invitationsRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	if invitation == nil || !invitation.UsableAt(time.Now()) {
		return nil, ErrInvitationNotUsable
	}

	galerie := &invitation.Galerie
	if galerie.Archived {
		return nil, ErrGalerieArchived
	}

	blackList, err := s.blackListsRepo.ActiveGalerieBlackList(ctx, galerie.ID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check galerie black list: %w", err)
	}
	if blackList != nil {
		return nil, ErrGalerieBlackListed
	}

	existing, err := s.galeriesRepo.GetMembership(ctx, galerie.ID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadySubscribed
	}

	membership := &models.GalerieUser{
		GalerieID: galerie.ID,
		UserID:    user.ID,
		Role:      models.GalerieRoleUser,
	}
	if err := s.galeriesRepo.CreateMembership(ctx, membership); err != nil {
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}
	if err := s.invitationsRepo.Consume(ctx, invitation.ID); err != nil {
		return nil, fmt.Errorf("failed to consume invitation: %w", err)
	}

	if err := s.notifier.NotifyUserSubscribe(ctx, galerie, user.ID); err != nil {
		// 通知失败不回滚订阅
		return galerie, nil
	}
	return galerie, nil
}

// Unsubscribe 退出相册，发布过的帧一并删除。创建者不能退出。
func (s *GalerieService) Unsubscribe(ctx context.Context, galerie *models.Galerie, membership *models.GalerieUser) error {
	if membership.Role == models.GalerieRoleCreator {
		return ErrCreatorCannotLeave
	}
	frames, err := s.deletionService.framesRepo.ListFramesByUserInGalerie(ctx, membership.UserID, galerie.ID)
	if err != nil {
		return fmt.Errorf("failed to list frames: %w", err)
	}
	for _, frame := range frames {
		if err := s.deletionService.DeleteFrame(ctx, frame); err != nil {
			return err
		}
	}
	if err := s.galeriesRepo.DeleteMembership(ctx, galerie.ID, membership.UserID); err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}
	if err := s.blackListsRepo.NullGalerieAuthorRefsInGalerie(ctx, galerie.ID, membership.UserID); err != nil {
		return fmt.Errorf("failed to null galerie black list authors: %w", err)
	}
	return nil
}

// UpdateMemberRole 相册内角色变更：creator 可任命 admin，
// admin 及以上可任命 moderator；creator 角色不可授予或剥夺。
func (s *GalerieService) UpdateMemberRole(ctx context.Context, galerie *models.Galerie, actorMembership *models.GalerieUser, target *models.User, newRole string) error {
	if galerie.Archived {
		return ErrGalerieArchived
	}
	if newRole == models.GalerieRoleCreator {
		return ErrNotAllowed
	}

	targetMembership, err := s.galeriesRepo.GetMembership(ctx, galerie.ID, target.ID)
	if err != nil {
		return fmt.Errorf("failed to get membership: %w", err)
	}
	if targetMembership == nil {
		return nil
	}
	if targetMembership.Role == models.GalerieRoleCreator || actorMembership.UserID == target.ID {
		return ErrNotAllowed
	}

	actorRank := models.GalerieRoleRank(actorMembership.Role)
	needed := models.GalerieRoleRank(models.GalerieRoleAdmin)
	if newRole == models.GalerieRoleAdmin {
		needed = models.GalerieRoleRank(models.GalerieRoleCreator)
	}
	if actorRank < needed {
		return ErrNotAllowed
	}

	if err := s.galeriesRepo.UpdateMemberRole(ctx, galerie.ID, target.ID, newRole); err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}

	galerieID := galerie.ID
	if err := s.notifier.NotifyRoleChange(ctx, target.ID, newRole, &galerieID); err != nil {
		return nil
	}
	return nil
}

// Delete 删除相册。创建者专属，且必须重输相册名与本人密码。
func (s *GalerieService) Delete(ctx context.Context, galerie *models.Galerie, membership *models.GalerieUser, requester *models.User, name, password string) error {
	if membership == nil || membership.Role != models.GalerieRoleCreator {
		return ErrNotAllowed
	}
	if name != galerie.Name {
		return ErrWrongGalerieName
	}
	ok, err := cryptopackage.ComparePasswordAndHash(password, requester.Password)
	if err != nil {
		return fmt.Errorf("password comparison failed: %w", err)
	}
	if !ok {
		return ErrWrongPassword
	}
	return s.deletionService.DeleteGalerie(ctx, galerie)
}
