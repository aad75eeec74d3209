package content

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/galeries/galeries-server/database"
	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/database/repo/accounts"
	"github.com/galeries/galeries-server/database/repo/betakeys"
	"github.com/galeries/galeries-server/database/repo/blacklists"
	"github.com/galeries/galeries-server/database/repo/frames"
	"github.com/galeries/galeries-server/database/repo/galeries"
	"github.com/galeries/galeries-server/database/repo/invitations"
	notifsRepo "github.com/galeries/galeries-server/database/repo/notifications"
	"github.com/galeries/galeries-server/database/repo/reports"
	"github.com/galeries/galeries-server/internal/notifications"
)

type galerieFixture struct {
	db  *gorm.DB
	svc *GalerieService
}

func setupGalerieTest(t *testing.T) *galerieFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Galerie{}, &models.GalerieUser{},
		&models.Frame{}, &models.GaleriePicture{}, &models.Image{},
		&models.Like{}, &models.Invitation{}, &models.ProfilePicture{},
		&models.BlackList{}, &models.GalerieBlackList{}, &models.BetaKey{},
		&models.Report{}, &models.ReportUser{},
		&models.Notification{}, &models.NotificationFrameLiked{},
		&models.NotificationFramePosted{}, &models.NotificationUserSubscribe{},
		&models.NotificationBetaKeyUsed{},
	))

	provider := database.NewGormProviderFromDB(db, "sqlite")
	accountsRepo := accounts.NewRepository(provider, nil, 0)
	galeriesRepo := galeries.NewRepository(provider)
	invitationsRepo := invitations.NewRepository(provider)
	blackListsRepo := blacklists.NewRepository(provider)
	framesRepo := frames.NewRepository(provider)
	notificationsRepo := notifsRepo.NewRepository(provider)

	notifier := notifications.NewService(provider, accountsRepo, galeriesRepo, notificationsRepo)
	deletion := NewDeletionService(
		provider, accountsRepo, betakeys.NewRepository(provider), blackListsRepo,
		framesRepo, galeriesRepo, invitationsRepo, notificationsRepo,
		reports.NewRepository(provider), &fakeStorage{},
	)
	svc := NewGalerieService(galeriesRepo, invitationsRepo, blackListsRepo, notifier, deletion)
	return &galerieFixture{db: db, svc: svc}
}

func (f *galerieFixture) createUser(t *testing.T, userName string) *models.User {
	t.Helper()
	user := &models.User{
		UUID:      uuid.New().String(),
		UserName:  userName,
		Email:     userName + "@example.com",
		Password:  "hash",
		Role:      models.RoleUser,
		Confirmed: true,
	}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *galerieFixture) createInvitation(t *testing.T, galerie *models.Galerie, creator *models.User, timeMs *int64, numOfInvits *int) *models.Invitation {
	t.Helper()
	invitation := &models.Invitation{
		UUID:        uuid.New().String(),
		GalerieID:   galerie.ID,
		UserID:      creator.ID,
		Code:        uuid.New().String()[:10],
		Time:        timeMs,
		NumOfInvits: numOfInvits,
	}
	require.NoError(t, f.db.Create(invitation).Error)
	return invitation
}

func TestCreateGalerieMakesCreator(t *testing.T) {
	f := setupGalerieTest(t)
	ctx := context.Background()
	creator := f.createUser(t, "founder")

	galerie, err := f.svc.Create(ctx, creator, "summer", "beach pictures")
	require.NoError(t, err)
	require.NotNil(t, galerie)
	assert.NotEmpty(t, galerie.UUID)

	var membership models.GalerieUser
	require.NoError(t, f.db.Where("galerie_id = ? AND user_id = ?", galerie.ID, creator.ID).
		First(&membership).Error)
	assert.Equal(t, models.GalerieRoleCreator, membership.Role)
}

func TestSubscribeConsumesInvitation(t *testing.T) {
	f := setupGalerieTest(t)
	ctx := context.Background()
	creator := f.createUser(t, "creator")
	joiner := f.createUser(t, "joiner")

	galerie, err := f.svc.Create(ctx, creator, "summer", "")
	require.NoError(t, err)

	remaining := 1
	invitation := f.createInvitation(t, galerie, creator, nil, &remaining)

	joined, err := f.svc.Subscribe(ctx, joiner, invitation.Code)
	require.NoError(t, err)
	assert.Equal(t, galerie.ID, joined.ID)

	var membership models.GalerieUser
	require.NoError(t, f.db.Where("galerie_id = ? AND user_id = ?", galerie.ID, joiner.ID).
		First(&membership).Error)
	assert.Equal(t, models.GalerieRoleUser, membership.Role)

	// 次数耗尽后邀请码不可再用
	var reloaded models.Invitation
	require.NoError(t, f.db.First(&reloaded, invitation.ID).Error)
	require.NotNil(t, reloaded.NumOfInvits)
	assert.Zero(t, *reloaded.NumOfInvits)

	another := f.createUser(t, "latecomer")
	_, err = f.svc.Subscribe(ctx, another, invitation.Code)
	assert.ErrorIs(t, err, ErrInvitationNotUsable)

	// 订阅者收到成员加入通知扇出给创建者
	var count int64
	require.NoError(t, f.db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", creator.ID, models.NotificationUserSubscribeType).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSubscribeRejections(t *testing.T) {
	f := setupGalerieTest(t)
	ctx := context.Background()
	creator := f.createUser(t, "creator")
	joiner := f.createUser(t, "joiner")

	galerie, err := f.svc.Create(ctx, creator, "summer", "")
	require.NoError(t, err)

	t.Run("unknown_code", func(t *testing.T) {
		_, err := f.svc.Subscribe(ctx, joiner, "nosuchcode")
		assert.ErrorIs(t, err, ErrInvitationNotUsable)
	})

	t.Run("expired_invitation", func(t *testing.T) {
		expired := int64(1)
		invitation := f.createInvitation(t, galerie, creator, &expired, nil)
		require.NoError(t, f.db.Model(invitation).Update("created_at", time.Now().Add(-time.Hour)).Error)

		_, err := f.svc.Subscribe(ctx, joiner, invitation.Code)
		assert.ErrorIs(t, err, ErrInvitationNotUsable)
	})

	t.Run("black_listed", func(t *testing.T) {
		invitation := f.createInvitation(t, galerie, creator, nil, nil)
		require.NoError(t, f.db.Create(&models.GalerieBlackList{
			UUID:      uuid.New().String(),
			GalerieID: galerie.ID,
			UserID:    joiner.ID,
		}).Error)

		_, err := f.svc.Subscribe(ctx, joiner, invitation.Code)
		assert.ErrorIs(t, err, ErrGalerieBlackListed)
	})

	t.Run("already_subscribed", func(t *testing.T) {
		invitation := f.createInvitation(t, galerie, creator, nil, nil)
		_, err := f.svc.Subscribe(ctx, creator, invitation.Code)
		assert.ErrorIs(t, err, ErrAlreadySubscribed)
	})

	t.Run("archived_galerie", func(t *testing.T) {
		invitation := f.createInvitation(t, galerie, creator, nil, nil)
		require.NoError(t, f.db.Model(&models.Galerie{}).Where("id = ?", galerie.ID).
			Update("archived", true).Error)

		_, err := f.svc.Subscribe(ctx, joiner, invitation.Code)
		assert.ErrorIs(t, err, ErrGalerieArchived)
	})
}

func TestUnsubscribe(t *testing.T) {
	f := setupGalerieTest(t)
	ctx := context.Background()
	creator := f.createUser(t, "creator")
	member := f.createUser(t, "member")

	galerie, err := f.svc.Create(ctx, creator, "summer", "")
	require.NoError(t, err)
	membership := &models.GalerieUser{GalerieID: galerie.ID, UserID: member.ID, Role: models.GalerieRoleUser}
	require.NoError(t, f.db.Create(membership).Error)

	frame := &models.Frame{UUID: uuid.New().String(), GalerieID: galerie.ID, UserID: member.ID}
	require.NoError(t, f.db.Create(frame).Error)

	require.NoError(t, f.svc.Unsubscribe(ctx, galerie, membership))

	// 成员行与其发布的帧都被移除
	var count int64
	require.NoError(t, f.db.Model(&models.GalerieUser{}).Where("user_id = ?", member.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, f.db.Model(&models.Frame{}).Count(&count).Error)
	assert.Zero(t, count)

	// 创建者不能退出
	creatorMembership := &models.GalerieUser{GalerieID: galerie.ID, UserID: creator.ID, Role: models.GalerieRoleCreator}
	assert.ErrorIs(t, f.svc.Unsubscribe(ctx, galerie, creatorMembership), ErrCreatorCannotLeave)
}

// TestUnsubscribeNullsBlackListAuthorRefs 离开相册后其签发的封禁失去操作人，封禁本身保留
func TestUnsubscribeNullsBlackListAuthorRefs(t *testing.T) {
	f := setupGalerieTest(t)
	ctx := context.Background()
	creator := f.createUser(t, "creator")
	admin := f.createUser(t, "galadmin")
	banned := f.createUser(t, "banned")

	galerie, err := f.svc.Create(ctx, creator, "summer", "")
	require.NoError(t, err)
	adminMembership := &models.GalerieUser{GalerieID: galerie.ID, UserID: admin.ID, Role: models.GalerieRoleAdmin}
	require.NoError(t, f.db.Create(adminMembership).Error)

	adminID := admin.ID
	blackList := &models.GalerieBlackList{
		UUID:        uuid.New().String(),
		GalerieID:   galerie.ID,
		UserID:      banned.ID,
		CreatedByID: &adminID,
	}
	require.NoError(t, f.db.Create(blackList).Error)

	require.NoError(t, f.svc.Unsubscribe(ctx, galerie, adminMembership))

	var reloaded models.GalerieBlackList
	require.NoError(t, f.db.First(&reloaded, blackList.ID).Error)
	assert.Nil(t, reloaded.CreatedByID)
	assert.Equal(t, banned.ID, reloaded.UserID)
}

func TestUpdateMemberRoleLadder(t *testing.T) {
	f := setupGalerieTest(t)
	ctx := context.Background()
	creator := f.createUser(t, "creator")
	admin := f.createUser(t, "galadmin")
	member := f.createUser(t, "member")

	galerie, err := f.svc.Create(ctx, creator, "summer", "")
	require.NoError(t, err)
	require.NoError(t, f.db.Create(&models.GalerieUser{
		GalerieID: galerie.ID, UserID: admin.ID, Role: models.GalerieRoleAdmin,
	}).Error)
	require.NoError(t, f.db.Create(&models.GalerieUser{
		GalerieID: galerie.ID, UserID: member.ID, Role: models.GalerieRoleUser,
	}).Error)

	creatorMembership := &models.GalerieUser{GalerieID: galerie.ID, UserID: creator.ID, Role: models.GalerieRoleCreator}
	adminMembership := &models.GalerieUser{GalerieID: galerie.ID, UserID: admin.ID, Role: models.GalerieRoleAdmin}

	// admin 可任命 moderator，但只有 creator 可任命 admin
	require.NoError(t, f.svc.UpdateMemberRole(ctx, galerie, adminMembership, member, models.GalerieRoleModerator))
	assert.ErrorIs(t, f.svc.UpdateMemberRole(ctx, galerie, adminMembership, member, models.GalerieRoleAdmin), ErrNotAllowed)
	require.NoError(t, f.svc.UpdateMemberRole(ctx, galerie, creatorMembership, member, models.GalerieRoleAdmin))

	// creator 角色不可授予
	assert.ErrorIs(t, f.svc.UpdateMemberRole(ctx, galerie, creatorMembership, member, models.GalerieRoleCreator), ErrNotAllowed)
	// creator 不可被剥夺
	assert.ErrorIs(t, f.svc.UpdateMemberRole(ctx, galerie, creatorMembership, creator, models.GalerieRoleUser), ErrNotAllowed)

	var reloaded models.GalerieUser
	require.NoError(t, f.db.Where("galerie_id = ? AND user_id = ?", galerie.ID, member.ID).First(&reloaded).Error)
	assert.Equal(t, models.GalerieRoleAdmin, reloaded.Role)

	// 目标收到 ROLE_CHANGE 通知
	var count int64
	require.NoError(t, f.db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", member.ID, models.NotificationRoleChangeType).
		Count(&count).Error)
	assert.GreaterOrEqual(t, count, int64(1))
}
