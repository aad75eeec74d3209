package users

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

	"github.com/galeries/galeries-server/config"
	"github.com/galeries/galeries-server/database"
	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/database/repo/accounts"
	"github.com/galeries/galeries-server/database/repo/betakeys"
	"github.com/galeries/galeries-server/database/repo/galeries"
	notifsRepo "github.com/galeries/galeries-server/database/repo/notifications"
	"github.com/galeries/galeries-server/internal/auth"
	"github.com/galeries/galeries-server/internal/mailer"
	"github.com/galeries/galeries-server/internal/notifications"
)

// 数据库提供者必须能直接注入账号服务
var _ txProvider = database.Provider(nil)

type userFixture struct {
	db  *gorm.DB
	svc *Service
}

func setupUserTest(t *testing.T) *userFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.BetaKey{},
		&models.Galerie{}, &models.GalerieUser{},
		&models.Notification{}, &models.NotificationFrameLiked{},
		&models.NotificationFramePosted{}, &models.NotificationUserSubscribe{},
		&models.NotificationBetaKeyUsed{},
	))

	provider := database.NewGormProviderFromDB(db, "sqlite")
	accountsRepo := accounts.NewRepository(provider, nil, 0)
	jwtService := auth.NewJWTServiceWithConfig(auth.TokenConfig{
		Secret:                []byte("test-secret-key-at-least-32-bytes-long"),
		ExpiresIn:             time.Hour,
		ConfirmExpiresIn:      time.Hour,
		NotificationExpiresIn: time.Hour,
	})
	notifier := notifications.NewService(
		provider, accountsRepo, galeries.NewRepository(provider),
		notifsRepo.NewRepository(provider),
	)
	svc := NewService(
		provider, accountsRepo, betakeys.NewRepository(provider),
		jwtService, mailer.New(&config.Config{}), notifier,
	)
	return &userFixture{db: db, svc: svc}
}

// TestRegisterConsumesBetaKey 注册成功落库并消费邀请码
func TestRegisterConsumesBetaKey(t *testing.T) {
	f := setupUserTest(t)
	ctx := context.Background()

	issuer := &models.User{
		UUID:      uuid.New().String(),
		UserName:  "issuer",
		Email:     "issuer@example.com",
		Password:  "hash",
		Role:      models.RoleAdmin,
		Confirmed: true,
	}
	require.NoError(t, f.db.Create(issuer).Error)
	issuerID := issuer.ID
	betaKey := &models.BetaKey{
		UUID:        uuid.New().String(),
		Code:        "ABCDEFGHIJ",
		CreatedByID: &issuerID,
	}
	require.NoError(t, f.db.Create(betaKey).Error)

	user, err := f.svc.Register(ctx, "newcomer", "Newcomer@Example.com", "password123", betaKey.Code)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "newcomer@example.com", user.Email)
	assert.False(t, user.Confirmed)

	var reloaded models.BetaKey
	require.NoError(t, f.db.First(&reloaded, betaKey.ID).Error)
	require.NotNil(t, reloaded.UserID)
	assert.Equal(t, user.ID, *reloaded.UserID)

	// 已消费的邀请码不可再用
	_, err = f.svc.Register(ctx, "another", "another@example.com", "password123", betaKey.Code)
	assert.ErrorIs(t, err, ErrBetaKeyNotUsable)
}

// TestRegisterRejectsTakenIdentifiers 用户名与邮箱唯一
func TestRegisterRejectsTakenIdentifiers(t *testing.T) {
	f := setupUserTest(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "first", "first@example.com", "password123", "")
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, "first", "other@example.com", "password123", "")
	assert.ErrorIs(t, err, ErrUserNameTaken)
	_, err = f.svc.Register(ctx, "second", "First@Example.com", "password123", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}
