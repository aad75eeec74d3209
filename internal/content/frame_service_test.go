package content

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/galeries/galeries-server/database"
	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/database/repo/frames"
	"github.com/galeries/galeries-server/database/repo/reports"
)

type frameFixture struct {
	db  *gorm.DB
	svc *FrameService
}

func setupFrameTest(t *testing.T) *frameFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Galerie{}, &models.GalerieUser{},
		&models.Frame{}, &models.GaleriePicture{}, &models.Image{},
		&models.Like{}, &models.Report{}, &models.ReportUser{},
	))

	provider := database.NewGormProviderFromDB(db, "sqlite")
	svc := NewFrameService(
		frames.NewRepository(provider), reports.NewRepository(provider),
		nil, &fakeStorage{}, nil, "frames",
	)
	return &frameFixture{db: db, svc: svc}
}

func (f *frameFixture) createUser(t *testing.T, userName, role string) *models.User {
	t.Helper()
	user := &models.User{
		UUID:      uuid.New().String(),
		UserName:  userName,
		Email:     userName + "@example.com",
		Password:  "hash",
		Role:      role,
		Confirmed: true,
	}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

// TestListFramesHidesReportedFromReporter 普通成员看不到自己举报过的帧，
// 高于 user 的有效角色不受此过滤，即便不是相册成员
func TestListFramesHidesReportedFromReporter(t *testing.T) {
	f := setupFrameTest(t)
	ctx := context.Background()
	poster := f.createUser(t, "poster", models.RoleUser)
	member := f.createUser(t, "member", models.RoleUser)
	moderator := f.createUser(t, "moderator", models.RoleModerator)

	galerie := &models.Galerie{UUID: uuid.New().String(), Name: "summer"}
	require.NoError(t, f.db.Create(galerie).Error)
	memberRow := &models.GalerieUser{GalerieID: galerie.ID, UserID: member.ID, Role: models.GalerieRoleUser}
	require.NoError(t, f.db.Create(memberRow).Error)

	frame := &models.Frame{UUID: uuid.New().String(), GalerieID: galerie.ID, UserID: poster.ID}
	require.NoError(t, f.db.Create(frame).Error)

	require.NoError(t, f.svc.Report(ctx, frame, member, models.ReportReasonShocking))
	require.NoError(t, f.svc.Report(ctx, frame, moderator, models.ReportReasonShocking))

	// 举报过的普通成员列表中看不到这一帧
	list, err := f.svc.ListFrames(ctx, galerie, member, memberRow, 0)
	require.NoError(t, err)
	assert.Empty(t, list)

	// 全局 moderator 没有成员关系也能看到
	list, err = f.svc.ListFrames(ctx, galerie, moderator, nil, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, frame.UUID, list[0].UUID)
}
