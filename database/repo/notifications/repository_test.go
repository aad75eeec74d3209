package notifications

import (
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
)

func setupTestRepo(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Galerie{}, &models.Frame{},
		&models.Notification{}, &models.NotificationFrameLiked{},
		&models.NotificationFramePosted{}, &models.NotificationUserSubscribe{},
		&models.NotificationBetaKeyUsed{},
	))
	return NewRepository(database.NewGormProviderFromDB(db, "sqlite")), db
}

func createNotifTestUsers(t *testing.T, db *gorm.DB, count int) []*models.User {
	t.Helper()
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user := &models.User{
			UUID:     uuid.New().String(),
			UserName: fmt.Sprintf("user%d%s", i, uuid.New().String()[:6]),
			Email:    uuid.New().String() + "@example.com",
			Password: "hash",
			Role:     models.RoleUser,
		}
		require.NoError(t, db.Create(user).Error)
		users = append(users, user)
	}
	return users
}

func TestIncrementAndDecrementDeleteAtZero(t *testing.T) {
	repo, db := setupTestRepo(t)
	users := createNotifTestUsers(t, db, 3)
	owner, likerA, likerB := users[0], users[1], users[2]

	frame := &models.Frame{UUID: uuid.New().String(), GalerieID: 1, UserID: owner.ID}
	require.NoError(t, db.Create(frame).Error)

	notification := &models.Notification{
		UUID:    uuid.New().String(),
		UserID:  owner.ID,
		Type:    models.NotificationFrameLikedType,
		FrameID: &frame.ID,
	}
	require.NoError(t, db.Create(notification).Error)
	require.NoError(t, repo.AddFrameLiked(db, notification.ID, likerA.ID))

	// 第二个点赞者并入同一聚合行
	require.NoError(t, repo.Increment(db, notification.ID))
	require.NoError(t, repo.AddFrameLiked(db, notification.ID, likerB.ID))

	var reloaded models.Notification
	require.NoError(t, db.First(&reloaded, notification.ID).Error)
	assert.Equal(t, int64(2), reloaded.Num)

	// 取消一个点赞：递减但保留聚合行
	require.NoError(t, repo.RemoveFrameLiked(db, notification.ID, likerB.ID))
	require.NoError(t, repo.Decrement(db, notification.ID))
	require.NoError(t, db.First(&reloaded, notification.ID).Error)
	assert.Equal(t, int64(1), reloaded.Num)

	// 减到 0：整行连同关联表一起删除
	require.NoError(t, repo.RemoveFrameLiked(db, notification.ID, likerA.ID))
	require.NoError(t, repo.Decrement(db, notification.ID))

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.NotificationFrameLiked{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAddFrameLikedIdempotent(t *testing.T) {
	repo, db := setupTestRepo(t)
	users := createNotifTestUsers(t, db, 2)

	notification := &models.Notification{
		UUID:   uuid.New().String(),
		UserID: users[0].ID,
		Type:   models.NotificationFrameLikedType,
	}
	require.NoError(t, db.Create(notification).Error)

	require.NoError(t, repo.AddFrameLiked(db, notification.ID, users[1].ID))
	require.NoError(t, repo.AddFrameLiked(db, notification.ID, users[1].ID))

	var count int64
	require.NoError(t, db.Model(&models.NotificationFrameLiked{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRewriteForFrameDelete(t *testing.T) {
	repo, db := setupTestRepo(t)
	users := createNotifTestUsers(t, db, 2)
	member, author := users[0], users[1]

	galerie := &models.Galerie{UUID: uuid.New().String(), Name: "trips"}
	require.NoError(t, db.Create(galerie).Error)

	frameA := &models.Frame{UUID: uuid.New().String(), GalerieID: galerie.ID, UserID: author.ID}
	frameB := &models.Frame{UUID: uuid.New().String(), GalerieID: galerie.ID, UserID: author.ID}
	require.NoError(t, db.Create(frameA).Error)
	require.NoError(t, db.Create(frameB).Error)

	// 成员收到的 FRAME_POSTED 聚合了两个帧
	posted := &models.Notification{
		UUID:      uuid.New().String(),
		UserID:    member.ID,
		Type:      models.NotificationFramePostedType,
		GalerieID: &galerie.ID,
		Num:       2,
	}
	require.NoError(t, db.Create(posted).Error)
	require.NoError(t, repo.AddFramePosted(db, posted.ID, frameA.ID))
	require.NoError(t, repo.AddFramePosted(db, posted.ID, frameB.ID))

	// 作者收到的 FRAME_LIKED 以被删帧为作用域
	liked := &models.Notification{
		UUID:    uuid.New().String(),
		UserID:  author.ID,
		Type:    models.NotificationFrameLikedType,
		FrameID: &frameA.ID,
	}
	require.NoError(t, db.Create(liked).Error)
	require.NoError(t, repo.AddFrameLiked(db, liked.ID, member.ID))

	require.NoError(t, repo.RewriteForFrameDelete(db, frameA.ID))

	// FRAME_POSTED 聚合递减而非删除，剩余帧保留
	var reloaded models.Notification
	require.NoError(t, db.First(&reloaded, posted.ID).Error)
	assert.Equal(t, int64(1), reloaded.Num)

	var joinCount int64
	require.NoError(t, db.Model(&models.NotificationFramePosted{}).Count(&joinCount).Error)
	assert.Equal(t, int64(1), joinCount)

	// 以被删帧为作用域的聚合整行消失
	err := db.First(&models.Notification{}, liked.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, db.Model(&models.NotificationFrameLiked{}).Count(&joinCount).Error)
	assert.Zero(t, joinCount)
}

func TestGetUnseenScoping(t *testing.T) {
	repo, db := setupTestRepo(t)
	users := createNotifTestUsers(t, db, 1)

	galerieID := uint(7)
	seen := &models.Notification{
		UUID:      uuid.New().String(),
		UserID:    users[0].ID,
		Type:      models.NotificationUserSubscribeType,
		GalerieID: &galerieID,
		Seen:      true,
	}
	require.NoError(t, db.Create(seen).Error)

	// 已读聚合行不再累积，视同不存在
	found, err := repo.GetUnseen(db, users[0].ID, models.NotificationUserSubscribeType, Scope{GalerieID: &galerieID})
	require.NoError(t, err)
	assert.Nil(t, found)

	unseen := &models.Notification{
		UUID:      uuid.New().String(),
		UserID:    users[0].ID,
		Type:      models.NotificationUserSubscribeType,
		GalerieID: &galerieID,
	}
	require.NoError(t, db.Create(unseen).Error)

	found, err = repo.GetUnseen(db, users[0].ID, models.NotificationUserSubscribeType, Scope{GalerieID: &galerieID})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, unseen.ID, found.ID)

	// 不同作用域互不可见
	other := uint(8)
	found, err = repo.GetUnseen(db, users[0].ID, models.NotificationUserSubscribeType, Scope{GalerieID: &other})
	require.NoError(t, err)
	assert.Nil(t, found)
}
