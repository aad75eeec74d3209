package content

import (
	"context"
	"fmt"
	"io"
	"sync"
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
	"github.com/galeries/galeries-server/database/repo/notifications"
	"github.com/galeries/galeries-server/database/repo/reports"
)

// fakeStorage 记录删除调用的内存存储
type fakeStorage struct {
	mu      sync.Mutex
	deleted []string
}

func (s *fakeStorage) SaveWithContext(ctx context.Context, fileName string, file io.Reader, size int64) error {
	return nil
}

func (s *fakeStorage) GetWithContext(ctx context.Context, fileName string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("object %s not found", fileName)
}

func (s *fakeStorage) DeleteWithContext(ctx context.Context, fileName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, fileName)
	return nil
}

func (s *fakeStorage) SignedURL(ctx context.Context, fileName string, expiry time.Duration) (string, error) {
	return "https://signed.example.com/" + fileName, nil
}

func (s *fakeStorage) Exists(ctx context.Context, fileName string) (bool, error) { return true, nil }
func (s *fakeStorage) Health(ctx context.Context) error                          { return nil }
func (s *fakeStorage) Name() string                                              { return "fake" }

func (s *fakeStorage) deletedObjects() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

type deletionFixture struct {
	db      *gorm.DB
	svc     *DeletionService
	storage *fakeStorage
}

func setupDeletionTest(t *testing.T) *deletionFixture {
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
	store := &fakeStorage{}
	svc := NewDeletionService(
		provider,
		accounts.NewRepository(provider, nil, 0),
		betakeys.NewRepository(provider),
		blacklists.NewRepository(provider),
		frames.NewRepository(provider),
		galeries.NewRepository(provider),
		invitations.NewRepository(provider),
		notifications.NewRepository(provider),
		reports.NewRepository(provider),
		store,
	)
	return &deletionFixture{db: db, svc: svc, storage: store}
}

func (f *deletionFixture) createUser(t *testing.T, userName string) *models.User {
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

func (f *deletionFixture) createGalerie(t *testing.T, creator *models.User) *models.Galerie {
	t.Helper()
	galerie := &models.Galerie{UUID: uuid.New().String(), Name: "vacations"}
	require.NoError(t, f.db.Create(galerie).Error)
	require.NoError(t, f.db.Create(&models.GalerieUser{
		GalerieID: galerie.ID,
		UserID:    creator.ID,
		Role:      models.GalerieRoleCreator,
	}).Error)
	return galerie
}

func (f *deletionFixture) createFrameWithPicture(t *testing.T, galerie *models.Galerie, author *models.User) *models.Frame {
	t.Helper()
	image := &models.Image{
		UUID:       uuid.New().String(),
		BucketName: "galeries",
		FileName:   "frames/" + uuid.New().String() + ".png",
		Format:     "png",
	}
	require.NoError(t, f.db.Create(image).Error)

	frame := &models.Frame{UUID: uuid.New().String(), GalerieID: galerie.ID, UserID: author.ID}
	require.NoError(t, f.db.Create(frame).Error)
	require.NoError(t, f.db.Create(&models.GaleriePicture{
		UUID:            uuid.New().String(),
		FrameID:         frame.ID,
		OriginalImageID: &image.ID,
	}).Error)

	var loaded models.Frame
	require.NoError(t, f.db.
		Preload("GaleriePictures").
		Preload("GaleriePictures.OriginalImage").
		First(&loaded, frame.ID).Error)
	return &loaded
}

func assertCount(t *testing.T, db *gorm.DB, model interface{}, want int64) {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	assert.Equal(t, want, count)
}

func TestDeleteFrameCascade(t *testing.T) {
	f := setupDeletionTest(t)
	ctx := context.Background()

	author := f.createUser(t, "author")
	liker := f.createUser(t, "liker")
	galerie := f.createGalerie(t, author)
	frame := f.createFrameWithPicture(t, galerie, author)

	require.NoError(t, f.db.Create(&models.Like{
		UUID: uuid.New().String(), FrameID: frame.ID, UserID: liker.ID,
	}).Error)
	report := &models.Report{UUID: uuid.New().String(), FrameID: frame.ID, NumOfReports: 1}
	require.NoError(t, f.db.Create(report).Error)

	require.NoError(t, f.svc.DeleteFrame(ctx, frame))

	assertCount(t, f.db, &models.Frame{}, 0)
	assertCount(t, f.db, &models.GaleriePicture{}, 0)
	assertCount(t, f.db, &models.Image{}, 0)
	assertCount(t, f.db, &models.Like{}, 0)
	assertCount(t, f.db, &models.Report{}, 0)

	// 相册与成员不受影响
	assertCount(t, f.db, &models.Galerie{}, 1)
	assertCount(t, f.db, &models.GalerieUser{}, 1)

	// 桶对象在提交后异步清理
	assert.Eventually(t, func() bool {
		return len(f.storage.deletedObjects()) == 1
	}, 2*time.Second, 20*time.Millisecond)
}

func TestDeleteUserSoleMemberRemovesGalerie(t *testing.T) {
	f := setupDeletionTest(t)
	ctx := context.Background()

	creator := f.createUser(t, "solecreator")
	galerie := f.createGalerie(t, creator)
	f.createFrameWithPicture(t, galerie, creator)

	require.NoError(t, f.svc.DeleteUser(ctx, creator))

	assertCount(t, f.db, &models.User{}, 0)
	assertCount(t, f.db, &models.Galerie{}, 0)
	assertCount(t, f.db, &models.GalerieUser{}, 0)
	assertCount(t, f.db, &models.Frame{}, 0)
	assertCount(t, f.db, &models.Image{}, 0)
}

func TestDeleteUserCreatorArchivesSharedGalerie(t *testing.T) {
	f := setupDeletionTest(t)
	ctx := context.Background()

	creator := f.createUser(t, "sharedcreator")
	member := f.createUser(t, "member")
	galerie := f.createGalerie(t, creator)
	require.NoError(t, f.db.Create(&models.GalerieUser{
		GalerieID: galerie.ID, UserID: member.ID, Role: models.GalerieRoleUser,
	}).Error)
	f.createFrameWithPicture(t, galerie, creator)

	require.NoError(t, f.svc.DeleteUser(ctx, creator))

	// 相册软退役，成员保留；创建者的成员行与帧被清除
	var reloaded models.Galerie
	require.NoError(t, f.db.First(&reloaded, galerie.ID).Error)
	assert.True(t, reloaded.Archived)
	assertCount(t, f.db, &models.GalerieUser{}, 1)
	assertCount(t, f.db, &models.Frame{}, 0)
}

func TestDeleteUserPreservesBlackListRecords(t *testing.T) {
	f := setupDeletionTest(t)
	ctx := context.Background()

	admin := f.createUser(t, "deptadmin")
	admin.Role = models.RoleAdmin
	require.NoError(t, f.db.Save(admin).Error)
	target := f.createUser(t, "offender")

	require.NoError(t, f.db.Create(&models.BlackList{
		UUID:        uuid.New().String(),
		Reason:      "posting stolen pictures",
		Active:      true,
		UserID:      target.ID,
		CreatedByID: &admin.ID,
	}).Error)

	require.NoError(t, f.svc.DeleteUser(ctx, admin))

	// 封禁记录保留，签发者引用置空
	var blackList models.BlackList
	require.NoError(t, f.db.First(&blackList).Error)
	assert.Equal(t, target.ID, blackList.UserID)
	assert.Nil(t, blackList.CreatedByID)
}
