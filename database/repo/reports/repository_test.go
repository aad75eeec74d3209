package reports

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
)

func setupTestRepo(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Galerie{}, &models.Frame{},
		&models.Report{}, &models.ReportUser{},
	))
	return NewRepository(database.NewGormProviderFromDB(db, "sqlite")), db
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		UUID:     uuid.New().String(),
		UserName: "user" + uuid.New().String()[:8],
		Email:    uuid.New().String() + "@example.com",
		Password: "hash",
		Role:     models.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestFrame(t *testing.T, db *gorm.DB, owner *models.User) *models.Frame {
	t.Helper()
	galerie := &models.Galerie{UUID: uuid.New().String(), Name: "holiday"}
	require.NoError(t, db.Create(galerie).Error)
	frame := &models.Frame{
		UUID:      uuid.New().String(),
		GalerieID: galerie.ID,
		UserID:    owner.ID,
	}
	require.NoError(t, db.Create(frame).Error)
	return frame
}

// TestReportFrameBucketsAllReasons 每个合法理由都落入对应计数列
func TestReportFrameBucketsAllReasons(t *testing.T) {
	repo, db := setupTestRepo(t)
	ctx := context.Background()
	owner := createTestUser(t, db)
	frame := createTestFrame(t, db, owner)

	for _, reason := range models.ReportReasons {
		reporter := createTestUser(t, db)
		require.NoError(t, repo.ReportFrame(ctx, frame.ID, reporter.ID, reason))
	}

	report, err := repo.GetByFrame(ctx, frame.ID)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, int64(4), report.NumOfReports)
	assert.Equal(t, int64(1), report.NumOfDisinformation)
	assert.Equal(t, int64(1), report.NumOfHarassment)
	assert.Equal(t, int64(1), report.NumOfIntimidation)
	assert.Equal(t, int64(1), report.NumOfShocking)
}

// TestReportFrameRejectsUnknownReason 非法理由直接报错，不落库
func TestReportFrameRejectsUnknownReason(t *testing.T) {
	repo, db := setupTestRepo(t)
	ctx := context.Background()
	owner := createTestUser(t, db)
	frame := createTestFrame(t, db, owner)

	err := repo.ReportFrame(ctx, frame.ID, owner.ID, "hate")
	require.Error(t, err)

	report, err := repo.GetByFrame(ctx, frame.ID)
	require.NoError(t, err)
	assert.Nil(t, report)
}

// TestReportFrameDeduplicatesReporter 同一用户对同一帧只计一次
func TestReportFrameDeduplicatesReporter(t *testing.T) {
	repo, db := setupTestRepo(t)
	ctx := context.Background()
	owner := createTestUser(t, db)
	frame := createTestFrame(t, db, owner)
	reporter := createTestUser(t, db)

	require.NoError(t, repo.ReportFrame(ctx, frame.ID, reporter.ID, models.ReportReasonShocking))
	err := repo.ReportFrame(ctx, frame.ID, reporter.ID, models.ReportReasonShocking)
	assert.ErrorIs(t, err, ErrAlreadyReported)

	reported, err := repo.HasReported(ctx, frame.ID, reporter.ID)
	require.NoError(t, err)
	assert.True(t, reported)
}

// TestReportTwoFramesGetDistinctUUIDs 不同帧的汇总行各自拿到公开 UUID
func TestReportTwoFramesGetDistinctUUIDs(t *testing.T) {
	repo, db := setupTestRepo(t)
	ctx := context.Background()
	owner := createTestUser(t, db)
	first := createTestFrame(t, db, owner)
	second := createTestFrame(t, db, owner)
	reporter := createTestUser(t, db)

	require.NoError(t, repo.ReportFrame(ctx, first.ID, reporter.ID, models.ReportReasonIntimidation))
	require.NoError(t, repo.ReportFrame(ctx, second.ID, reporter.ID, models.ReportReasonIntimidation))

	firstReport, err := repo.GetByFrame(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, firstReport)
	secondReport, err := repo.GetByFrame(ctx, second.ID)
	require.NoError(t, err)
	require.NotNil(t, secondReport)

	assert.NotEmpty(t, firstReport.UUID)
	assert.NotEmpty(t, secondReport.UUID)
	assert.NotEqual(t, firstReport.UUID, secondReport.UUID)
}
