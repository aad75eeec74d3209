package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"time"

	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/database/repo/frames"
	"github.com/galeries/galeries-server/database/repo/reports"
	"github.com/galeries/galeries-server/internal/moderation"
	"github.com/galeries/galeries-server/internal/notifications"
	"github.com/galeries/galeries-server/internal/worker"
	"github.com/galeries/galeries-server/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/png"
)

// pendingSize 占位图边长，上传路径内同步生成
const pendingSize = 32

var (
	// ErrNoPictures 帧至少要有一张图片
	ErrNoPictures = errors.New("a frame needs at least one picture")
	// ErrTooManyPictures 单帧图片上限
	ErrTooManyPictures = errors.New("a frame can have at most 6 pictures")
	// ErrInvalidImage 无法解码的图片
	ErrInvalidImage = errors.New("invalid image")
	// ErrInvalidReason 非法举报理由
	ErrInvalidReason = errors.New("invalid report reason")
	// ErrAlreadyReported 重复举报
	ErrAlreadyReported = errors.New("you already reported this frame")
)

// MaxPicturesPerFrame 单帧图片上限
const MaxPicturesPerFrame = 6

// UploadedImage 已通过校验的上传图片
type UploadedImage struct {
	Data   []byte
	Format string
}

// FrameService 帧的发布、点赞、举报
type FrameService struct {
	framesRepo      *frames.Repository
	reportsRepo     *reports.Repository
	notifier        *notifications.Service
	storageProvider storage.Provider
	pool            *worker.Pool
	bucketName      string
}

// NewFrameService 创建帧服务
func NewFrameService(
	framesRepo *frames.Repository,
	reportsRepo *reports.Repository,
	notifier *notifications.Service,
	storageProvider storage.Provider,
	pool *worker.Pool,
	bucketName string,
) *FrameService {
	return &FrameService{
		framesRepo:      framesRepo,
		reportsRepo:     reportsRepo,
		notifier:        notifier,
		storageProvider: storageProvider,
		pool:            pool,
		bucketName:      bucketName,
	}
}

// storedVariant 落盘结果
type storedVariant struct {
	original *models.Image
	pending  *models.Image
}

// storeUpload 保存原图和 pending 占位图两个对象
func (s *FrameService) storeUpload(ctx context.Context, upload UploadedImage) (*storedVariant, error) {
	src, format, err := image.Decode(bytes.NewReader(upload.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	bounds := src.Bounds()

	ext := format
	if ext == "jpeg" {
		ext = "jpg"
	}
	objectName := fmt.Sprintf("%s.%s", uuid.New().String(), ext)

	if err := s.storageProvider.SaveWithContext(ctx, objectName,
		bytes.NewReader(upload.Data), int64(len(upload.Data))); err != nil {
		return nil, fmt.Errorf("failed to save original: %w", err)
	}

	pendingData, err := renderPending(src)
	if err != nil {
		return nil, err
	}
	pendingName := "pending/" + objectName
	if err := s.storageProvider.SaveWithContext(ctx, pendingName,
		bytes.NewReader(pendingData), int64(len(pendingData))); err != nil {
		return nil, fmt.Errorf("failed to save pending: %w", err)
	}

	return &storedVariant{
		original: &models.Image{
			UUID:       uuid.New().String(),
			BucketName: s.bucketName,
			FileName:   objectName,
			Format:     format,
			Width:      bounds.Dx(),
			Height:     bounds.Dy(),
			Size:       int64(len(upload.Data)),
		},
		pending: &models.Image{
			UUID:       uuid.New().String(),
			BucketName: s.bucketName,
			FileName:   pendingName,
			Format:     "jpeg",
			Width:      pendingSize,
			Height:     pendingSize,
			Size:       int64(len(pendingData)),
		},
	}, nil
}

// renderPending 低清占位图，列表先行渲染
func renderPending(src image.Image) ([]byte, error) {
	dst := image.NewRGBA(image.Rect(0, 0, pendingSize, pendingSize))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 60}); err != nil {
		return nil, fmt.Errorf("failed to encode pending image: %w", err)
	}
	return buf.Bytes(), nil
}

// PostFrame 发布帧：对象落盘、嵌套行落库、裁剪任务入队、成员扇出
func (s *FrameService) PostFrame(ctx context.Context, galerie *models.Galerie, user *models.User, description string, uploads []UploadedImage) (*models.Frame, error) {
	if galerie.Archived {
		return nil, ErrGalerieArchived
	}
	if len(uploads) == 0 {
		return nil, ErrNoPictures
	}
	if len(uploads) > MaxPicturesPerFrame {
		return nil, ErrTooManyPictures
	}

	frame := &models.Frame{
		UUID:        uuid.New().String(),
		GalerieID:   galerie.ID,
		UserID:      user.ID,
		Description: description,
	}
	for i, upload := range uploads {
		variant, err := s.storeUpload(ctx, upload)
		if err != nil {
			return nil, err
		}
		frame.GaleriePictures = append(frame.GaleriePictures, models.GaleriePicture{
			UUID:          uuid.New().String(),
			Index:         i,
			Current:       i == 0,
			OriginalImage: variant.original,
			PendingImage:  variant.pending,
		})
	}

	if err := s.framesRepo.CreateFrame(ctx, frame); err != nil {
		return nil, fmt.Errorf("failed to create frame: %w", err)
	}

	for i := range frame.GaleriePictures {
		picture := &frame.GaleriePictures[i]
		pictureID := picture.ID
		task := worker.NewCropTask(
			s.framesRepo, s.storageProvider, s.bucketName,
			picture.OriginalImage.FileName, picture.OriginalImage.Format,
			picture.PendingImage.ID, picture.PendingImage.FileName,
			func(ctx context.Context, croppedImageID uint) error {
				return s.framesRepo.UpdatePictureCropped(ctx, pictureID, croppedImageID)
			},
		)
		s.pool.TrySubmit(task, 3, time.Second)
	}

	if err := s.notifier.NotifyFramePosted(ctx, galerie, frame); err != nil {
		// 扇出失败不影响发布
		return frame, nil
	}
	return frame, nil
}

// ToggleLike 点赞开关。计数由行级原子 SQL 维护，通知随事件增减。
func (s *FrameService) ToggleLike(ctx context.Context, frame *models.Frame, user *models.User) (liked bool, numOfLikes int64, err error) {
	like := &models.Like{
		UUID:    uuid.New().String(),
		FrameID: frame.ID,
		UserID:  user.ID,
	}
	liked, err = s.framesRepo.ToggleLike(ctx, like)
	if err != nil {
		return false, 0, fmt.Errorf("failed to toggle like: %w", err)
	}

	if liked {
		numOfLikes = frame.NumOfLikes + 1
		if err := s.notifier.NotifyFrameLiked(ctx, frame, user.ID); err != nil {
			return liked, numOfLikes, nil
		}
	} else {
		numOfLikes = frame.NumOfLikes - 1
		if err := s.notifier.RetractFrameLiked(ctx, frame, user.ID); err != nil {
			return liked, numOfLikes, nil
		}
	}
	return liked, numOfLikes, nil
}

// Report 举报帧。每个用户对同一帧只记一次，理由计数聚合。
func (s *FrameService) Report(ctx context.Context, frame *models.Frame, user *models.User, reason string) error {
	if !models.IsReportReason(reason) {
		return ErrInvalidReason
	}
	err := s.reportsRepo.ReportFrame(ctx, frame.ID, user.ID, reason)
	if errors.Is(err, reports.ErrAlreadyReported) {
		return ErrAlreadyReported
	}
	if err != nil {
		return fmt.Errorf("failed to report frame: %w", err)
	}
	return nil
}

// ListFrames 相册帧列表。普通用户看不到自己举报过的帧。
func (s *FrameService) ListFrames(ctx context.Context, galerie *models.Galerie, user *models.User, membership *models.GalerieUser, previous uint) ([]*models.Frame, error) {
	reporterID := user.ID
	galerieRole := ""
	if membership != nil {
		galerieRole = membership.Role
	}
	if moderation.IsAboveUser(user.Role, galerieRole) {
		reporterID = 0
	}
	list, err := s.framesRepo.ListFrames(ctx, galerie.ID, previous, reporterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list frames: %w", err)
	}
	return list, nil
}
