package worker

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log"
	"time"

	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/database/repo/frames"
	"github.com/galeries/galeries-server/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// CropSize 裁剪变体的边长
const CropSize = 600

// ApplyCrop 把裁剪结果写回图片行：填 croppedImageId 并清空 pendingImageId
type ApplyCrop func(ctx context.Context, croppedImageID uint) error

// CropTask 为一张图片生成正方形裁剪变体，完成后通过回调写回，
// 并清理 pending 占位图的行与对象。
type CropTask struct {
	framesRepo      *frames.Repository
	storageProvider storage.Provider
	bucketName      string

	originalFileName string
	format           string
	pendingImageID   uint
	pendingFileName  string
	apply            ApplyCrop
}

// NewCropTask 创建裁剪任务
func NewCropTask(
	framesRepo *frames.Repository,
	storageProvider storage.Provider,
	bucketName string,
	originalFileName string,
	format string,
	pendingImageID uint,
	pendingFileName string,
	apply ApplyCrop,
) *CropTask {
	return &CropTask{
		framesRepo:       framesRepo,
		storageProvider:  storageProvider,
		bucketName:       bucketName,
		originalFileName: originalFileName,
		format:           format,
		pendingImageID:   pendingImageID,
		pendingFileName:  pendingFileName,
		apply:            apply,
	}
}

// Execute 实现 Task 接口
func (t *CropTask) Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := t.run(ctx); err != nil {
		log.Printf("Crop task failed for %s: %v", t.originalFileName, err)
	}
}

func (t *CropTask) run(ctx context.Context) error {
	reader, err := t.storageProvider.GetWithContext(ctx, t.originalFileName)
	if err != nil {
		return fmt.Errorf("failed to get original object: %w", err)
	}
	defer reader.Close()

	src, _, err := image.Decode(reader)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	cropped := cropSquare(src, CropSize)

	var buf bytes.Buffer
	format := t.format
	switch format {
	case "png":
		err = png.Encode(&buf, cropped)
	default:
		format = "jpeg"
		err = jpeg.Encode(&buf, cropped, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return fmt.Errorf("failed to encode cropped image: %w", err)
	}

	croppedFileName := "cropped/" + t.originalFileName
	size := int64(buf.Len())
	if err := t.storageProvider.SaveWithContext(ctx, croppedFileName, &buf, size); err != nil {
		return fmt.Errorf("failed to save cropped object: %w", err)
	}

	croppedImage := &models.Image{
		UUID:       uuid.New().String(),
		BucketName: t.bucketName,
		FileName:   croppedFileName,
		Format:     format,
		Width:      CropSize,
		Height:     CropSize,
		Size:       size,
	}
	if err := t.framesRepo.CreateImage(ctx, croppedImage); err != nil {
		return fmt.Errorf("failed to create cropped image record: %w", err)
	}

	if err := t.apply(ctx, croppedImage.ID); err != nil {
		return fmt.Errorf("failed to apply crop: %w", err)
	}

	// pending 占位图退役，失败只影响存储侧残留
	if t.pendingImageID != 0 {
		if err := t.framesRepo.DeleteImageByID(ctx, t.pendingImageID); err != nil {
			log.Printf("Failed to delete pending image record %d: %v", t.pendingImageID, err)
		}
	}
	if t.pendingFileName != "" {
		if err := t.storageProvider.DeleteWithContext(ctx, t.pendingFileName); err != nil {
			log.Printf("Failed to delete pending object %s: %v", t.pendingFileName, err)
		}
	}
	return nil
}

// cropSquare 居中裁剪为正方形并缩放到目标边长
func cropSquare(src image.Image, size int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	side := w
	if h < side {
		side = h
	}
	x0 := bounds.Min.X + (w-side)/2
	y0 := bounds.Min.Y + (h-side)/2
	srcRect := image.Rect(x0, y0, x0+side, y0+side)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, srcRect, draw.Over, nil)
	return dst
}
