package validator

import (
	"io"
	"net/http"

	"github.com/google/uuid"
)

// allowedImageMimeTypes Allowed image types
var allowedImageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// IsImage Verify if the file content is an allowed image type.
func IsImage(file io.ReadSeeker) (bool, error) {
	buffer := make([]byte, 512)
	_, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return false, err
	}

	if _, err = file.Seek(0, io.SeekStart); err != nil {
		return false, err
	}

	mimeType := http.DetectContentType(buffer)
	return allowedImageMimeTypes[mimeType], nil
}

// IsUUIDv4 校验公开实体 ID 格式
// 格式错误的 ID 必须在任何数据库访问之前被拒绝
func IsUUIDv4(id string) bool {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	return parsed.Version() == 4
}
