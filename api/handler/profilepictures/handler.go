package profilepictures

import (
	repoFrames "github.com/galeries/galeries-server/database/repo/frames"
	"github.com/galeries/galeries-server/internal/content"
)

// Handler 头像处理器
type Handler struct {
	svc            *content.ProfilePictureService
	visibility     *content.VisibilityService
	framesRepo     *repoFrames.Repository
	maxUploadBytes int64
}

// NewHandler 创建新的头像处理器
func NewHandler(
	svc *content.ProfilePictureService,
	visibility *content.VisibilityService,
	framesRepo *repoFrames.Repository,
	maxUploadBytes int64,
) *Handler {
	return &Handler{
		svc:            svc,
		visibility:     visibility,
		framesRepo:     framesRepo,
		maxUploadBytes: maxUploadBytes,
	}
}
