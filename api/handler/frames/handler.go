package frames

import (
	"github.com/galeries/galeries-server/api/common"
	"github.com/galeries/galeries-server/api/middleware"
	"github.com/galeries/galeries-server/database/models"
	repoFrames "github.com/galeries/galeries-server/database/repo/frames"
	repoGaleries "github.com/galeries/galeries-server/database/repo/galeries"
	"github.com/galeries/galeries-server/internal/content"
	"github.com/galeries/galeries-server/utils/validator"
	"github.com/gin-gonic/gin"
)

// Handler 帧处理器
type Handler struct {
	svc            *content.FrameService
	visibility     *content.VisibilityService
	deletion       *content.DeletionService
	galeriesRepo   *repoGaleries.Repository
	framesRepo     *repoFrames.Repository
	maxUploadBytes int64
}

// NewHandler 创建新的帧处理器
func NewHandler(
	svc *content.FrameService,
	visibility *content.VisibilityService,
	deletion *content.DeletionService,
	galeriesRepo *repoGaleries.Repository,
	framesRepo *repoFrames.Repository,
	maxUploadBytes int64,
) *Handler {
	return &Handler{
		svc:            svc,
		visibility:     visibility,
		deletion:       deletion,
		galeriesRepo:   galeriesRepo,
		framesRepo:     framesRepo,
		maxUploadBytes: maxUploadBytes,
	}
}

// requireGalerie 解析 :galerieId，非成员（全局普通用户）一律 404
func (h *Handler) requireGalerie(c *gin.Context) (*models.Galerie, *models.GalerieUser, bool) {
	user := middleware.CurrentUser(c)

	galerieUUID := c.Param("galerieId")
	if !validator.IsUUIDv4(galerieUUID) {
		common.NotFound(c, "galerie")
		return nil, nil, false
	}

	galerie, membership, err := h.galeriesRepo.GetGalerieByUUID(c.Request.Context(), galerieUUID, user.ID)
	if err != nil {
		common.RespondInternalError(c)
		return nil, nil, false
	}
	if galerie == nil {
		common.NotFound(c, "galerie")
		return nil, nil, false
	}
	if membership == nil && models.RoleRank(user.Role) <= models.RoleRank(models.RoleUser) {
		common.NotFound(c, "galerie")
		return nil, nil, false
	}
	return galerie, membership, true
}

// requireFrame 在 requireGalerie 之后解析 :frameId
func (h *Handler) requireFrame(c *gin.Context, galerie *models.Galerie) (*models.Frame, bool) {
	frameUUID := c.Param("frameId")
	if !validator.IsUUIDv4(frameUUID) {
		common.NotFound(c, "frame")
		return nil, false
	}

	frame, err := h.framesRepo.GetFrameByUUID(c.Request.Context(), galerie.ID, frameUUID)
	if err != nil {
		common.RespondInternalError(c)
		return nil, false
	}
	if frame == nil {
		common.NotFound(c, "frame")
		return nil, false
	}
	return frame, true
}
