package galeries

import (
	"github.com/galeries/galeries-server/api/common"
	"github.com/galeries/galeries-server/api/middleware"
	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/database/repo/accounts"
	"github.com/galeries/galeries-server/database/repo/blacklists"
	repoGaleries "github.com/galeries/galeries-server/database/repo/galeries"
	"github.com/galeries/galeries-server/database/repo/invitations"
	"github.com/galeries/galeries-server/internal/content"
	"github.com/galeries/galeries-server/internal/moderation"
	"github.com/galeries/galeries-server/utils/validator"
	"github.com/gin-gonic/gin"
)

// Handler 相册处理器
type Handler struct {
	svc             *content.GalerieService
	moderation      *moderation.Service
	galeriesRepo    *repoGaleries.Repository
	invitationsRepo *invitations.Repository
	blackListsRepo  *blacklists.Repository
	accountsRepo    *accounts.Repository
}

// NewHandler 创建新的相册处理器
func NewHandler(
	svc *content.GalerieService,
	moderationService *moderation.Service,
	galeriesRepo *repoGaleries.Repository,
	invitationsRepo *invitations.Repository,
	blackListsRepo *blacklists.Repository,
	accountsRepo *accounts.Repository,
) *Handler {
	return &Handler{
		svc:             svc,
		moderation:      moderationService,
		galeriesRepo:    galeriesRepo,
		invitationsRepo: invitationsRepo,
		blackListsRepo:  blackListsRepo,
		accountsRepo:    accountsRepo,
	}
}

// requireGalerie 解析 :galerieId 并校验可见性。
// 非成员（且全局角色不高于普通用户）一律 404，不泄露相册是否存在。
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
