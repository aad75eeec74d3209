package galeries

import (
	"net/http"

	"github.com/galeries/galeries-server/api/common"
	"github.com/galeries/galeries-server/api/middleware"
	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/internal/moderation"
	"github.com/galeries/galeries-server/utils/validator"
	"github.com/gin-gonic/gin"
)

type createInvitationRequest struct {
	// Time 有效时长（毫秒），省略表示不过期
	Time *int64 `json:"time"`
	// NumOfInvits 可用次数，省略表示不限
	NumOfInvits *int `json:"numOfInvits" binding:"omitempty,min=1"`
}

// requireInvitationAccess 邀请码读取/删除需要相册 admin 及以上
func requireInvitationAccess(c *gin.Context, membership *models.GalerieUser, globalRole string) bool {
	role := ""
	if membership != nil {
		role = membership.Role
	}
	if moderation.EffectiveGalerieRank(globalRole, role) < models.GalerieRoleRank(models.GalerieRoleAdmin) {
		common.RespondError(c, http.StatusForbidden, "your role does not allow you to do this")
		return false
	}
	return true
}

// CreateInvitationHandler 签发邀请码
func (h *Handler) CreateInvitationHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	galerie, membership, ok := h.requireGalerie(c)
	if !ok {
		return
	}

	var req createInvitationRequest
	if !common.BindJSON(c, &req) {
		return
	}

	invitation, err := h.svc.CreateInvitation(
		c.Request.Context(), galerie, memberOrGuest(membership, user.ID), user.Role, req.Time, req.NumOfInvits)
	if err != nil {
		respondGalerieError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.Response{
		Action: c.Request.Method,
		Data:   invitation,
	})
}

// ListInvitationsHandler 分页列出相册邀请码
func (h *Handler) ListInvitationsHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	galerie, membership, ok := h.requireGalerie(c)
	if !ok {
		return
	}
	if !requireInvitationAccess(c, membership, user.Role) {
		return
	}
	previous := common.CursorParam(c, "previousInvitation")

	list, err := h.invitationsRepo.ListByGalerie(c.Request.Context(), galerie.ID, previous)
	if err != nil {
		common.RespondInternalError(c)
		return
	}

	common.RespondSuccess(c, gin.H{"invitations": list})
}

// GetInvitationHandler 查询单个邀请码
func (h *Handler) GetInvitationHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	galerie, membership, ok := h.requireGalerie(c)
	if !ok {
		return
	}
	if !requireInvitationAccess(c, membership, user.Role) {
		return
	}

	invitationUUID := c.Param("invitationId")
	if !validator.IsUUIDv4(invitationUUID) {
		common.NotFound(c, "invitation")
		return
	}

	invitation, err := h.invitationsRepo.GetByUUID(c.Request.Context(), galerie.ID, invitationUUID)
	if err != nil {
		common.RespondInternalError(c)
		return
	}
	if invitation == nil {
		common.NotFound(c, "invitation")
		return
	}

	common.RespondSuccess(c, invitation)
}

// DeleteInvitationHandler 作废邀请码
func (h *Handler) DeleteInvitationHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	galerie, membership, ok := h.requireGalerie(c)
	if !ok {
		return
	}
	if !requireInvitationAccess(c, membership, user.Role) {
		return
	}

	invitationUUID := c.Param("invitationId")
	if !validator.IsUUIDv4(invitationUUID) {
		common.NotFound(c, "invitation")
		return
	}

	invitation, err := h.invitationsRepo.GetByUUID(c.Request.Context(), galerie.ID, invitationUUID)
	if err != nil {
		common.RespondInternalError(c)
		return
	}
	if invitation == nil {
		common.NotFound(c, "invitation")
		return
	}

	if err := h.invitationsRepo.Delete(c.Request.Context(), invitation.ID); err != nil {
		common.RespondInternalError(c)
		return
	}

	common.RespondSuccess(c, gin.H{"id": invitation.UUID})
}
