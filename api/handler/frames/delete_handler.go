package frames

import (
	"net/http"

	"github.com/galeries/galeries-server/api/common"
	"github.com/galeries/galeries-server/api/middleware"
	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/internal/moderation"
	"github.com/gin-gonic/gin"
)

// canDeleteFrame 本人发布的帧，或相册/全局 moderator 及以上
func canDeleteFrame(user *models.User, membership *models.GalerieUser, frame *models.Frame) bool {
	if frame.UserID == user.ID {
		return true
	}
	role := ""
	if membership != nil {
		role = membership.Role
	}
	return moderation.EffectiveGalerieRank(user.Role, role) >= models.GalerieRoleRank(models.GalerieRoleModerator)
}

// DeleteFrameHandler 删除帧及其图片、点赞、举报与通知残留
func (h *Handler) DeleteFrameHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	galerie, membership, ok := h.requireGalerie(c)
	if !ok {
		return
	}
	frame, ok := h.requireFrame(c, galerie)
	if !ok {
		return
	}

	if !canDeleteFrame(user, membership, frame) {
		common.RespondError(c, http.StatusForbidden, "your role does not allow you to do this")
		return
	}

	if err := h.deletion.DeleteFrame(c.Request.Context(), frame); err != nil {
		common.RespondInternalError(c)
		return
	}

	common.RespondSuccess(c, gin.H{"id": frame.UUID})
}
