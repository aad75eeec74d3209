package notifications

import (
	"net/http"

	"github.com/galeries/galeries-server/api/common"
	"github.com/galeries/galeries-server/internal/auth"
	"github.com/galeries/galeries-server/utils/validator"
	"github.com/gin-gonic/gin"
)

// NotificationTokenHeader carries a short-lived signed token for
// server-to-server fan-out calls that bypass the access-token middleware.
const NotificationTokenHeader = "notificationtoken"

type subscribeFanOutRequest struct {
	GalerieID string `json:"galerieId" binding:"required"`
}

// UserSubscribeFanOutHandler 免登录的 USER_SUBSCRIBE 扇出。
// 令牌标识订阅者本人，短时效一次性使用。
func (h *Handler) UserSubscribeFanOutHandler(c *gin.Context) {
	token := c.GetHeader(NotificationTokenHeader)
	if token == "" {
		common.RespondError(c, http.StatusUnauthorized, "token not found")
		return
	}

	claims, err := h.jwtService.ExtractClaims(token, auth.TokenTypeNotification)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, "wrong token")
		return
	}

	var req subscribeFanOutRequest
	if !common.BindJSON(c, &req) {
		return
	}
	if !validator.IsUUIDv4(req.GalerieID) {
		common.NotFound(c, "galerie")
		return
	}

	user, err := h.accountsRepo.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		common.RespondInternalError(c)
		return
	}
	if user == nil {
		common.RespondError(c, http.StatusUnauthorized, "wrong token")
		return
	}

	galerie, _, err := h.galeriesRepo.GetGalerieByUUID(c.Request.Context(), req.GalerieID, user.ID)
	if err != nil {
		common.RespondInternalError(c)
		return
	}
	if galerie == nil {
		common.NotFound(c, "galerie")
		return
	}

	if err := h.svc.NotifyUserSubscribe(c.Request.Context(), galerie, user.ID); err != nil {
		common.RespondInternalError(c)
		return
	}

	common.RespondSuccess(c, gin.H{"id": galerie.UUID})
}
