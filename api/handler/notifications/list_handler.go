package notifications

import (
	"github.com/galeries/galeries-server/api/common"
	"github.com/galeries/galeries-server/api/middleware"
	"github.com/galeries/galeries-server/utils/validator"
	"github.com/gin-gonic/gin"
)

// ListNotificationsHandler 通知列表，previousNotification 为游标。
// 拉取成功后熄灭红点。
func (h *Handler) ListNotificationsHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)
	previous := common.CursorParam(c, "previousNotification")

	list, err := h.notificationsRepo.ListByUser(c.Request.Context(), user.ID, previous)
	if err != nil {
		common.RespondInternalError(c)
		return
	}

	rendered, err := h.renderer.RenderList(c.Request.Context(), list)
	if err != nil {
		common.RespondInternalError(c)
		return
	}

	h.svc.ClearFlag(c.Request.Context(), user.ID)

	common.RespondSuccess(c, gin.H{"notifications": rendered})
}

// MarkSeenHandler 标记单条通知已读
func (h *Handler) MarkSeenHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	notificationUUID := c.Param("notificationId")
	if !validator.IsUUIDv4(notificationUUID) {
		common.NotFound(c, "notification")
		return
	}

	found, err := h.svc.MarkSeen(c.Request.Context(), user, notificationUUID)
	if err != nil {
		common.RespondInternalError(c)
		return
	}
	if !found {
		common.NotFound(c, "notification")
		return
	}

	common.RespondSuccess(c, gin.H{"id": notificationUUID})
}
