package frames

import (
	"github.com/galeries/galeries-server/api/common"
	"github.com/galeries/galeries-server/api/middleware"
	"github.com/gin-gonic/gin"
)

// ListFramesHandler 相册帧列表，previousFrame 为游标。
// 无图或签名失败的帧被丢弃并排队删除。
func (h *Handler) ListFramesHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	galerie, membership, ok := h.requireGalerie(c)
	if !ok {
		return
	}
	previous := common.CursorParam(c, "previousFrame")

	list, err := h.svc.ListFrames(c.Request.Context(), galerie, user, membership, previous)
	if err != nil {
		common.RespondInternalError(c)
		return
	}

	decorated, err := h.visibility.DecorateFrames(c.Request.Context(), list)
	if err != nil {
		common.RespondInternalError(c)
		return
	}

	common.RespondSuccess(c, gin.H{"frames": decorated})
}

// GetFrameHandler 查询单个帧
func (h *Handler) GetFrameHandler(c *gin.Context) {
	galerie, _, ok := h.requireGalerie(c)
	if !ok {
		return
	}
	frame, ok := h.requireFrame(c, galerie)
	if !ok {
		return
	}

	decorated, err := h.visibility.DecorateFrame(c.Request.Context(), frame)
	if err != nil {
		common.RespondInternalError(c)
		return
	}
	if decorated == nil {
		common.NotFound(c, "frame")
		return
	}

	common.RespondSuccess(c, decorated)
}
