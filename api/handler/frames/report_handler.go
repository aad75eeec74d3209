package frames

import (
	"errors"
	"net/http"

	"github.com/galeries/galeries-server/api/common"
	"github.com/galeries/galeries-server/api/middleware"
	"github.com/galeries/galeries-server/internal/content"
	"github.com/gin-gonic/gin"
)

type reportFrameRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ReportFrameHandler 举报帧，按理由聚合计数，每个用户只记一次
func (h *Handler) ReportFrameHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	galerie, _, ok := h.requireGalerie(c)
	if !ok {
		return
	}
	frame, ok := h.requireFrame(c, galerie)
	if !ok {
		return
	}

	var req reportFrameRequest
	if !common.BindJSON(c, &req) {
		return
	}

	if err := h.svc.Report(c.Request.Context(), frame, user, req.Reason); err != nil {
		switch {
		case errors.Is(err, content.ErrInvalidReason):
			common.RespondFieldErrors(c, map[string]string{"reason": "is invalid"})
		case errors.Is(err, content.ErrAlreadyReported):
			common.RespondError(c, http.StatusBadRequest, err.Error())
		default:
			common.RespondInternalError(c)
		}
		return
	}

	common.RespondSuccess(c, gin.H{"id": frame.UUID})
}
