package users

import (
	"errors"
	"net/http"

	"github.com/galeries/galeries-server/api/common"
	svcUsers "github.com/galeries/galeries-server/internal/users"
	"github.com/gin-gonic/gin"
)

// ConfirmationHeader carries the one-shot signed confirmation token.
const ConfirmationHeader = "confirmation"

type resendConfirmationRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

// ConfirmHandler 消费确认令牌并激活账号
func (h *Handler) ConfirmHandler(c *gin.Context) {
	token := c.GetHeader(ConfirmationHeader)
	if token == "" {
		common.RespondError(c, http.StatusUnauthorized, "token not found")
		return
	}

	user, err := h.svc.Confirm(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, svcUsers.ErrAlreadyConfirmed):
			common.RespondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, svcUsers.ErrTokenConsumed):
			common.RespondError(c, http.StatusUnauthorized, err.Error())
		default:
			common.RespondError(c, http.StatusUnauthorized, "wrong token")
		}
		return
	}

	common.RespondSuccess(c, gin.H{"id": user.UUID})
}

// ResendConfirmationHandler 重新发送确认邮件
// 未注册的邮箱一律静默成功，避免泄露注册状态。
func (h *Handler) ResendConfirmationHandler(c *gin.Context) {
	var req resendConfirmationRequest
	if !common.BindJSON(c, &req) {
		return
	}

	if err := h.svc.ResendConfirmation(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, svcUsers.ErrAlreadyConfirmed) {
			common.RespondError(c, http.StatusBadRequest, err.Error())
			return
		}
		common.RespondInternalError(c)
		return
	}

	common.RespondSuccess(c, gin.H{"email": req.Email})
}
