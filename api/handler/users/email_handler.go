package users

import (
	"errors"

	"github.com/galeries/galeries-server/api/common"
	"github.com/galeries/galeries-server/api/middleware"
	svcUsers "github.com/galeries/galeries-server/internal/users"
	"github.com/gin-gonic/gin"
)

type updateEmailRequest struct {
	Password string `json:"password" binding:"required,max=200"`
	Email    string `json:"email" binding:"required,email,max=255"`
}

// UpdateEmailHandler 修改邮箱。成功后 authTokenVersion 递增，
// 当前令牌随之失效，客户端需要重新登录。
func (h *Handler) UpdateEmailHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req updateEmailRequest
	if !common.BindJSON(c, &req) {
		return
	}

	err := h.svc.UpdateEmail(c.Request.Context(), user, req.Password, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, svcUsers.ErrWrongPassword):
			common.RespondFieldErrors(c, map[string]string{"password": err.Error()})
		case errors.Is(err, svcUsers.ErrEmailTaken):
			common.RespondFieldErrors(c, map[string]string{"email": err.Error()})
		default:
			common.RespondInternalError(c)
		}
		return
	}

	common.RespondSuccess(c, nil)
}
