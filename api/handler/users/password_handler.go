package users

import (
	"errors"
	"net/http"

	"github.com/galeries/galeries-server/api/common"
	"github.com/galeries/galeries-server/api/middleware"
	svcUsers "github.com/galeries/galeries-server/internal/users"
	"github.com/gin-gonic/gin"
)

type sendResetRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

type resetPasswordRequest struct {
	Password        string `json:"password" binding:"required,min=8,max=200"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required,max=200"`
	Password        string `json:"password" binding:"required,min=8,max=200"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
}

// SendResetPasswordHandler 发送重置密码邮件。
// 未注册的邮箱同样返回成功，避免泄露注册状态。
func (h *Handler) SendResetPasswordHandler(c *gin.Context) {
	var req sendResetRequest
	if !common.BindJSON(c, &req) {
		return
	}

	if err := h.svc.SendPasswordReset(c.Request.Context(), req.Email); err != nil {
		common.RespondInternalError(c)
		return
	}

	common.RespondSuccess(c, gin.H{"email": req.Email})
}

// ResetPasswordHandler 凭确认令牌重置密码
func (h *Handler) ResetPasswordHandler(c *gin.Context) {
	token := c.GetHeader(ConfirmationHeader)
	if token == "" {
		common.RespondError(c, http.StatusUnauthorized, "token not found")
		return
	}

	var req resetPasswordRequest
	if !common.BindJSON(c, &req) {
		return
	}

	if err := h.svc.ResetPassword(c.Request.Context(), token, req.Password); err != nil {
		if errors.Is(err, svcUsers.ErrTokenConsumed) {
			common.RespondError(c, http.StatusUnauthorized, err.Error())
			return
		}
		common.RespondError(c, http.StatusUnauthorized, "wrong token")
		return
	}

	common.RespondSuccess(c, nil)
}

// UpdatePasswordHandler 登录态下修改密码
func (h *Handler) UpdatePasswordHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req updatePasswordRequest
	if !common.BindJSON(c, &req) {
		return
	}

	if err := h.svc.UpdatePassword(c.Request.Context(), user, req.CurrentPassword, req.Password); err != nil {
		if errors.Is(err, svcUsers.ErrWrongPassword) {
			common.RespondFieldErrors(c, map[string]string{"currentPassword": err.Error()})
			return
		}
		common.RespondInternalError(c)
		return
	}

	common.RespondSuccess(c, nil)
}
