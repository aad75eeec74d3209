package users

import (
	"errors"
	"net/http"

	"github.com/galeries/galeries-server/api/common"
	svcUsers "github.com/galeries/galeries-server/internal/users"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	UserName        string `json:"userName" binding:"required,alphanum,min=3,max=30"`
	Email           string `json:"email" binding:"required,email,max=255"`
	Password        string `json:"password" binding:"required,min=8,max=200"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
	BetaKey         string `json:"betaKey" binding:"max=64"`
}

// RegisterHandler 注册新用户并发送确认邮件
func (h *Handler) RegisterHandler(c *gin.Context) {
	var req registerRequest
	if !common.BindJSON(c, &req) {
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req.UserName, req.Email, req.Password, req.BetaKey)
	if err != nil {
		switch {
		case errors.Is(err, svcUsers.ErrUserNameTaken):
			common.RespondFieldErrors(c, map[string]string{"userName": err.Error()})
		case errors.Is(err, svcUsers.ErrEmailTaken):
			common.RespondFieldErrors(c, map[string]string{"email": err.Error()})
		case errors.Is(err, svcUsers.ErrBetaKeyNotUsable):
			common.RespondFieldErrors(c, map[string]string{"betaKey": err.Error()})
		default:
			common.RespondInternalError(c)
		}
		return
	}

	c.JSON(http.StatusCreated, common.Response{
		Action: c.Request.Method,
		Data:   user,
	})
}
