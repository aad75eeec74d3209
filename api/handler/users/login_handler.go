package users

import (
	"errors"
	"net/http"

	"github.com/galeries/galeries-server/api/common"
	"github.com/galeries/galeries-server/internal/auth"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	UserNameOrEmail string `json:"userNameOrEmail" binding:"required,max=255"`
	Password        string `json:"password" binding:"required,max=200"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// LoginHandler 校验凭据并签发访问令牌
func (h *Handler) LoginHandler(c *gin.Context) {
	var req loginRequest
	if !common.BindJSON(c, &req) {
		return
	}

	result, err := h.login.Login(c.Request.Context(), req.UserNameOrEmail, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			common.RespondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, auth.ErrNotConfirmed):
			common.RespondError(c, http.StatusUnauthorized, err.Error())
		case errors.Is(err, auth.ErrBlackListed):
			common.RespondError(c, http.StatusUnauthorized, "your account is black listed")
		default:
			common.RespondInternalError(c)
		}
		return
	}

	common.RespondSuccess(c, loginResponse{
		Token:     result.AccessToken,
		ExpiresIn: result.AccessTokenExpiry.Unix(),
	})
}
