package users

import (
	"github.com/galeries/galeries-server/api/common"
	"github.com/galeries/galeries-server/api/middleware"
	"github.com/galeries/galeries-server/utils/validator"
	"github.com/gin-gonic/gin"
)

// MeHandler 返回当前登录用户
func (h *Handler) MeHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := h.visibility.DecorateUser(c.Request.Context(), user); err != nil {
		common.RespondInternalError(c)
		return
	}

	common.RespondSuccess(c, user)
}

// GetUserHandler 按 UUID 查询用户
func (h *Handler) GetUserHandler(c *gin.Context) {
	userUUID := c.Param("userId")
	if !validator.IsUUIDv4(userUUID) {
		common.NotFound(c, "user")
		return
	}

	user, err := h.accountsRepo.GetUserByUUID(c.Request.Context(), userUUID)
	if err != nil {
		common.RespondInternalError(c)
		return
	}
	if user == nil || !user.Confirmed {
		common.NotFound(c, "user")
		return
	}

	if err := h.visibility.DecorateUser(c.Request.Context(), user); err != nil {
		common.RespondInternalError(c)
		return
	}

	common.RespondSuccess(c, user)
}

// SearchUsersHandler 按用户名前缀搜索，previousUser 为游标
func (h *Handler) SearchUsersHandler(c *gin.Context) {
	prefix := c.Param("userName")
	previous := common.CursorParam(c, "previousUser")

	list, err := h.accountsRepo.SearchUsers(c.Request.Context(), prefix, previous)
	if err != nil {
		common.RespondInternalError(c)
		return
	}

	if err := h.visibility.DecorateUsers(c.Request.Context(), list); err != nil {
		common.RespondInternalError(c)
		return
	}

	common.RespondSuccess(c, gin.H{"users": list})
}
