package users

import (
	"errors"
	"net/http"

	"github.com/galeries/galeries-server/api/common"
	"github.com/galeries/galeries-server/api/middleware"
	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/internal/moderation"
	"github.com/galeries/galeries-server/utils/validator"
	"github.com/gin-gonic/gin"
)

type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateRoleHandler 修改用户全局角色
func (h *Handler) UpdateRoleHandler(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	userUUID := c.Param("userId")
	if !validator.IsUUIDv4(userUUID) {
		common.NotFound(c, "user")
		return
	}

	var req updateRoleRequest
	if !common.BindJSON(c, &req) {
		return
	}
	if !models.IsRole(req.Role) {
		common.RespondFieldErrors(c, map[string]string{"role": "is invalid"})
		return
	}

	target, err := h.accountsRepo.GetUserByUUID(c.Request.Context(), userUUID)
	if err != nil {
		common.RespondInternalError(c)
		return
	}
	if target == nil {
		common.NotFound(c, "user")
		return
	}

	if err := h.moderation.ChangeUserRole(c.Request.Context(), actor, target, req.Role); err != nil {
		switch {
		case errors.Is(err, moderation.ErrSelfTarget):
			common.RespondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, moderation.ErrNotAllowed):
			common.RespondError(c, http.StatusForbidden, err.Error())
		default:
			common.RespondInternalError(c)
		}
		return
	}

	common.RespondSuccess(c, gin.H{"id": target.UUID, "role": req.Role})
}
