package users

import (
	"errors"
	"net/http"

	"github.com/galeries/galeries-server/api/common"
	"github.com/galeries/galeries-server/api/middleware"
	"github.com/galeries/galeries-server/internal/moderation"
	"github.com/galeries/galeries-server/utils/validator"
	"github.com/gin-gonic/gin"
)

type blackListRequest struct {
	Reason string `json:"reason" binding:"required,min=10,max=200"`
	// Time 毫秒时长，省略表示永久
	Time *int64 `json:"time"`
}

type updateBlackListTimeRequest struct {
	Time *int64 `json:"time"`
}

// BlackListUserHandler 全局拉黑用户
func (h *Handler) BlackListUserHandler(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	userUUID := c.Param("userId")
	if !validator.IsUUIDv4(userUUID) {
		common.NotFound(c, "user")
		return
	}

	var req blackListRequest
	if !common.BindJSON(c, &req) {
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

	blackList, err := h.moderation.BlackListUser(c.Request.Context(), actor, target, req.Reason, req.Time)
	if err != nil {
		respondModerationError(c, err)
		return
	}

	common.RespondSuccess(c, blackList)
}

// UnBlackListUserHandler 解除全局拉黑，封禁行保留
func (h *Handler) UnBlackListUserHandler(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	userUUID := c.Param("userId")
	if !validator.IsUUIDv4(userUUID) {
		common.NotFound(c, "user")
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

	if err := h.moderation.UnBlackListUser(c.Request.Context(), actor, target); err != nil {
		respondModerationError(c, err)
		return
	}

	common.RespondSuccess(c, gin.H{"id": target.UUID})
}

// ListBlackListsHandler 分页列出全局黑名单
func (h *Handler) ListBlackListsHandler(c *gin.Context) {
	previous := common.CursorParam(c, "previousBlackList")

	list, err := h.blackLists.ListGlobalBlackLists(c.Request.Context(), previous)
	if err != nil {
		common.RespondInternalError(c)
		return
	}

	common.RespondSuccess(c, gin.H{"blackLists": list})
}

// GetBlackListHandler 按 UUID 查询黑名单记录
func (h *Handler) GetBlackListHandler(c *gin.Context) {
	blackListUUID := c.Param("blackListId")
	if !validator.IsUUIDv4(blackListUUID) {
		common.NotFound(c, "black list")
		return
	}

	blackList, err := h.blackLists.GetGlobalBlackListByUUID(c.Request.Context(), blackListUUID)
	if err != nil {
		common.RespondInternalError(c)
		return
	}
	if blackList == nil {
		common.NotFound(c, "black list")
		return
	}

	common.RespondSuccess(c, blackList)
}

// UpdateBlackListTimeHandler 修改封禁时长
func (h *Handler) UpdateBlackListTimeHandler(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	blackListUUID := c.Param("blackListId")
	if !validator.IsUUIDv4(blackListUUID) {
		common.NotFound(c, "black list")
		return
	}

	var req updateBlackListTimeRequest
	if !common.BindJSON(c, &req) {
		return
	}

	blackList, err := h.moderation.UpdateBlackListTime(c.Request.Context(), actor, blackListUUID, req.Time)
	if err != nil {
		respondModerationError(c, err)
		return
	}
	if blackList == nil {
		common.NotFound(c, "black list")
		return
	}

	common.RespondSuccess(c, blackList)
}

// respondModerationError maps moderation ladder failures onto the error
// envelope. Unknown errors fall through as 500.
func respondModerationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, moderation.ErrSelfTarget),
		errors.Is(err, moderation.ErrAlreadyBlackListed):
		common.RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, moderation.ErrInvalidDuration):
		common.RespondFieldErrors(c, map[string]string{"time": err.Error()})
	case errors.Is(err, moderation.ErrNotAllowed),
		errors.Is(err, moderation.ErrCreatorImmune):
		common.RespondError(c, http.StatusForbidden, err.Error())
	default:
		common.RespondInternalError(c)
	}
}
