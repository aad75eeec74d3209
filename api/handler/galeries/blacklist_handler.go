package galeries

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

// requireModerator 相册黑名单操作需要相册 moderator 及以上
func requireModerator(c *gin.Context, membership *models.GalerieUser, globalRole string) bool {
	role := ""
	if membership != nil {
		role = membership.Role
	}
	if moderation.EffectiveGalerieRank(globalRole, role) < models.GalerieRoleRank(models.GalerieRoleModerator) {
		common.RespondError(c, http.StatusForbidden, "your role does not allow you to do this")
		return false
	}
	return true
}

// BlackListMemberHandler 相册内拉黑成员，成员资格同事务移除
func (h *Handler) BlackListMemberHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	galerie, membership, ok := h.requireGalerie(c)
	if !ok {
		return
	}

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

	blackList, err := h.moderation.BlackListGalerieUser(
		c.Request.Context(), galerie, user, memberOrGuest(membership, user.ID), target)
	if err != nil {
		switch {
		case errors.Is(err, moderation.ErrSelfTarget),
			errors.Is(err, moderation.ErrAlreadyBlackListed):
			common.RespondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, moderation.ErrNotAllowed),
			errors.Is(err, moderation.ErrCreatorImmune):
			common.RespondError(c, http.StatusForbidden, err.Error())
		default:
			common.RespondInternalError(c)
		}
		return
	}
	if blackList == nil {
		common.NotFound(c, "user")
		return
	}

	common.RespondSuccess(c, blackList)
}

// ListGalerieBlackListsHandler 分页列出相册黑名单
func (h *Handler) ListGalerieBlackListsHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	galerie, membership, ok := h.requireGalerie(c)
	if !ok {
		return
	}
	if !requireModerator(c, membership, user.Role) {
		return
	}
	previous := common.CursorParam(c, "previousBlackList")

	list, err := h.blackListsRepo.ListGalerieBlackLists(c.Request.Context(), galerie.ID, previous)
	if err != nil {
		common.RespondInternalError(c)
		return
	}

	common.RespondSuccess(c, gin.H{"blackLists": list})
}

// UnBlackListMemberHandler 解除相册内拉黑，不恢复成员资格
func (h *Handler) UnBlackListMemberHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	galerie, membership, ok := h.requireGalerie(c)
	if !ok {
		return
	}
	if !requireModerator(c, membership, user.Role) {
		return
	}

	blackListUUID := c.Param("blackListId")
	if !validator.IsUUIDv4(blackListUUID) {
		common.NotFound(c, "black list")
		return
	}

	found, err := h.moderation.UnBlackListGalerieUser(c.Request.Context(), galerie, blackListUUID)
	if err != nil {
		common.RespondInternalError(c)
		return
	}
	if !found {
		common.NotFound(c, "black list")
		return
	}

	common.RespondSuccess(c, gin.H{"id": blackListUUID})
}
