package galeries

import (
	"github.com/galeries/galeries-server/api/common"
	"github.com/galeries/galeries-server/api/middleware"
	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/utils/validator"
	"github.com/gin-gonic/gin"
)

type subscribeRequest struct {
	Code string `json:"code" binding:"required,max=10"`
}

type updateMemberRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// memberView 成员列表里的一项
type memberView struct {
	User *models.User `json:"user"`
	Role string       `json:"role"`
}

// SubscribeHandler 通过邀请码加入相册
func (h *Handler) SubscribeHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req subscribeRequest
	if !common.BindJSON(c, &req) {
		return
	}

	galerie, err := h.svc.Subscribe(c.Request.Context(), user, req.Code)
	if err != nil {
		respondGalerieError(c, err)
		return
	}

	common.RespondSuccess(c, gin.H{"galerie": galerie})
}

// UnsubscribeHandler 退出相册，本人在该相册发布的帧一并删除
func (h *Handler) UnsubscribeHandler(c *gin.Context) {
	galerie, membership, ok := h.requireGalerie(c)
	if !ok {
		return
	}
	if membership == nil {
		common.NotFound(c, "galerie")
		return
	}

	if err := h.svc.Unsubscribe(c.Request.Context(), galerie, membership); err != nil {
		respondGalerieError(c, err)
		return
	}

	common.RespondSuccess(c, gin.H{"id": galerie.UUID})
}

// ListMembersHandler 分页列出相册成员
func (h *Handler) ListMembersHandler(c *gin.Context) {
	galerie, _, ok := h.requireGalerie(c)
	if !ok {
		return
	}
	previous := common.CursorParam(c, "previousUser")

	members, err := h.galeriesRepo.ListMembers(c.Request.Context(), galerie.ID, previous)
	if err != nil {
		common.RespondInternalError(c)
		return
	}

	views := make([]memberView, 0, len(members))
	for _, member := range members {
		views = append(views, memberView{User: &member.User, Role: member.Role})
	}
	common.RespondSuccess(c, gin.H{"users": views})
}

// UpdateMemberRoleHandler 变更成员的相册内角色
func (h *Handler) UpdateMemberRoleHandler(c *gin.Context) {
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

	var req updateMemberRoleRequest
	if !common.BindJSON(c, &req) {
		return
	}
	if models.GalerieRoleRank(req.Role) == 0 && req.Role != models.GalerieRoleUser {
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

	err = h.svc.UpdateMemberRole(c.Request.Context(), galerie, memberOrGuest(membership, user.ID), target, req.Role)
	if err != nil {
		respondGalerieError(c, err)
		return
	}

	common.RespondSuccess(c, gin.H{"id": target.UUID, "role": req.Role})
}
