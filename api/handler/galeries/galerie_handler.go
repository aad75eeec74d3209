package galeries

import (
	"errors"
	"net/http"

	"github.com/galeries/galeries-server/api/common"
	"github.com/galeries/galeries-server/api/middleware"
	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/internal/content"
	"github.com/gin-gonic/gin"
)

type createGalerieRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=30"`
	Description string `json:"description" binding:"max=200"`
}

type updateGalerieRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=3,max=30"`
	Description *string `json:"description" binding:"omitempty,max=200"`
}

type deleteGalerieRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,max=200"`
}

// memberOrGuest 将 nil 成员关系折算成零权限的访客成员
func memberOrGuest(membership *models.GalerieUser, userID uint) *models.GalerieUser {
	if membership != nil {
		return membership
	}
	return &models.GalerieUser{UserID: userID}
}

// CreateGalerieHandler 创建相册，请求者成为 creator
func (h *Handler) CreateGalerieHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req createGalerieRequest
	if !common.BindJSON(c, &req) {
		return
	}

	galerie, err := h.svc.Create(c.Request.Context(), user, req.Name, req.Description)
	if err != nil {
		common.RespondInternalError(c)
		return
	}

	c.JSON(http.StatusCreated, common.Response{
		Action: c.Request.Method,
		Data:   galerie,
	})
}

// ListGaleriesHandler 列出当前用户订阅的相册
func (h *Handler) ListGaleriesHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)
	previous := common.CursorParam(c, "previousGalerie")

	list, err := h.galeriesRepo.ListGaleriesForUser(c.Request.Context(), user.ID, previous)
	if err != nil {
		common.RespondInternalError(c)
		return
	}

	common.RespondSuccess(c, gin.H{"galeries": list})
}

// GetGalerieHandler 查询单个相册
func (h *Handler) GetGalerieHandler(c *gin.Context) {
	galerie, membership, ok := h.requireGalerie(c)
	if !ok {
		return
	}

	role := ""
	if membership != nil {
		role = membership.Role
	}
	common.RespondSuccess(c, gin.H{"galerie": galerie, "role": role})
}

// UpdateGalerieHandler 修改名称或描述
func (h *Handler) UpdateGalerieHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	galerie, membership, ok := h.requireGalerie(c)
	if !ok {
		return
	}

	var req updateGalerieRequest
	if !common.BindJSON(c, &req) {
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) == 0 {
		common.RespondError(c, http.StatusBadRequest, "nothing to update")
		return
	}

	err := h.svc.Update(c.Request.Context(), galerie, memberOrGuest(membership, user.ID), user.Role, updates)
	if err != nil {
		respondGalerieError(c, err)
		return
	}

	common.RespondSuccess(c, gin.H{"id": galerie.UUID})
}

// DeleteGalerieHandler 删除相册，creator 专属，需重输相册名与密码
func (h *Handler) DeleteGalerieHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	galerie, membership, ok := h.requireGalerie(c)
	if !ok {
		return
	}

	var req deleteGalerieRequest
	if !common.BindJSON(c, &req) {
		return
	}

	err := h.svc.Delete(c.Request.Context(), galerie, membership, user, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, content.ErrWrongGalerieName):
			common.RespondFieldErrors(c, map[string]string{"name": err.Error()})
		case errors.Is(err, content.ErrWrongPassword):
			common.RespondFieldErrors(c, map[string]string{"password": err.Error()})
		default:
			respondGalerieError(c, err)
		}
		return
	}

	common.RespondSuccess(c, gin.H{"id": galerie.UUID})
}

// respondGalerieError maps content-layer failures onto the error envelope.
func respondGalerieError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, content.ErrGalerieArchived),
		errors.Is(err, content.ErrAlreadySubscribed),
		errors.Is(err, content.ErrInvitationNotUsable),
		errors.Is(err, content.ErrCreatorCannotLeave):
		common.RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, content.ErrGalerieBlackListed),
		errors.Is(err, content.ErrNotAllowed):
		common.RespondError(c, http.StatusForbidden, err.Error())
	default:
		common.RespondInternalError(c)
	}
}
