package users

import (
	"net/http"

	"github.com/galeries/galeries-server/api/common"
	"github.com/galeries/galeries-server/api/middleware"
	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/utils"
	"github.com/galeries/galeries-server/utils/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createBetaKeyRequest struct {
	// Email 预留给特定邮箱时填写
	Email *string `json:"email" binding:"omitempty,email,max=255"`
}

// CreateBetaKeyHandler 签发注册邀请码
func (h *Handler) CreateBetaKeyHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req createBetaKeyRequest
	if !common.BindJSON(c, &req) {
		return
	}

	code, err := utils.GenerateCode(10)
	if err != nil {
		common.RespondInternalError(c)
		return
	}

	creatorID := user.ID
	betaKey := &models.BetaKey{
		UUID:        uuid.New().String(),
		Code:        code,
		Email:       req.Email,
		CreatedByID: &creatorID,
	}
	if err := h.betaKeys.Create(c.Request.Context(), betaKey); err != nil {
		common.RespondInternalError(c)
		return
	}

	c.JSON(http.StatusCreated, common.Response{
		Action: c.Request.Method,
		Data:   betaKey,
	})
}

// ListBetaKeysHandler 分页列出邀请码
func (h *Handler) ListBetaKeysHandler(c *gin.Context) {
	previous := common.CursorParam(c, "previousBetaKey")

	list, err := h.betaKeys.List(c.Request.Context(), previous)
	if err != nil {
		common.RespondInternalError(c)
		return
	}

	common.RespondSuccess(c, gin.H{"betaKeys": list})
}

// GetBetaKeyHandler 查询单个邀请码
func (h *Handler) GetBetaKeyHandler(c *gin.Context) {
	betaKeyUUID := c.Param("betaKeyId")
	if !validator.IsUUIDv4(betaKeyUUID) {
		common.NotFound(c, "beta key")
		return
	}

	betaKey, err := h.betaKeys.GetByUUID(c.Request.Context(), betaKeyUUID)
	if err != nil {
		common.RespondInternalError(c)
		return
	}
	if betaKey == nil {
		common.NotFound(c, "beta key")
		return
	}

	common.RespondSuccess(c, betaKey)
}

// DeleteBetaKeyHandler 作废邀请码
func (h *Handler) DeleteBetaKeyHandler(c *gin.Context) {
	betaKeyUUID := c.Param("betaKeyId")
	if !validator.IsUUIDv4(betaKeyUUID) {
		common.NotFound(c, "beta key")
		return
	}

	betaKey, err := h.betaKeys.GetByUUID(c.Request.Context(), betaKeyUUID)
	if err != nil {
		common.RespondInternalError(c)
		return
	}
	if betaKey == nil {
		common.NotFound(c, "beta key")
		return
	}
	if betaKey.UserID != nil {
		common.RespondError(c, http.StatusBadRequest, "this beta key has already been used")
		return
	}

	if err := h.betaKeys.Delete(c.Request.Context(), betaKey.ID); err != nil {
		common.RespondInternalError(c)
		return
	}

	common.RespondSuccess(c, gin.H{"id": betaKey.UUID})
}
