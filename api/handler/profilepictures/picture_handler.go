package profilepictures

import (
	"errors"
	"io"
	"net/http"

	"github.com/galeries/galeries-server/api/common"
	"github.com/galeries/galeries-server/api/middleware"
	"github.com/galeries/galeries-server/internal/content"
	"github.com/galeries/galeries-server/utils/validator"
	"github.com/gin-gonic/gin"
)

// UploadHandler 上传头像，multipart 表单的 image 文件字段。
// 新头像自动成为当前头像。
func (h *Handler) UploadHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		common.RespondFieldErrors(c, map[string]string{"image": "is required"})
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		common.RespondFieldErrors(c, map[string]string{"image": "file too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		common.RespondInternalError(c)
		return
	}
	defer file.Close()

	isImage, err := validator.IsImage(file)
	if err != nil || !isImage {
		common.RespondFieldErrors(c, map[string]string{"image": "should be an image"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		common.RespondInternalError(c)
		return
	}

	picture, err := h.svc.Upload(c.Request.Context(), user, content.UploadedImage{
		Data:   data,
		Format: fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		if errors.Is(err, content.ErrInvalidImage) {
			common.RespondFieldErrors(c, map[string]string{"image": "should be a decodable image"})
			return
		}
		common.RespondInternalError(c)
		return
	}

	c.JSON(http.StatusCreated, common.Response{
		Action: c.Request.Method,
		Data:   picture,
	})
}

// ListHandler 当前用户的头像列表
func (h *Handler) ListHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	pictures, err := h.framesRepo.ListProfilePictures(c.Request.Context(), user.ID)
	if err != nil {
		common.RespondInternalError(c)
		return
	}
	if err := h.visibility.DecorateProfilePictures(c.Request.Context(), pictures); err != nil {
		common.RespondInternalError(c)
		return
	}

	common.RespondSuccess(c, gin.H{"profilePictures": pictures})
}

// SetCurrentHandler 切换当前头像
func (h *Handler) SetCurrentHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	pictureUUID := c.Param("profilePictureId")
	if !validator.IsUUIDv4(pictureUUID) {
		common.NotFound(c, "profile picture")
		return
	}

	found, err := h.svc.SetCurrent(c.Request.Context(), user, pictureUUID)
	if err != nil {
		common.RespondInternalError(c)
		return
	}
	if !found {
		common.NotFound(c, "profile picture")
		return
	}

	common.RespondSuccess(c, gin.H{"id": pictureUUID})
}

// DeleteHandler 删除头像
func (h *Handler) DeleteHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	pictureUUID := c.Param("profilePictureId")
	if !validator.IsUUIDv4(pictureUUID) {
		common.NotFound(c, "profile picture")
		return
	}

	found, err := h.svc.Delete(c.Request.Context(), user, pictureUUID)
	if err != nil {
		common.RespondInternalError(c)
		return
	}
	if !found {
		common.NotFound(c, "profile picture")
		return
	}

	common.RespondSuccess(c, gin.H{"id": pictureUUID})
}
