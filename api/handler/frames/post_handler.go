package frames

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

// PostFrameHandler 发布帧。multipart 表单：description + images 文件字段。
// 原图同步入桶并生成低清占位图，方图裁切交给后台任务。
func (h *Handler) PostFrameHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	galerie, _, ok := h.requireGalerie(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid multipart form")
		return
	}

	description := c.PostForm("description")
	if len(description) > 200 {
		common.RespondFieldErrors(c, map[string]string{"description": "should have a maximum length of 200"})
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		common.RespondFieldErrors(c, map[string]string{"images": "is required"})
		return
	}
	if len(files) > content.MaxPicturesPerFrame {
		common.RespondFieldErrors(c, map[string]string{"images": content.ErrTooManyPictures.Error()})
		return
	}

	uploads := make([]content.UploadedImage, 0, len(files))
	for _, fileHeader := range files {
		if fileHeader.Size > h.maxUploadBytes {
			common.RespondFieldErrors(c, map[string]string{"images": "file too large"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			common.RespondInternalError(c)
			return
		}

		isImage, err := validator.IsImage(file)
		if err != nil || !isImage {
			file.Close()
			common.RespondFieldErrors(c, map[string]string{"images": "should be an image"})
			return
		}

		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			common.RespondInternalError(c)
			return
		}
		uploads = append(uploads, content.UploadedImage{
			Data:   data,
			Format: fileHeader.Header.Get("Content-Type"),
		})
	}

	frame, err := h.svc.PostFrame(c.Request.Context(), galerie, user, description, uploads)
	if err != nil {
		switch {
		case errors.Is(err, content.ErrGalerieArchived),
			errors.Is(err, content.ErrNoPictures),
			errors.Is(err, content.ErrTooManyPictures):
			common.RespondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, content.ErrInvalidImage):
			common.RespondFieldErrors(c, map[string]string{"images": "should be a decodable image"})
		default:
			common.RespondInternalError(c)
		}
		return
	}

	c.JSON(http.StatusCreated, common.Response{
		Action: c.Request.Method,
		Data:   frame,
	})
}
