package frames

import (
	"time"

	"github.com/galeries/galeries-server/api/common"
	"github.com/galeries/galeries-server/api/middleware"
	"github.com/galeries/galeries-server/database/models"
	"github.com/gin-gonic/gin"
)

// likeView 点赞列表里的一项
type likeView struct {
	ID        uint         `json:"autoIncrementId"`
	UUID      string       `json:"id"`
	CreatedAt time.Time    `json:"createdAt"`
	User      *models.User `json:"user"`
}

// ToggleLikeHandler 点赞开关：已赞则取消，未赞则点赞
func (h *Handler) ToggleLikeHandler(c *gin.Context) {
	user := middleware.CurrentUser(c)

	galerie, _, ok := h.requireGalerie(c)
	if !ok {
		return
	}
	frame, ok := h.requireFrame(c, galerie)
	if !ok {
		return
	}

	liked, numOfLikes, err := h.svc.ToggleLike(c.Request.Context(), frame, user)
	if err != nil {
		common.RespondInternalError(c)
		return
	}

	common.RespondSuccess(c, gin.H{
		"liked":      liked,
		"numOfLikes": numOfLikes,
	})
}

// ListLikesHandler 帧点赞列表，previousLike 为游标
func (h *Handler) ListLikesHandler(c *gin.Context) {
	galerie, _, ok := h.requireGalerie(c)
	if !ok {
		return
	}
	frame, ok := h.requireFrame(c, galerie)
	if !ok {
		return
	}
	previous := common.CursorParam(c, "previousLike")

	likes, err := h.framesRepo.ListLikes(c.Request.Context(), frame.ID, previous)
	if err != nil {
		common.RespondInternalError(c)
		return
	}

	users := make([]*models.User, 0, len(likes))
	for _, like := range likes {
		users = append(users, &like.User)
	}
	if err := h.visibility.DecorateUsers(c.Request.Context(), users); err != nil {
		common.RespondInternalError(c)
		return
	}

	views := make([]likeView, 0, len(likes))
	for _, like := range likes {
		views = append(views, likeView{
			ID:        like.ID,
			UUID:      like.UUID,
			CreatedAt: like.CreatedAt,
			User:      &like.User,
		})
	}
	common.RespondSuccess(c, gin.H{"likes": views})
}
