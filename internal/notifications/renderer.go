package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/database/repo/frames"
)

// Rendered 通知的对外形态。标签联合：每种类型只暴露自己的字段。
type Rendered struct {
	ID        uint            `json:"autoIncrementId"`
	UUID      string          `json:"id"`
	Type      string          `json:"type"`
	Num       int64           `json:"num"`
	Seen      bool            `json:"seen"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Users     []*models.User  `json:"users,omitempty"`
	Frames    []*models.Frame `json:"frames,omitempty"`
	Galerie   *models.Galerie `json:"galerie,omitempty"`
	Frame     *models.Frame   `json:"frame,omitempty"`
	Role      string          `json:"role,omitempty"`
}

// FrameDecorator 给图框补签名 URL；由内容服务注入避免环依赖
type FrameDecorator func(ctx context.Context, frames []*models.Frame) ([]*models.Frame, error)

// Renderer 通知渲染器，关联实体截断到最近 4 个
type Renderer struct {
	service        *Service
	framesRepo     *frames.Repository
	frameDecorator FrameDecorator
}

// NewRenderer 创建渲染器
func NewRenderer(service *Service, framesRepo *frames.Repository) *Renderer {
	return &Renderer{service: service, framesRepo: framesRepo}
}

// SetFrameDecorator 注入图框装饰函数
func (r *Renderer) SetFrameDecorator(decorator FrameDecorator) {
	r.frameDecorator = decorator
}

func (r *Renderer) decorateFrames(ctx context.Context, frames []*models.Frame) ([]*models.Frame, error) {
	if r.frameDecorator == nil {
		return frames, nil
	}
	return r.frameDecorator(ctx, frames)
}

// Render 按类型渲染单条通知
func (r *Renderer) Render(ctx context.Context, notification *models.Notification) (*Rendered, error) {
	rendered := &Rendered{
		ID:        notification.ID,
		UUID:      notification.UUID,
		Type:      notification.Type,
		Num:       notification.Num,
		Seen:      notification.Seen,
		CreatedAt: notification.CreatedAt,
		UpdatedAt: notification.UpdatedAt,
	}

	repo := r.service.notificationsRepo
	switch notification.Type {
	case models.NotificationFrameLikedType:
		users, err := repo.FrameLikedUsers(ctx, notification.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load liked users: %w", err)
		}
		rendered.Users = users
		if notification.FrameID != nil {
			frame, err := r.frameByID(ctx, *notification.FrameID)
			if err != nil {
				return nil, err
			}
			rendered.Frame = frame
		}

	case models.NotificationFramePostedType:
		frames, err := repo.FramePostedFrames(ctx, notification.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load posted frames: %w", err)
		}
		frames, err = r.decorateFrames(ctx, frames)
		if err != nil {
			return nil, err
		}
		rendered.Frames = frames
		rendered.Galerie = r.galerieByID(ctx, notification.GalerieID)

	case models.NotificationUserSubscribeType:
		users, err := repo.UserSubscribeUsers(ctx, notification.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load subscribed users: %w", err)
		}
		rendered.Users = users
		rendered.Galerie = r.galerieByID(ctx, notification.GalerieID)

	case models.NotificationBetaKeyUsedType:
		users, err := repo.BetaKeyUsedUsers(ctx, notification.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load beta key users: %w", err)
		}
		rendered.Users = users

	case models.NotificationRoleChangeType:
		rendered.Role = notification.Role
		rendered.Galerie = r.galerieByID(ctx, notification.GalerieID)
	}

	return rendered, nil
}

// RenderList 渲染分页结果；单条渲染失败整体报错，不吞异常
func (r *Renderer) RenderList(ctx context.Context, list []*models.Notification) ([]*Rendered, error) {
	rendered := make([]*Rendered, 0, len(list))
	for _, notification := range list {
		item, err := r.Render(ctx, notification)
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, item)
	}
	return rendered, nil
}

func (r *Renderer) frameByID(ctx context.Context, frameID uint) (*models.Frame, error) {
	frame, err := r.framesRepo.GetFrameByID(ctx, frameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load frame: %w", err)
	}
	if frame == nil {
		return nil, nil
	}
	decorated, err := r.decorateFrames(ctx, []*models.Frame{frame})
	if err != nil {
		return nil, err
	}
	if len(decorated) == 0 {
		return nil, nil
	}
	return decorated[0], nil
}

func (r *Renderer) galerieByID(ctx context.Context, galerieID *uint) *models.Galerie {
	if galerieID == nil {
		return nil
	}
	galerie, err := r.service.galeriesRepo.GetGalerieByID(ctx, *galerieID)
	if err != nil {
		return nil
	}
	return galerie
}
