package notifications

import (
	"github.com/galeries/galeries-server/database/repo/accounts"
	repoGaleries "github.com/galeries/galeries-server/database/repo/galeries"
	repoNotifications "github.com/galeries/galeries-server/database/repo/notifications"
	"github.com/galeries/galeries-server/internal/auth"
	svcNotifications "github.com/galeries/galeries-server/internal/notifications"
)

// Handler 通知处理器
type Handler struct {
	svc               *svcNotifications.Service
	renderer          *svcNotifications.Renderer
	notificationsRepo *repoNotifications.Repository
	galeriesRepo      *repoGaleries.Repository
	accountsRepo      *accounts.Repository
	jwtService        *auth.JWTService
}

// NewHandler 创建新的通知处理器
func NewHandler(
	svc *svcNotifications.Service,
	renderer *svcNotifications.Renderer,
	notificationsRepo *repoNotifications.Repository,
	galeriesRepo *repoGaleries.Repository,
	accountsRepo *accounts.Repository,
	jwtService *auth.JWTService,
) *Handler {
	return &Handler{
		svc:               svc,
		renderer:          renderer,
		notificationsRepo: notificationsRepo,
		galeriesRepo:      galeriesRepo,
		accountsRepo:      accountsRepo,
		jwtService:        jwtService,
	}
}
