package users

import (
	"github.com/galeries/galeries-server/database/repo/accounts"
	"github.com/galeries/galeries-server/database/repo/betakeys"
	"github.com/galeries/galeries-server/database/repo/blacklists"
	"github.com/galeries/galeries-server/internal/auth"
	"github.com/galeries/galeries-server/internal/content"
	"github.com/galeries/galeries-server/internal/moderation"
	svcUsers "github.com/galeries/galeries-server/internal/users"
)

// Handler 用户处理器
type Handler struct {
	svc          *svcUsers.Service
	login        *auth.LoginService
	moderation   *moderation.Service
	visibility   *content.VisibilityService
	deletion     *content.DeletionService
	accountsRepo *accounts.Repository
	blackLists   *blacklists.Repository
	betaKeys     *betakeys.Repository
}

// NewHandler 创建新的用户处理器
func NewHandler(
	svc *svcUsers.Service,
	login *auth.LoginService,
	moderationService *moderation.Service,
	visibility *content.VisibilityService,
	deletion *content.DeletionService,
	accountsRepo *accounts.Repository,
	blackListsRepo *blacklists.Repository,
	betaKeysRepo *betakeys.Repository,
) *Handler {
	return &Handler{
		svc:          svc,
		login:        login,
		moderation:   moderationService,
		visibility:   visibility,
		deletion:     deletion,
		accountsRepo: accountsRepo,
		blackLists:   blackListsRepo,
		betaKeys:     betaKeysRepo,
	}
}
