package repositories

import (
	"github.com/galeries/galeries-server/cache"
	"github.com/galeries/galeries-server/database"
	"github.com/galeries/galeries-server/database/repo/accounts"
	"github.com/galeries/galeries-server/database/repo/betakeys"
	"github.com/galeries/galeries-server/database/repo/blacklists"
	"github.com/galeries/galeries-server/database/repo/frames"
	"github.com/galeries/galeries-server/database/repo/galeries"
	"github.com/galeries/galeries-server/database/repo/invitations"
	"github.com/galeries/galeries-server/database/repo/notifications"
	"github.com/galeries/galeries-server/database/repo/reports"
)

// Repositories 集中管理所有数据库仓库
type Repositories struct {
	Accounts      *accounts.Repository
	BetaKeys      *betakeys.Repository
	BlackLists    *blacklists.Repository
	Frames        *frames.Repository
	Galeries      *galeries.Repository
	Invitations   *invitations.Repository
	Notifications *notifications.Repository
	Reports       *reports.Repository
}

// NewRepositories 创建所有仓库实例
func NewRepositories(provider database.Provider, cacheProvider cache.Provider, userTTLSeconds int) *Repositories {
	return &Repositories{
		Accounts:      accounts.NewRepository(provider, cacheProvider, userTTLSeconds),
		BetaKeys:      betakeys.NewRepository(provider),
		BlackLists:    blacklists.NewRepository(provider),
		Frames:        frames.NewRepository(provider),
		Galeries:      galeries.NewRepository(provider),
		Invitations:   invitations.NewRepository(provider),
		Notifications: notifications.NewRepository(provider),
		Reports:       reports.NewRepository(provider),
	}
}
