package core

import (
	handlerFrames "github.com/galeries/galeries-server/api/handler/frames"
	handlerGaleries "github.com/galeries/galeries-server/api/handler/galeries"
	handlerNotifications "github.com/galeries/galeries-server/api/handler/notifications"
	handlerProfilePictures "github.com/galeries/galeries-server/api/handler/profilepictures"
	handlerUsers "github.com/galeries/galeries-server/api/handler/users"
	"github.com/galeries/galeries-server/api/middleware"
	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/internal/di"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(router *gin.Engine, container *di.Container, authRateLimiter, apiRateLimiter *middleware.IPRateLimiter) {
	cfg := container.GetConfig()
	repos := container.GetRepositories()
	maxUploadBytes := int64(cfg.UploadMaxSizeMB) << 20

	usersHandler := handlerUsers.NewHandler(
		container.GetUserService(),
		container.GetLoginService(),
		container.GetModerationService(),
		container.GetVisibilityService(),
		container.GetDeletionService(),
		repos.Accounts,
		repos.BlackLists,
		repos.BetaKeys,
	)
	galeriesHandler := handlerGaleries.NewHandler(
		container.GetGalerieService(),
		container.GetModerationService(),
		repos.Galeries,
		repos.Invitations,
		repos.BlackLists,
		repos.Accounts,
	)
	framesHandler := handlerFrames.NewHandler(
		container.GetFrameService(),
		container.GetVisibilityService(),
		container.GetDeletionService(),
		repos.Galeries,
		repos.Frames,
		maxUploadBytes,
	)
	notificationsHandler := handlerNotifications.NewHandler(
		container.GetNotificationService(),
		container.GetNotificationRenderer(),
		repos.Notifications,
		repos.Galeries,
		repos.Accounts,
		container.GetJWTService(),
	)
	profilePicturesHandler := handlerProfilePictures.NewHandler(
		container.GetProfilePictureService(),
		container.GetVisibilityService(),
		repos.Frames,
		maxUploadBytes,
	)

	authRequired := middleware.Auth(container.GetJWTService(), repos.Accounts, repos.BlackLists)

	// 健康检查
	router.GET("/health", healthHandler(
		container.GetDatabaseFactory(),
		container.GetCacheFactory(),
		container.GetStorageFactory(),
	))

	// 注册、登录与无会话的确认/重置流程
	usersPublic := router.Group("/users")
	usersPublic.Use(authRateLimiter.Middleware())
	{
		usersPublic.POST("", usersHandler.RegisterHandler)
		usersPublic.POST("/login", usersHandler.LoginHandler)
		usersPublic.PUT("/confirmation", usersHandler.ConfirmHandler)
		usersPublic.POST("/confirmation", usersHandler.ResendConfirmationHandler)
		usersPublic.POST("/resetPassword", usersHandler.SendResetPasswordHandler)
		usersPublic.PUT("/resetPassword", usersHandler.ResetPasswordHandler)
	}

	// 登录态用户接口
	usersGroup := router.Group("/users")
	usersGroup.Use(apiRateLimiter.Middleware(), authRequired)
	{
		usersGroup.GET("/me", usersHandler.MeHandler)
		usersGroup.DELETE("/me", usersHandler.DeleteAccountHandler)
		usersGroup.PUT("/me/password", usersHandler.UpdatePasswordHandler)
		usersGroup.PUT("/me/email", usersHandler.UpdateEmailHandler)
		usersGroup.GET("/id/:userId", usersHandler.GetUserHandler)
		usersGroup.GET("/userName/:userName", usersHandler.SearchUsersHandler)

		moderatorGroup := usersGroup.Group("")
		moderatorGroup.Use(middleware.RequireRole(models.RoleModerator))
		{
			moderatorGroup.POST("/id/:userId/blackLists", usersHandler.BlackListUserHandler)
			moderatorGroup.DELETE("/id/:userId/blackLists", usersHandler.UnBlackListUserHandler)
			moderatorGroup.GET("/blackLists", usersHandler.ListBlackListsHandler)
			moderatorGroup.GET("/blackLists/:blackListId", usersHandler.GetBlackListHandler)
			moderatorGroup.PUT("/blackLists/:blackListId", usersHandler.UpdateBlackListTimeHandler)
			moderatorGroup.POST("/betaKeys", usersHandler.CreateBetaKeyHandler)
			moderatorGroup.GET("/betaKeys", usersHandler.ListBetaKeysHandler)
			moderatorGroup.GET("/betaKeys/:betaKeyId", usersHandler.GetBetaKeyHandler)
			moderatorGroup.DELETE("/betaKeys/:betaKeyId", usersHandler.DeleteBetaKeyHandler)
		}

		adminGroup := usersGroup.Group("")
		adminGroup.Use(middleware.RequireRole(models.RoleAdmin))
		{
			adminGroup.PUT("/id/:userId/role", usersHandler.UpdateRoleHandler)
		}
	}

	// 相册与帧
	galeriesGroup := router.Group("/galeries")
	galeriesGroup.Use(apiRateLimiter.Middleware(), authRequired)
	{
		galeriesGroup.POST("", galeriesHandler.CreateGalerieHandler)
		galeriesGroup.GET("", galeriesHandler.ListGaleriesHandler)
		galeriesGroup.POST("/subscribe", galeriesHandler.SubscribeHandler)
		galeriesGroup.GET("/:galerieId", galeriesHandler.GetGalerieHandler)
		galeriesGroup.PUT("/:galerieId", galeriesHandler.UpdateGalerieHandler)
		galeriesGroup.DELETE("/:galerieId", galeriesHandler.DeleteGalerieHandler)
		galeriesGroup.DELETE("/:galerieId/unsubscribe", galeriesHandler.UnsubscribeHandler)

		galeriesGroup.GET("/:galerieId/users", galeriesHandler.ListMembersHandler)
		galeriesGroup.PUT("/:galerieId/users/:userId/role", galeriesHandler.UpdateMemberRoleHandler)
		galeriesGroup.POST("/:galerieId/users/:userId/blackLists", galeriesHandler.BlackListMemberHandler)
		galeriesGroup.GET("/:galerieId/blackLists", galeriesHandler.ListGalerieBlackListsHandler)
		galeriesGroup.DELETE("/:galerieId/blackLists/:blackListId", galeriesHandler.UnBlackListMemberHandler)

		galeriesGroup.POST("/:galerieId/invitations", galeriesHandler.CreateInvitationHandler)
		galeriesGroup.GET("/:galerieId/invitations", galeriesHandler.ListInvitationsHandler)
		galeriesGroup.GET("/:galerieId/invitations/:invitationId", galeriesHandler.GetInvitationHandler)
		galeriesGroup.DELETE("/:galerieId/invitations/:invitationId", galeriesHandler.DeleteInvitationHandler)

		galeriesGroup.POST("/:galerieId/frames", framesHandler.PostFrameHandler)
		galeriesGroup.GET("/:galerieId/frames", framesHandler.ListFramesHandler)
		galeriesGroup.GET("/:galerieId/frames/:frameId", framesHandler.GetFrameHandler)
		galeriesGroup.DELETE("/:galerieId/frames/:frameId", framesHandler.DeleteFrameHandler)
		galeriesGroup.POST("/:galerieId/frames/:frameId/likes", framesHandler.ToggleLikeHandler)
		galeriesGroup.GET("/:galerieId/frames/:frameId/likes", framesHandler.ListLikesHandler)
		galeriesGroup.POST("/:galerieId/frames/:frameId/reports", framesHandler.ReportFrameHandler)
	}

	// 通知
	notificationsGroup := router.Group("/notifications")
	notificationsGroup.Use(apiRateLimiter.Middleware())
	{
		// notificationtoken 免登录扇出
		notificationsGroup.POST("/userSubscribe", notificationsHandler.UserSubscribeFanOutHandler)

		authed := notificationsGroup.Group("")
		authed.Use(authRequired)
		{
			authed.GET("", notificationsHandler.ListNotificationsHandler)
			authed.PUT("/:notificationId", notificationsHandler.MarkSeenHandler)
		}
	}

	// 头像
	profilePicturesGroup := router.Group("/profilePictures")
	profilePicturesGroup.Use(apiRateLimiter.Middleware(), authRequired)
	{
		profilePicturesGroup.POST("", profilePicturesHandler.UploadHandler)
		profilePicturesGroup.GET("", profilePicturesHandler.ListHandler)
		profilePicturesGroup.PUT("/:profilePictureId", profilePicturesHandler.SetCurrentHandler)
		profilePicturesGroup.DELETE("/:profilePictureId", profilePicturesHandler.DeleteHandler)
	}
}
