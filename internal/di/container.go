package di

import (
	"fmt"
	"log"
	"time"

	"github.com/galeries/galeries-server/cache"
	"github.com/galeries/galeries-server/config"
	"github.com/galeries/galeries-server/database"
	"github.com/galeries/galeries-server/internal/auth"
	"github.com/galeries/galeries-server/internal/content"
	"github.com/galeries/galeries-server/internal/mailer"
	"github.com/galeries/galeries-server/internal/moderation"
	"github.com/galeries/galeries-server/internal/notifications"
	"github.com/galeries/galeries-server/internal/repositories"
	"github.com/galeries/galeries-server/internal/users"
	"github.com/galeries/galeries-server/internal/worker"
	"github.com/galeries/galeries-server/storage"
)

// Container 依赖注入容器 - 管理所有服务的生命周期
type Container struct {
	config          *config.Config
	databaseFactory *database.Factory
	storageFactory  *storage.Factory
	cacheFactory    *cache.Factory
	repositories    *repositories.Repositories
	workerPool      *worker.Pool

	jwtService            *auth.JWTService
	loginService          *auth.LoginService
	mailer                *mailer.Mailer
	notificationService   *notifications.Service
	notificationRenderer  *notifications.Renderer
	moderationService     *moderation.Service
	deletionService       *content.DeletionService
	visibilityService     *content.VisibilityService
	galerieService        *content.GalerieService
	frameService          *content.FrameService
	profilePictureService *content.ProfilePictureService
	userService           *users.Service
}

// NewContainer 创建新的依赖注入容器
func NewContainer(cfg *config.Config) *Container {
	return &Container{config: cfg}
}

// Init 初始化所有服务
func (c *Container) Init() error {
	log.Println("Initializing DI container...")

	if err := c.initFactories(); err != nil {
		return err
	}
	c.initRepositories()
	c.initWorkerPool()
	if err := c.initServices(); err != nil {
		return err
	}

	log.Println("DI container initialized successfully")
	return nil
}

func (c *Container) initFactories() error {
	databaseFactory, err := database.NewFactory(c.config)
	if err != nil {
		return fmt.Errorf("failed to initialize database factory: %w", err)
	}
	c.databaseFactory = databaseFactory
	log.Println("Database factory initialized")

	storageFactory, err := storage.NewFactory(c.config)
	if err != nil {
		return fmt.Errorf("failed to initialize storage factory: %w", err)
	}
	c.storageFactory = storageFactory
	log.Println("Storage factory initialized")

	cacheFactory, err := cache.NewFactory(c.config)
	if err != nil {
		return fmt.Errorf("failed to initialize cache factory: %w", err)
	}
	c.cacheFactory = cacheFactory
	log.Println("Cache factory initialized")
	return nil
}

func (c *Container) initRepositories() {
	c.repositories = repositories.NewRepositories(
		c.databaseFactory.GetProvider(),
		c.cacheFactory.Get(),
		c.config.CacheUserTTL,
	)
	log.Println("Repositories initialized")
}

func (c *Container) initWorkerPool() {
	c.workerPool = worker.NewPool(c.config.WorkerCount, 256)
	c.workerPool.Start()
	log.Printf("Worker pool started with %d workers", c.config.WorkerCount)
}

// signedURLExpiry 签名 URL 的对象存储侧有效期
func (c *Container) signedURLExpiry() time.Duration {
	if d, err := time.ParseDuration(c.config.MinioSignedURLExpiry); err == nil && d > 0 {
		return d
	}
	return 24 * time.Hour
}

func (c *Container) initServices() error {
	cfg := c.config
	provider := c.databaseFactory.GetProvider()
	repos := c.repositories
	storageProvider := c.storageFactory.GetDefault()
	cacheProvider := c.cacheFactory.Get()

	jwtService, err := auth.NewJWTService(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	c.jwtService = jwtService
	c.loginService = auth.NewLoginService(repos.Accounts, repos.BlackLists, jwtService)
	c.mailer = mailer.New(cfg)

	c.notificationService = notifications.NewService(provider, repos.Accounts, repos.Galeries, repos.Notifications)
	c.moderationService = moderation.NewService(repos.Accounts, repos.BlackLists, repos.Galeries, c.notificationService)

	c.deletionService = content.NewDeletionService(
		provider, repos.Accounts, repos.BetaKeys, repos.BlackLists,
		repos.Frames, repos.Galeries, repos.Invitations,
		repos.Notifications, repos.Reports, storageProvider,
	)
	c.visibilityService = content.NewVisibilityService(
		repos.Frames, repos.BlackLists, storageProvider, cacheProvider,
		c.deletionService, c.signedURLExpiry(), cfg.CacheSignedURLTTL,
	)

	c.notificationRenderer = notifications.NewRenderer(c.notificationService, repos.Frames)
	c.notificationRenderer.SetFrameDecorator(c.visibilityService.DecorateFrames)

	c.galerieService = content.NewGalerieService(
		repos.Galeries, repos.Invitations, repos.BlackLists,
		c.notificationService, c.deletionService,
	)
	c.frameService = content.NewFrameService(
		repos.Frames, repos.Reports, c.notificationService,
		storageProvider, c.workerPool, cfg.MinioBucketName,
	)
	c.profilePictureService = content.NewProfilePictureService(
		c.frameService, repos.Frames, storageProvider, c.workerPool, cfg.MinioBucketName,
	)
	c.userService = users.NewService(
		provider, repos.Accounts, repos.BetaKeys,
		jwtService, c.mailer, c.notificationService,
	)

	log.Println("Services initialized")
	return nil
}

// Shutdown 逆序释放资源
func (c *Container) Shutdown() {
	if c.workerPool != nil {
		c.workerPool.Stop()
	}
	if c.cacheFactory != nil {
		if err := c.cacheFactory.Close(); err != nil {
			log.Printf("Failed to close cache: %v", err)
		}
	}
	if c.databaseFactory != nil {
		if err := c.databaseFactory.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}
}

// GetConfig 获取配置
func (c *Container) GetConfig() *config.Config { return c.config }

// GetDatabaseFactory 获取数据库工厂
func (c *Container) GetDatabaseFactory() *database.Factory { return c.databaseFactory }

// GetStorageFactory 获取存储工厂
func (c *Container) GetStorageFactory() *storage.Factory { return c.storageFactory }

// GetCacheFactory 获取缓存工厂
func (c *Container) GetCacheFactory() *cache.Factory { return c.cacheFactory }

// GetRepositories 获取所有仓库
func (c *Container) GetRepositories() *repositories.Repositories { return c.repositories }

// GetJWTService 获取令牌服务
func (c *Container) GetJWTService() *auth.JWTService { return c.jwtService }

// GetLoginService 获取登录服务
func (c *Container) GetLoginService() *auth.LoginService { return c.loginService }

// GetNotificationService 获取通知服务
func (c *Container) GetNotificationService() *notifications.Service { return c.notificationService }

// GetNotificationRenderer 获取通知渲染器
func (c *Container) GetNotificationRenderer() *notifications.Renderer {
	return c.notificationRenderer
}

// GetModerationService 获取管制服务
func (c *Container) GetModerationService() *moderation.Service { return c.moderationService }

// GetDeletionService 获取级联删除服务
func (c *Container) GetDeletionService() *content.DeletionService { return c.deletionService }

// GetVisibilityService 获取可见性装饰服务
func (c *Container) GetVisibilityService() *content.VisibilityService { return c.visibilityService }

// GetGalerieService 获取相册服务
func (c *Container) GetGalerieService() *content.GalerieService { return c.galerieService }

// GetFrameService 获取帧服务
func (c *Container) GetFrameService() *content.FrameService { return c.frameService }

// GetProfilePictureService 获取头像服务
func (c *Container) GetProfilePictureService() *content.ProfilePictureService {
	return c.profilePictureService
}

// GetUserService 获取用户服务
func (c *Container) GetUserService() *users.Service { return c.userService }
