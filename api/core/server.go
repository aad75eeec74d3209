package core

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/galeries/galeries-server/api/middleware"
	"github.com/galeries/galeries-server/internal/di"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// setupRouter 组装 gin 引擎与全局中间件
func setupRouter(container *di.Container) (*gin.Engine, func()) {
	cfg := container.GetConfig()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.BaseURL()},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "confirmation", "notificationtoken"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.SetTrustedProxies(nil)

	// 限制上传文件大小
	router.MaxMultipartMemory = int64(cfg.UploadMaxSizeMB) << 20

	// 请求ID追踪
	router.Use(middleware.RequestID())

	// 速率限制
	authRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitAuthRPS, cfg.RateLimitAuthBurst, cfg.RateLimitExpireTime)
	apiRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitApiRPS, cfg.RateLimitApiBurst, cfg.RateLimitExpireTime)
	cleanup := func() {
		authRateLimiter.StopCleanup()
		apiRateLimiter.StopCleanup()
	}

	RegisterRoutes(router, container, authRateLimiter, apiRateLimiter)

	return router, cleanup
}

// StartServer 启动 HTTP 服务并阻塞到收到退出信号
func StartServer(container *di.Container) error {
	cfg := container.GetConfig()
	router, cleanup := setupRouter(container)
	defer cleanup()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		log.Printf("Received signal %s, shutting down...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	log.Println("Server stopped")
	return nil
}
