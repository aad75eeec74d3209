package core

import (
	"context"
	"net/http"
	"time"

	"github.com/galeries/galeries-server/cache"
	"github.com/galeries/galeries-server/database"
	"github.com/galeries/galeries-server/storage"
	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

func checkDatabaseHealth(factory *database.Factory) string {
	if factory == nil {
		return "uninitialized"
	}
	if err := factory.Ping(); err != nil {
		return err.Error()
	}
	return "ok"
}

func checkCacheHealth(factory *cache.Factory) string {
	if factory == nil {
		return "uninitialized"
	}
	if err := factory.Get().Health(); err != nil {
		return err.Error()
	}
	return "ok"
}

func checkStorageHealth(factory *storage.Factory) string {
	if factory == nil {
		return "uninitialized"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := factory.GetDefault().Health(ctx); err != nil {
		return err.Error()
	}
	return "ok"
}

// healthHandler 任一依赖不健康时返回 503
func healthHandler(db *database.Factory, cacheFactory *cache.Factory, storageFactory *storage.Factory) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := gin.H{
			"database": checkDatabaseHealth(db),
			"cache":    checkCacheHealth(cacheFactory),
			"storage":  checkStorageHealth(storageFactory),
		}
		httpStatus := http.StatusOK
		status := "ok"
		for _, result := range checks {
			if s, ok := result.(string); ok && s != "ok" {
				httpStatus = http.StatusServiceUnavailable
				status = "degraded"
				break
			}
		}
		c.JSON(httpStatus, gin.H{
			"status": status,
			"uptime": time.Since(startTime).Round(time.Second).String(),
			"checks": checks,
		})
	}
}
