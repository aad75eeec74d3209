package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/galeries/galeries-server/api/common"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter 基于客户端 IP 的令牌桶限流
type IPRateLimiter struct {
	rps        float64
	burst      int
	expireTime time.Duration
	limiterMap *sync.Map
	stopChan   chan struct{}
}

// NewIPRateLimiter 创建限流器并启动后台清理
func NewIPRateLimiter(rps float64, burst int, expireTime time.Duration) *IPRateLimiter {
	limiter := &IPRateLimiter{
		rps:        rps,
		burst:      burst,
		expireTime: expireTime,
		limiterMap: &sync.Map{},
		stopChan:   make(chan struct{}),
	}

	go limiter.cleanupStaleClients()

	return limiter
}

// Middleware 返回 gin 中间件
func (rl *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := getClientIP(c)

		newLimiter := rate.NewLimiter(rate.Limit(rl.rps), rl.burst)
		val, _ := rl.limiterMap.LoadOrStore(ip, &clientLimiter{
			limiter:  newLimiter,
			lastSeen: time.Now(),
		})

		client := val.(*clientLimiter)
		client.lastSeen = time.Now()

		if !client.limiter.Allow() {
			common.RespondError(c, http.StatusTooManyRequests, "too many requests")
			c.Abort()
			return
		}

		c.Next()
	}
}

// StopCleanup 停止后台清理
func (rl *IPRateLimiter) StopCleanup() {
	close(rl.stopChan)
}

func (rl *IPRateLimiter) cleanupStaleClients() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.limiterMap.Range(func(key, value interface{}) bool {
				client := value.(*clientLimiter)
				if time.Since(client.lastSeen) > rl.expireTime {
					rl.limiterMap.Delete(key)
				}
				return true
			})
		case <-rl.stopChan:
			return
		}
	}
}

// getClientIP 取客户端真实 IP
func getClientIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		ips := strings.Split(ip, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}
	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}
	return c.ClientIP()
}
