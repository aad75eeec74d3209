package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/galeries/galeries-server/api/common"
	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/database/repo/accounts"
	"github.com/galeries/galeries-server/database/repo/blacklists"
	"github.com/galeries/galeries-server/internal/auth"
	"github.com/gin-gonic/gin"
)

const (
	// ContextUserKey 已认证用户的完整模型
	ContextUserKey = "user"
)

// CurrentUser 取出已认证用户，未认证返回 nil
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// Auth Bearer 令牌认证。每个请求重读用户行：
// 令牌版本不匹配（改密/改邮箱后）或账号处于有效拉黑都立即 401。
func Auth(jwtService *auth.JWTService, accountsRepo *accounts.Repository, blackListsRepo *blacklists.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.RespondError(c, http.StatusUnauthorized, "token not found")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			common.RespondError(c, http.StatusUnauthorized, "wrong token")
			c.Abort()
			return
		}

		claims, err := jwtService.ExtractClaims(parts[1], auth.TokenTypeAccess)
		if err != nil {
			common.RespondError(c, http.StatusUnauthorized, "wrong token")
			c.Abort()
			return
		}

		user, err := accountsRepo.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			common.RespondInternalError(c)
			c.Abort()
			return
		}
		if user == nil || !user.Confirmed {
			common.RespondError(c, http.StatusUnauthorized, "wrong token")
			c.Abort()
			return
		}
		if claims.TokenVersion != user.AuthTokenVersion {
			common.RespondError(c, http.StatusUnauthorized, "wrong token version")
			c.Abort()
			return
		}

		blackListed, err := blackListsRepo.IsBlackListed(c.Request.Context(), user.ID, time.Now())
		if err != nil {
			common.RespondInternalError(c)
			c.Abort()
			return
		}
		if blackListed {
			common.RespondError(c, http.StatusUnauthorized, "your account is black listed")
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// RequireRole 全局角色下限
func RequireRole(minRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			common.RespondError(c, http.StatusUnauthorized, "token not found")
			c.Abort()
			return
		}
		if models.RoleRank(user.Role) < models.RoleRank(minRole) {
			common.RespondError(c, http.StatusForbidden, "your role does not allow you to do this")
			c.Abort()
			return
		}
		c.Next()
	}
}
