package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/galeries/galeries-server/database"
	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/database/repo/accounts"
	"github.com/galeries/galeries-server/database/repo/blacklists"
	"github.com/galeries/galeries-server/internal/auth"
)

func setupAuthTest(t *testing.T) (*gin.Engine, *auth.JWTService, database.Provider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.BlackList{}))

	provider := database.NewGormProviderFromDB(db, "sqlite")
	accountsRepo := accounts.NewRepository(provider, nil, 0)
	blackListsRepo := blacklists.NewRepository(provider)

	jwtService := auth.NewJWTServiceWithConfig(auth.TokenConfig{
		Secret:    []byte("test-secret-key-at-least-32-bytes-long"),
		ExpiresIn: time.Hour,
	})

	router := gin.New()
	router.GET("/probe", Auth(jwtService, accountsRepo, blackListsRepo), func(c *gin.Context) {
		user := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"userName": user.UserName})
	})
	return router, jwtService, provider
}

func createAuthTestUser(t *testing.T, provider database.Provider, confirmed bool) *models.User {
	t.Helper()
	user := &models.User{
		UUID:      uuid.New().String(),
		UserName:  "user" + uuid.New().String()[:8],
		Email:     uuid.New().String() + "@example.com",
		Password:  "hash",
		Role:      models.RoleUser,
		Confirmed: confirmed,
	}
	require.NoError(t, provider.DB().Create(user).Error)
	return user
}

func performProbe(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMissingToken(t *testing.T) {
	router, _, _ := setupAuthTest(t)

	w := performProbe(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token not found")
}

func TestAuthMalformedToken(t *testing.T) {
	router, _, _ := setupAuthTest(t)

	for _, header := range []string{"garbage", "Basic abc", "Bearer not-a-jwt"} {
		w := performProbe(router, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "wrong token")
	}
}

func TestAuthValidToken(t *testing.T) {
	router, jwtService, provider := setupAuthTest(t)
	user := createAuthTestUser(t, provider, true)

	token, _, err := jwtService.GenerateAccessToken(user.ID, user.Role, user.AuthTokenVersion)
	require.NoError(t, err)

	w := performProbe(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.UserName)
}

func TestAuthUnconfirmedUser(t *testing.T) {
	router, jwtService, provider := setupAuthTest(t)
	user := createAuthTestUser(t, provider, false)

	token, _, err := jwtService.GenerateAccessToken(user.ID, user.Role, user.AuthTokenVersion)
	require.NoError(t, err)

	w := performProbe(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "wrong token")
}

func TestAuthStaleTokenVersion(t *testing.T) {
	router, jwtService, provider := setupAuthTest(t)
	user := createAuthTestUser(t, provider, true)

	// 令牌携带旧版本号（改密后 authTokenVersion 已自增）
	token, _, err := jwtService.GenerateAccessToken(user.ID, user.Role, user.AuthTokenVersion)
	require.NoError(t, err)
	require.NoError(t, provider.DB().Model(user).Update("auth_token_version", user.AuthTokenVersion+1).Error)

	w := performProbe(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "wrong token version")
}

func TestAuthBlackListedUser(t *testing.T) {
	router, jwtService, provider := setupAuthTest(t)
	user := createAuthTestUser(t, provider, true)

	require.NoError(t, provider.DB().Create(&models.BlackList{
		UUID:   uuid.New().String(),
		Reason: "spamming every frame",
		Active: true,
		UserID: user.ID,
	}).Error)

	token, _, err := jwtService.GenerateAccessToken(user.ID, user.Role, user.AuthTokenVersion)
	require.NoError(t, err)

	w := performProbe(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "your account is black listed")
}

func TestAuthExpiredBlackListPasses(t *testing.T) {
	router, jwtService, provider := setupAuthTest(t)
	user := createAuthTestUser(t, provider, true)

	expired := int64(1)
	blackList := &models.BlackList{
		UUID:   uuid.New().String(),
		Reason: "old offence long served",
		Active: true,
		Time:   &expired,
		UserID: user.ID,
	}
	require.NoError(t, provider.DB().Create(blackList).Error)
	require.NoError(t, provider.DB().Model(blackList).Update("created_at", time.Now().Add(-time.Hour)).Error)

	token, _, err := jwtService.GenerateAccessToken(user.ID, user.Role, user.AuthTokenVersion)
	require.NoError(t, err)

	w := performProbe(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/admin", func(c *gin.Context) {
		c.Set(ContextUserKey, &models.User{ID: 1, Role: models.RoleModerator})
	}, RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "your role does not allow you to do this")
}
