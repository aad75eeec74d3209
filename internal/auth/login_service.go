package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/database/repo/accounts"
	"github.com/galeries/galeries-server/database/repo/blacklists"
	cryptopackage "github.com/galeries/galeries-server/utils/crypto"
)

var (
	// ErrInvalidCredentials 用户不存在或密码错误，对外不区分
	ErrInvalidCredentials = errors.New("wrong user name, email, or password")
	// ErrNotConfirmed 邮箱未确认
	ErrNotConfirmed = errors.New("account not confirmed")
	// ErrBlackListed 账号处于有效的全局拉黑
	ErrBlackListed = errors.New("account is black listed")
)

// LoginResult 登录结果
type LoginResult struct {
	User              *models.User
	AccessToken       string
	AccessTokenExpiry time.Time
}

// LoginService 登录服务
type LoginService struct {
	accountsRepo   *accounts.Repository
	blackListsRepo *blacklists.Repository
	jwtService     *JWTService
}

// NewLoginService 创建新的登录服务
func NewLoginService(
	accountsRepo *accounts.Repository,
	blackListsRepo *blacklists.Repository,
	jwtService *JWTService,
) *LoginService {
	return &LoginService{
		accountsRepo:   accountsRepo,
		blackListsRepo: blackListsRepo,
		jwtService:     jwtService,
	}
}

// findUser 同时支持用户名和邮箱登录
func (s *LoginService) findUser(ctx context.Context, userNameOrEmail string) (*models.User, error) {
	if strings.Contains(userNameOrEmail, "@") {
		return s.accountsRepo.GetUserByEmail(ctx, strings.ToLower(userNameOrEmail))
	}
	return s.accountsRepo.GetUserByUserName(ctx, userNameOrEmail)
}

// Login 校验凭据并签发访问令牌。未确认或被拉黑的账号拒绝登录。
func (s *LoginService) Login(ctx context.Context, userNameOrEmail, password string) (*LoginResult, error) {
	user, err := s.findUser(ctx, userNameOrEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	ok, err := cryptopackage.ComparePasswordAndHash(password, user.Password)
	if err != nil {
		return nil, fmt.Errorf("password comparison failed: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if !user.Confirmed {
		return nil, ErrNotConfirmed
	}

	blackList, err := s.blackListsRepo.ActiveGlobalBlackList(ctx, user.ID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to check black list: %w", err)
	}
	if blackList != nil {
		return nil, ErrBlackListed
	}

	accessToken, expiry, err := s.jwtService.GenerateAccessToken(user.ID, user.Role, user.AuthTokenVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &LoginResult{
		User:              user,
		AccessToken:       accessToken,
		AccessTokenExpiry: expiry,
	}, nil
}
