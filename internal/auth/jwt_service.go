package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/galeries/galeries-server/config"
	"github.com/golang-jwt/jwt/v5"
)

// 令牌用途
const (
	TokenTypeAccess       = "access"
	TokenTypeConfirm      = "confirm"
	TokenTypeNotification = "notification"
)

var (
	// ErrInvalidToken 签名无效、过期或声明缺失
	ErrInvalidToken = errors.New("invalid token")
	// ErrWrongTokenType 令牌用途与预期不符
	ErrWrongTokenType = errors.New("wrong token type")
)

// TokenClaims JWT 令牌声明。不同用途的令牌携带不同的版本号：
// access 令牌绑定 authTokenVersion，confirm 令牌绑定 confirmTokenVersion。
type TokenClaims struct {
	UserID       uint
	Role         string
	TokenVersion int
	Type         string
	Exp          int64
	Iat          int64
}

// TokenConfig 保存 JWT 配置
type TokenConfig struct {
	Secret                []byte
	ExpiresIn             time.Duration
	ConfirmExpiresIn      time.Duration
	NotificationExpiresIn time.Duration
}

// JWTService JWT Token 服务
type JWTService struct {
	config TokenConfig
}

// NewJWTService 创建新的 JWT 服务
func NewJWTService(cfg *config.Config) (*JWTService, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT secret must be at least 32 characters long, got %d", len(cfg.JWTSecret))
	}
	return &JWTService{
		config: TokenConfig{
			Secret:                []byte(cfg.JWTSecret),
			ExpiresIn:             cfg.JWTExpiresIn,
			ConfirmExpiresIn:      cfg.JWTConfirmExpiresIn,
			NotificationExpiresIn: cfg.JWTNotificationToken,
		},
	}, nil
}

// NewJWTServiceWithConfig 直接注入配置（仅用于测试）
func NewJWTServiceWithConfig(config TokenConfig) *JWTService {
	return &JWTService{config: config}
}

// GenerateAccessToken 生成访问令牌，绑定用户当前的 authTokenVersion
func (s *JWTService) GenerateAccessToken(userID uint, role string, authTokenVersion int) (string, time.Time, error) {
	return s.generate(userID, role, authTokenVersion, TokenTypeAccess, s.config.ExpiresIn)
}

// GenerateConfirmToken 生成邮箱确认令牌，绑定 confirmTokenVersion 实现一次性消费
func (s *JWTService) GenerateConfirmToken(userID uint, confirmTokenVersion int) (string, time.Time, error) {
	return s.generate(userID, "", confirmTokenVersion, TokenTypeConfirm, s.config.ConfirmExpiresIn)
}

// GenerateNotificationToken 生成通知令牌，用于邮件内的免登录跳转
func (s *JWTService) GenerateNotificationToken(userID uint) (string, time.Time, error) {
	return s.generate(userID, "", 0, TokenTypeNotification, s.config.NotificationExpiresIn)
}

func (s *JWTService) generate(userID uint, role string, version int, tokenType string, ttl time.Duration) (string, time.Time, error) {
	if len(s.config.Secret) == 0 {
		return "", time.Time{}, errors.New("JWT secret is not initialized")
	}

	expiry := time.Now().Add(ttl)
	claims := jwt.MapClaims{
		"user_id":       userID,
		"token_version": version,
		"type":          tokenType,
		"exp":           expiry.Unix(),
		"iat":           time.Now().Unix(),
	}
	if role != "" {
		claims["role"] = role
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.config.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiry, nil
}

// ParseToken 解析和验证 JWT 令牌
func (s *JWTService) ParseToken(tokenString string) (jwt.MapClaims, error) {
	if len(s.config.Secret) == 0 {
		return nil, errors.New("JWT secret is not initialized")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.config.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractClaims 从令牌中提取声明并校验用途
func (s *JWTService) ExtractClaims(tokenString, expectedType string) (*TokenClaims, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}

	tokenType, _ := claims["type"].(string)
	if tokenType != expectedType {
		return nil, ErrWrongTokenType
	}

	role, _ := claims["role"].(string)
	userIDFloat, _ := claims["user_id"].(float64)
	versionFloat, _ := claims["token_version"].(float64)
	expFloat, _ := claims["exp"].(float64)
	iatFloat, _ := claims["iat"].(float64)

	return &TokenClaims{
		UserID:       uint(userIDFloat),
		Role:         role,
		TokenVersion: int(versionFloat),
		Type:         tokenType,
		Exp:          int64(expFloat),
		Iat:          int64(iatFloat),
	}, nil
}
