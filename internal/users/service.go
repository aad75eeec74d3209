package users

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/galeries/galeries-server/database"
	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/database/repo/accounts"
	"github.com/galeries/galeries-server/database/repo/betakeys"
	"github.com/galeries/galeries-server/internal/auth"
	"github.com/galeries/galeries-server/internal/mailer"
	"github.com/galeries/galeries-server/internal/notifications"
	"github.com/galeries/galeries-server/utils"
	cryptopackage "github.com/galeries/galeries-server/utils/crypto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrUserNameTaken 用户名已占用
	ErrUserNameTaken = errors.New("this user name is already taken")
	// ErrEmailTaken 邮箱已注册
	ErrEmailTaken = errors.New("this email is already taken")
	// ErrBetaKeyNotUsable 注册邀请码不可用
	ErrBetaKeyNotUsable = errors.New("this beta key is not usable")
	// ErrWrongPassword 当前密码校验失败
	ErrWrongPassword = errors.New("wrong password")
	// ErrAlreadyConfirmed 重复确认
	ErrAlreadyConfirmed = errors.New("account already confirmed")
	// ErrTokenConsumed 确认令牌已被消费
	ErrTokenConsumed = errors.New("this token has already been used")
)

// Service 账号生命周期：注册、确认、密码与邮箱变更
type Service struct {
	accountsRepo *accounts.Repository
	betaKeysRepo *betakeys.Repository
	jwtService   *auth.JWTService
	mail         *mailer.Mailer
	notifier     *notifications.Service
	db           txProvider
}

type txProvider interface {
	TransactionWithContext(ctx context.Context, fn database.TxFunc) error
}

// NewService 创建账号服务
func NewService(
	db txProvider,
	accountsRepo *accounts.Repository,
	betaKeysRepo *betakeys.Repository,
	jwtService *auth.JWTService,
	mail *mailer.Mailer,
	notifier *notifications.Service,
) *Service {
	return &Service{
		db:           db,
		accountsRepo: accountsRepo,
		betaKeysRepo: betaKeysRepo,
		jwtService:   jwtService,
		mail:         mail,
		notifier:     notifier,
	}
}

// Register 注册账号。邀请码可选；配置了邀请制时由 handler 侧强制。
// 注册完成后发送确认邮件，账号在确认前不能登录。
func (s *Service) Register(ctx context.Context, userName, email, password, betaKeyCode string) (*models.User, error) {
	email = strings.ToLower(email)

	if existing, err := s.accountsRepo.GetUserByUserName(ctx, userName); err != nil {
		return nil, fmt.Errorf("failed to check user name: %w", err)
	} else if existing != nil {
		return nil, ErrUserNameTaken
	}
	if existing, err := s.accountsRepo.GetUserByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if existing != nil {
		return nil, ErrEmailTaken
	}

	var betaKey *models.BetaKey
	if betaKeyCode != "" {
		var err error
		betaKey, err = s.betaKeysRepo.GetByCode(ctx, betaKeyCode)
		if err != nil {
			return nil, fmt.Errorf("failed to get beta key: %w", err)
		}
		if betaKey == nil || betaKey.UserID != nil {
			return nil, ErrBetaKeyNotUsable
		}
	}

	hashed, err := cryptopackage.GenerateFromPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		UUID:     uuid.New().String(),
		UserName: userName,
		Email:    email,
		Password: hashed,
		Role:     models.RoleUser,
	}

	err = s.db.TransactionWithContext(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if betaKey != nil {
			consumed, err := s.betaKeysRepo.Consume(tx, betaKey.ID, user.ID)
			if err != nil {
				return err
			}
			if !consumed {
				return ErrBetaKeyNotUsable
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBetaKeyNotUsable) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if betaKey != nil {
		if err := s.notifier.NotifyBetaKeyUsed(ctx, betaKey, user.ID); err != nil {
			log.Printf("Beta key notification failed: %v", err)
		}
	}

	s.sendConfirmation(user)
	return user, nil
}

// sendConfirmation 发确认邮件，失败只记日志（可重发）
func (s *Service) sendConfirmation(user *models.User) {
	token, _, err := s.jwtService.GenerateConfirmToken(user.ID, user.ConfirmTokenVersion)
	if err != nil {
		log.Printf("Failed to generate confirm token for %s: %v", utils.SanitizeLogUserName(user.UserName), err)
		return
	}
	utils.SafeGo(func() {
		if err := s.mail.SendConfirmation(user.Email, user.UserName, token); err != nil {
			log.Printf("Failed to send confirmation mail: %v", err)
		}
	})
}

// ResendConfirmation 重发确认邮件
func (s *Service) ResendConfirmation(ctx context.Context, email string) error {
	user, err := s.accountsRepo.GetUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil
	}
	if user.Confirmed {
		return ErrAlreadyConfirmed
	}
	s.sendConfirmation(user)
	return nil
}

// Confirm 消费确认令牌。版本号一次性：确认同时递增 confirmTokenVersion，
// 旧令牌立即作废。
func (s *Service) Confirm(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwtService.ExtractClaims(token, auth.TokenTypeConfirm)
	if err != nil {
		return nil, err
	}

	user, err := s.accountsRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, auth.ErrInvalidToken
	}
	if user.Confirmed {
		return nil, ErrAlreadyConfirmed
	}
	if claims.TokenVersion != user.ConfirmTokenVersion {
		return nil, ErrTokenConsumed
	}

	if err := s.accountsRepo.ConfirmUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to confirm user: %w", err)
	}
	user.Confirmed = true
	return user, nil
}

// SendPasswordReset 发送重置链接，账号不存在时静默成功
func (s *Service) SendPasswordReset(ctx context.Context, email string) error {
	user, err := s.accountsRepo.GetUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil
	}

	token, _, err := s.jwtService.GenerateConfirmToken(user.ID, user.ConfirmTokenVersion)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	utils.SafeGo(func() {
		if err := s.mail.SendPasswordReset(user.Email, user.UserName, token); err != nil {
			log.Printf("Failed to send reset mail: %v", err)
		}
	})
	return nil
}

// ResetPassword 凭重置令牌改密。authTokenVersion 随之递增，
// 所有在外的访问令牌即刻失效。
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.jwtService.ExtractClaims(token, auth.TokenTypeConfirm)
	if err != nil {
		return err
	}

	user, err := s.accountsRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return auth.ErrInvalidToken
	}
	if claims.TokenVersion != user.ConfirmTokenVersion {
		return ErrTokenConsumed
	}

	hashed, err := cryptopackage.GenerateFromPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.accountsRepo.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// UpdatePassword 登录态改密，需验证当前密码
func (s *Service) UpdatePassword(ctx context.Context, user *models.User, currentPassword, newPassword string) error {
	ok, err := cryptopackage.ComparePasswordAndHash(currentPassword, user.Password)
	if err != nil {
		return fmt.Errorf("password comparison failed: %w", err)
	}
	if !ok {
		return ErrWrongPassword
	}

	hashed, err := cryptopackage.GenerateFromPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.accountsRepo.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// UpdateEmail 变更邮箱，需验证密码；authTokenVersion 递增
func (s *Service) UpdateEmail(ctx context.Context, user *models.User, password, newEmail string) error {
	ok, err := cryptopackage.ComparePasswordAndHash(password, user.Password)
	if err != nil {
		return fmt.Errorf("password comparison failed: %w", err)
	}
	if !ok {
		return ErrWrongPassword
	}

	newEmail = strings.ToLower(newEmail)
	if existing, err := s.accountsRepo.GetUserByEmail(ctx, newEmail); err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	} else if existing != nil {
		return ErrEmailTaken
	}

	if err := s.accountsRepo.UpdateEmail(ctx, user.ID, newEmail); err != nil {
		return fmt.Errorf("failed to update email: %w", err)
	}

	utils.SafeGo(func() {
		if err := s.mail.SendEmailUpdate(newEmail, user.UserName); err != nil {
			log.Printf("Failed to send email update mail: %v", err)
		}
	})
	return nil
}
