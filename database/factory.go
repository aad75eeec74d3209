package database

import (
	"fmt"
	"log"

	"github.com/galeries/galeries-server/config"
	"github.com/galeries/galeries-server/database/models"
)

// Factory 数据库工厂 - 负责创建和管理数据库提供者
type Factory struct {
	provider Provider
}

// NewFactory 创建新的数据库工厂
func NewFactory(cfg *config.Config) (*Factory, error) {
	log.Println("Initializing database provider...")

	provider, err := NewGormProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database provider: %w", err)
	}

	log.Printf("Database provider '%s' initialized successfully", provider.Name())

	return &Factory{
		provider: provider,
	}, nil
}

// GetProvider 获取数据库提供者
func (f *Factory) GetProvider() Provider {
	return f.provider
}

// MigrationModels 所有参与自动迁移的模型
func MigrationModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.BlackList{},
		&models.Galerie{},
		&models.GalerieUser{},
		&models.GalerieBlackList{},
		&models.Frame{},
		&models.GaleriePicture{},
		&models.Image{},
		&models.Like{},
		&models.Invitation{},
		&models.Report{},
		&models.ReportUser{},
		&models.Notification{},
		&models.NotificationFrameLiked{},
		&models.NotificationFramePosted{},
		&models.NotificationUserSubscribe{},
		&models.NotificationBetaKeyUsed{},
		&models.BetaKey{},
		&models.ProfilePicture{},
	}
}

// AutoMigrate 自动迁移数据库结构
func (f *Factory) AutoMigrate() error {
	if f.provider == nil {
		return fmt.Errorf("database provider not initialized")
	}

	log.Println("Running database auto migration...")
	if err := f.provider.AutoMigrate(MigrationModels()...); err != nil {
		return fmt.Errorf("failed to auto migrate database: %w", err)
	}
	log.Println("Database auto migration completed.")
	return nil
}

// Close 关闭数据库连接
func (f *Factory) Close() error {
	if f.provider != nil {
		return f.provider.Close()
	}
	return nil
}

// Ping 检查数据库连接
func (f *Factory) Ping() error {
	if f.provider == nil {
		return fmt.Errorf("database provider not initialized")
	}
	return f.provider.Ping()
}
