package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/galeries/galeries-server/config"
	"github.com/galeries/galeries-server/database/models"
	"github.com/galeries/galeries-server/internal/di"
	"github.com/spf13/cobra"
)

// cleanCmd 清理对象已丢失的图片元数据。
// 图片外键均为 SET NULL，坏帧由可见性层自愈删除。
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean image records whose storage objects are gone",
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if err := runClean(dryRun); err != nil {
			log.Fatalf("Clean failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().Bool("dry-run", false, "Only show what would be cleaned, don't actually delete")
}

func runClean(dryRun bool) error {
	config.InitConfig()
	cfg := config.Get()

	container := di.NewContainer(cfg)
	if err := container.Init(); err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer container.Shutdown()

	provider := container.GetDatabaseFactory().GetProvider()
	storageProvider := container.GetStorageFactory().GetDefault()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	var images []*models.Image
	if err := provider.WithContext(ctx).Find(&images).Error; err != nil {
		return fmt.Errorf("failed to list images: %w", err)
	}

	orphans := 0
	for _, img := range images {
		exists, err := storageProvider.Exists(ctx, img.FileName)
		if err != nil {
			log.Printf("Skipping %s: %v", img.FileName, err)
			continue
		}
		if exists {
			continue
		}
		orphans++
		if dryRun {
			log.Printf("[dry-run] Would delete image record %s (%s)", img.UUID, img.FileName)
			continue
		}
		if err := provider.WithContext(ctx).Delete(&models.Image{}, img.ID).Error; err != nil {
			log.Printf("Failed to delete image record %s: %v", img.UUID, err)
			continue
		}
		log.Printf("Deleted image record %s (%s)", img.UUID, img.FileName)
	}

	log.Printf("Clean finished: %d orphan image records (checked %d)", orphans, len(images))
	return nil
}
