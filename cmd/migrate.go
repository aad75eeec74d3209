package cmd

import (
	"log"

	"github.com/galeries/galeries-server/config"
	"github.com/galeries/galeries-server/database"
	"github.com/spf13/cobra"
)

// migrateCmd 执行数据库结构迁移后退出
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migration",
	Run: func(cmd *cobra.Command, args []string) {
		config.InitConfig()
		cfg := config.Get()

		factory, err := database.NewFactory(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer factory.Close()

		if err := factory.AutoMigrate(); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migration completed")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
