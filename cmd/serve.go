package cmd

import (
	"log"

	"github.com/galeries/galeries-server/api/core"
	"github.com/galeries/galeries-server/config"
	"github.com/galeries/galeries-server/internal/di"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start API server",
	Run: func(cmd *cobra.Command, args []string) {
		RunServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func RunServer() {
	config.InitConfig()
	cfg := config.Get()

	container := di.NewContainer(cfg)
	if err := container.Init(); err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Shutdown()

	if err := container.GetDatabaseFactory().AutoMigrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := core.StartServer(container); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
