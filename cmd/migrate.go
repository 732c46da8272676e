package cmd

import (
	"log"

	"github.com/harane/toolshed/config"
	"github.com/harane/toolshed/database"
	"github.com/spf13/cobra"
)

// migrateCmd 手动执行数据库迁移
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migration and exit",
	Run: func(cmd *cobra.Command, args []string) {
		config.InitConfig()

		factory, err := database.NewFactory(config.Get())
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer factory.Close()

		if err := factory.AutoMigrate(); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		log.Println("Database migration completed")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
