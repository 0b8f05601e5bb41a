package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/u2giants/popdam2/pkg/configs"
	"github.com/u2giants/popdam2/pkg/internal/model"
	"github.com/u2giants/popdam2/pkg/internal/storage/db"
)

var (
	dbCmd = &cobra.Command{
		Use:   "db",
		Short: "Database related commands",
	}

	dbListCmd = &cobra.Command{
		Use:   "ls",
		Short: "list all registered database types",
		Run: func(cmd *cobra.Command, args []string) {

			fmt.Fprintln(cmd.OutOrStdout(), "Registered database types:")
			for _, dbType := range db.GetRegisteredDBTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), " - "+dbType)
			}
		},
	}

	dbMigrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "run schema auto-migration against the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := configs.InitConfig(configPath); err != nil {
				return err
			}

			client, err := db.New(cmd.Context(), &configs.GetConfig().DB)
			if err != nil {
				return err
			}

			return client.GetDB().AutoMigrate(
				&model.Asset{}, &model.AssetTag{}, &model.CharacterRef{}, &model.PropertyRef{},
				&model.Property{}, &model.Character{},
				&model.Invitation{}, &model.AgentKey{}, &model.Agent{}, &model.ScanJob{},
				&model.AIConfig{}, &model.StorageConfig{},
			)
		},
	}
)

// registerDBCommands 注册数据库相关命令.
func registerDBCommands() {
	rootCmd.AddCommand(dbCmd)

	dbCmd.AddCommand(dbListCmd)
	dbCmd.AddCommand(dbMigrateCmd)
}
