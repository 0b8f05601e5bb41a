package cmd

import (
	"github.com/spf13/cobra"

	"github.com/u2giants/popdam2/pkg/app"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "start the HTTP API server",
	Aliases: []string{"server", "run"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.NewApp(configPath)
		defer func() { _ = a.Stop() }()

		return a.Run()
	},
}

// registerServeCommands 注册服务相关命令.
func registerServeCommands() {
	rootCmd.AddCommand(serveCmd)
}
