package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Runs one scrape of the board, notifying and persisting any new acts.",
	Run: func(cmd *cobra.Command, args []string) {
		config := mustConfig()
		service, cleanup := mustService(config)
		defer cleanup()

		service.Run(cmd.Context())
	},
}
