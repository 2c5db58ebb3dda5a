package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath *string

var rootCmd = &cobra.Command{
	Use:   "albowatch",
	Short: "albowatch monitors a municipal notice board and announces newly published acts.",
}

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "config.json5", "The configuration file to load.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
