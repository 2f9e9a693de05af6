package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/julien-sobczak/nt-export/internal/core"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Init export configuration",
	Long:  `Write the default configuration in the directory .nt-export of the current vault.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := vaultDir
		if dir == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("unable to read current working directory: %w", err)
			}
			dir = cwd
		}
		config, err := core.InitConfigFromDirectory(dir)
		if err != nil {
			return fmt.Errorf("error while initializing configuration: %w", err)
		}
		fmt.Printf("Initialized configuration in %s\n", config.RootDirectory)
		return nil
	},
}
