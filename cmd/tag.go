package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/julien-sobczak/nt-export/internal/core"
)

func init() {
	rootCmd.AddCommand(tagCmd)
}

var tagCmd = &cobra.Command{
	Use:   "tag <tag>",
	Short: "List notes having a tag",
	Long:  `List notes whose tags match the given tag. Nested tags match their parent tag (#project matches #project/alpha).`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config := core.CurrentConfig()
		settings, err := config.Settings()
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		index, err := core.NewVaultIndex(core.NewVault(config.RootDirectory), settings)
		if err != nil {
			return err
		}
		for _, document := range core.FindByTag(index, args[0]) {
			fmt.Println(document)
		}
		return nil
	},
}
