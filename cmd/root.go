package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/julien-sobczak/nt-export/internal/core"
)

var verboseInfo bool
var verboseDebug bool
var verboseTrace bool

var vaultDir string

var rootCmd = &cobra.Command{
	Use:           "nt-export",
	Short:         "Export notes of a Markdown vault",
	Long:          `Export notes of a Markdown vault to Markdown, HTML or plain text with their attachments and embeds.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if vaultDir != "" {
			// Read by core.CurrentConfig()
			if err := os.Setenv("NT_EXPORT_HOME", vaultDir); err != nil {
				return err
			}
		}

		// Enable verbose output. The most verbose level wins when multiple flags are passsed.
		if verboseInfo {
			core.CurrentLogger().SetVerboseLevel(core.VerboseInfo)
		}
		if verboseDebug {
			core.CurrentLogger().SetVerboseLevel(core.VerboseDebug)
		}
		if verboseTrace {
			core.CurrentLogger().SetVerboseLevel(core.VerboseTrace)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseInfo, "verbose", "v", false, "enable verbose info output")
	rootCmd.PersistentFlags().BoolVar(&verboseDebug, "verbose-debug", false, "enable verbose debug output")
	rootCmd.PersistentFlags().BoolVar(&verboseTrace, "verbose-trace", false, "enable verbose trace output")
	rootCmd.PersistentFlags().StringVar(&vaultDir, "vault", "", "vault directory (default is the current directory or $NT_EXPORT_HOME)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
