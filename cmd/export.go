package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/julien-sobczak/nt-export/internal/core"
	"github.com/julien-sobczak/nt-export/internal/embeds"
	"github.com/julien-sobczak/nt-export/pkg/console"
)

var exportFormat string
var exportTag string
var exportOutput string
var exportRecursive bool
var exportOverwrite bool
var exportOpen bool

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "markdown", "output format (markdown, html, text)")
	exportCmd.Flags().StringVarP(&exportTag, "tag", "t", "", "export all notes having this tag")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output directory (default to the configuration)")
	exportCmd.Flags().BoolVarP(&exportRecursive, "recursive", "r", false, "also export linked notes")
	exportCmd.Flags().BoolVar(&exportOverwrite, "overwrite", false, "replace existing exported files")
	exportCmd.Flags().BoolVar(&exportOpen, "open", false, "open the exported file in a browser")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [path...]",
	Short: "Export notes",
	Long:  `Export notes, folders of notes, or notes having a tag.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if exportTag == "" && len(args) == 0 {
			return errors.New("missing path or --tag")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := core.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		config := core.CurrentConfig()
		settings, err := config.Settings()
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		if cmd.Flags().Changed("output") {
			settings.Output = exportOutput
		}
		if cmd.Flags().Changed("recursive") {
			settings.Recursive = exportRecursive
		}
		if cmd.Flags().Changed("overwrite") {
			settings.Overwrite = exportOverwrite
		}

		vault := core.NewVault(config.RootDirectory)
		index, err := core.NewVaultIndex(vault, settings)
		if err != nil {
			return err
		}

		var progress *console.ProgressLog
		options := []core.ExporterOption{
			core.WithProgress(func(done, total int, path string) {
				if progress == nil {
					progress = console.NewProgressLog(total, console.ToWriter(os.Stderr), console.ShowPercent())
				}
				progress.Log(done, path)
			}),
		}
		if settings.Snapshots != "" {
			dir := settings.Snapshots
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(config.RootDirectory, dir)
			}
			options = append(options, core.WithEmbedSource(embeds.NewSnapshotSource(dir)))
		}
		exporter := core.NewExporter(vault, index, settings, options...)

		result := &core.BatchResult{}
		if exportTag != "" {
			batch, err := exporter.ExportTag(exportTag, format)
			if err != nil {
				return err
			}
			merge(result, batch)
		}
		for _, arg := range args {
			path, err := vaultPath(config.RootDirectory, arg)
			if err != nil {
				return err
			}
			if vault.IsDir(path) {
				batch, err := exporter.ExportFolder(path, format)
				if err != nil {
					return err
				}
				merge(result, batch)
				continue
			}
			batch, err := exporter.ExportFile(path, format)
			if err != nil {
				merge(result, &core.BatchResult{Failed: 1, Errors: []core.JobError{{Path: path, Err: err}}})
				continue
			}
			merge(result, batch)
		}
		if progress != nil {
			progress.Clear("")
		}

		for _, jobErr := range result.Errors {
			fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("✗"), jobErr)
		}
		summary := color.GreenString("%d exported", result.Success)
		if result.Failed > 0 {
			summary += ", " + color.RedString("%d failed", result.Failed)
		}
		fmt.Println(summary)

		if exportOpen {
			for _, output := range result.Outputs {
				if err := browser.OpenFile(vault.OsPath(output)); err != nil {
					core.CurrentLogger().Warnf("Unable to open %q: %v", output, err)
				}
				// Only the requested document, not the ones pulled by recursive exports
				break
			}
		}

		if result.Failed > 0 {
			return fmt.Errorf("%d notes failed to export", result.Failed)
		}
		return nil
	},
}

func merge(dest *core.BatchResult, src *core.BatchResult) {
	dest.Success += src.Success
	dest.Failed += src.Failed
	dest.Errors = append(dest.Errors, src.Errors...)
	dest.Outputs = append(dest.Outputs, src.Outputs...)
}

// vaultPath converts a command-line path to a path relative to the vault root.
func vaultPath(root, arg string) (string, error) {
	abspath, err := filepath.Abs(arg)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abspath); os.IsNotExist(err) {
		// Support paths relative to the vault when running outside
		abspath = filepath.Join(root, arg)
	}
	relpath, err := filepath.Rel(root, abspath)
	if err != nil || relpath == ".." || strings.HasPrefix(relpath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q is outside the vault %q", arg, root)
	}
	return filepath.ToSlash(relpath), nil
}
