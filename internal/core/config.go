package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	pkgmarkdown "github.com/julien-sobczak/nt-export/pkg/markdown"
	"github.com/julien-sobczak/nt-export/pkg/resync"
	"github.com/pelletier/go-toml/v2"
)

// How many parent directories to traverse before considering a directory as not a vault
const maxDepth = 10

// Name of the directory containing the configuration inside a vault
const ConfigDir = ".nt-export"

// Default .nt-export/config content
const DefaultConfig = `
[export]
output = "output"
attachment = "attachment"
relativeAttachmentPath = true
GFM = true
fileNameEncode = true
inlineBlockEmbeds = true

[text.bullets]
"0" = "●"
"4" = "￮"
"8" = "￭"
"12" = "►"
"16" = "•"
`

var (
	// Lazy-load configuration and ensure a single read
	configOnce      resync.Once
	configSingleton *Config
)

// Note: Fields must be public for toml package to unmarshall
type ConfigFile struct {
	Export ConfigExport `toml:"export"`
	Text   ConfigText   `toml:"text"`
}
type ConfigExport struct {
	Output                     string   `toml:"output"`
	Attachment                 string   `toml:"attachment"`
	CustomAttachPath           string   `toml:"customAttachPath"`
	RelativeAttachmentPath     bool     `toml:"relativeAttachmentPath"`
	DisplayImageAsHTML         bool     `toml:"displayImageAsHtml"`
	GFM                        bool     `toml:"GFM"`
	FileNameEncode             bool     `toml:"fileNameEncode"`
	RemoveOutgoingLinkBrackets bool     `toml:"removeOutgoingLinkBrackets"`
	ConvertWikiLinksToMarkdown bool     `toml:"convertWikiLinksToMarkdown"`
	IncludeFileName            bool     `toml:"includeFileName"`
	CustomFileName             string   `toml:"customFileName"`
	RemoveYAMLHeader           bool     `toml:"removeYamlHeader"`
	InlineBlockEmbeds          bool     `toml:"inlineBlockEmbeds"`
	Recursive                  bool     `toml:"recursive"`
	ExportAllAttachments       bool     `toml:"exportAllAttachments"`
	Overwrite                  bool     `toml:"overwrite"`
	VaultName                  string   `toml:"vaultName"`
	Exclude                    []string `toml:"exclude"`
	Snapshots                  string   `toml:"snapshots"`
}
type ConfigText struct {
	Checked   string            `toml:"checked"`
	Unchecked string            `toml:"unchecked"`
	Bullets   map[string]string `toml:"bullets"` // Keys are indentations in spaces
}

// Settings is the immutable configuration passed to every component of an export.
type Settings struct {
	// Output root path (relative to the vault or absolute)
	Output string
	// Attachment path template
	AttachmentPath string
	// Attachment path template used when attachments are not relative to the output
	CustomAttachPath       string
	RelativeAttachmentPath bool

	DisplayImageAsHTML bool
	GFM                bool
	// Name copied attachments using the MD5 of the link
	FileNameEncode bool

	RemoveOutgoingLinkBrackets bool
	ConvertWikiLinksToMarkdown bool

	// Create a subdirectory named after the exported document
	IncludeFileName bool
	// Name (without extension) of the output file for single document exports
	CustomFileName string

	RemoveYAMLHeader     bool
	InlineBlockEmbeds    bool
	Recursive            bool
	ExportAllAttachments bool
	Overwrite            bool

	VaultName string
	// Doublestar globs of vault paths ignored by folder exports
	Exclude []string
	// Directory of HTML snapshots containing rendered embeds
	Snapshots string

	Text pkgmarkdown.TextOptions
}

// DefaultSettings returns the settings when no configuration file is present.
func DefaultSettings() Settings {
	configFile, err := parseConfigFile(DefaultConfig)
	if err != nil {
		panic(fmt.Sprintf("default configuration is broken: %v", err))
	}
	settings, err := configFile.Settings()
	if err != nil {
		panic(fmt.Sprintf("default configuration is broken: %v", err))
	}
	return settings
}

// Settings freezes the configuration.
func (f ConfigFile) Settings() (Settings, error) {
	bullets := make(map[int]string)
	for key, glyph := range f.Text.Bullets {
		indent, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || indent < 0 {
			return Settings{}, fmt.Errorf("invalid bullet indentation %q in [text.bullets]", key)
		}
		bullets[indent] = glyph
	}
	for _, pattern := range f.Export.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return Settings{}, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	return Settings{
		Output:                     f.Export.Output,
		AttachmentPath:             f.Export.Attachment,
		CustomAttachPath:           f.Export.CustomAttachPath,
		RelativeAttachmentPath:     f.Export.RelativeAttachmentPath,
		DisplayImageAsHTML:         f.Export.DisplayImageAsHTML,
		GFM:                        f.Export.GFM,
		FileNameEncode:             f.Export.FileNameEncode,
		RemoveOutgoingLinkBrackets: f.Export.RemoveOutgoingLinkBrackets,
		ConvertWikiLinksToMarkdown: f.Export.ConvertWikiLinksToMarkdown,
		IncludeFileName:            f.Export.IncludeFileName,
		CustomFileName:             f.Export.CustomFileName,
		RemoveYAMLHeader:           f.Export.RemoveYAMLHeader,
		InlineBlockEmbeds:          f.Export.InlineBlockEmbeds,
		Recursive:                  f.Export.Recursive,
		ExportAllAttachments:       f.Export.ExportAllAttachments,
		Overwrite:                  f.Export.Overwrite,
		VaultName:                  f.Export.VaultName,
		Exclude:                    append([]string(nil), f.Export.Exclude...),
		Snapshots:                  f.Export.Snapshots,
		Text: pkgmarkdown.TextOptions{
			Bullets:   bullets,
			Checked:   f.Text.Checked,
			Unchecked: f.Text.Unchecked,
		},
	}, nil
}

// Excluded tests if a vault path matches one of the exclude patterns.
func (s Settings) Excluded(path string) bool {
	for _, pattern := range s.Exclude {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

// IsOutput returns if a vault file was generated by an export (output folder inside the vault).
func (s Settings) IsOutput(file string) bool {
	output := joinPath(s.Output)
	if filepath.IsAbs(output) || output == "." || output == "" {
		return false
	}
	return file == output || strings.HasPrefix(file, output+"/")
}

/* Main config */

type Config struct {
	// Absolute top directory of the vault
	RootDirectory string

	// .nt-export/config content
	ConfigFile ConfigFile
}

func CurrentConfig() *Config {
	configOnce.Do(func() {
		var err error
		configSingleton, err = ReadConfigFromDirectory(currentHome())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to read current configuration: %v\n", err)
			os.Exit(1)
		}
	})
	return configSingleton
}

// Settings returns the settings with the vault name defaulting to the vault directory name.
func (c *Config) Settings() (Settings, error) {
	settings, err := c.ConfigFile.Settings()
	if err != nil {
		return Settings{}, err
	}
	if settings.VaultName == "" {
		settings.VaultName = filepath.Base(c.RootDirectory)
	}
	return settings, nil
}

func currentHome() string {
	// Supports overriding the root directory mainly for testing purposes.
	// Ex:
	//
	//   $ env NT_EXPORT_HOME=./examples go run main.go export notes/
	if path, ok := os.LookupEnv("NT_EXPORT_HOME"); ok {
		abspath, err := filepath.Abs(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to evaluate $NT_EXPORT_HOME")
			os.Exit(1)
		}
		if _, err := os.Stat(abspath); os.IsNotExist(err) {
			fmt.Fprintln(os.Stderr, "Path in $NT_EXPORT_HOME undefined")
			os.Exit(1)
		}
		return abspath
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to determine current directory: %v\n", err)
		os.Exit(1)
	}
	return cwd
}

// ReadConfigFromDirectory loads the configuration by searching for a .nt-export directory in the given directory
// or any parent directories. When no directory is found, the given directory is the vault and defaults apply.
func ReadConfigFromDirectory(path string) (*Config, error) {
	rootPath, found, err := searchConfigDir(path)
	if err != nil {
		return nil, err
	}
	if !found {
		configFile, err := parseConfigFile(DefaultConfig)
		if err != nil {
			return nil, fmt.Errorf("default configuration is broken: %w", err)
		}
		return &Config{
			RootDirectory: path,
			ConfigFile:    *configFile,
		}, nil
	}

	// Check for .nt-export/config
	configPath := filepath.Join(rootPath, ConfigDir, "config")
	content, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		content = []byte(DefaultConfig)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read %s/config file: %w", ConfigDir, err)
	}
	configFile, err := parseConfigFile(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s/config file: %w", ConfigDir, err)
	}

	return &Config{
		RootDirectory: rootPath,
		ConfigFile:    *configFile,
	}, nil
}

func searchConfigDir(path string) (string, bool, error) {
	rootPath := path
	i := 0 // Safeguard to not go up too far
	for {
		i++
		if i > maxDepth {
			return "", false, nil
		}
		_, err := os.Stat(filepath.Join(rootPath, ConfigDir))
		if os.IsNotExist(err) {
			parent := filepath.Dir(rootPath)
			if parent == rootPath {
				// Root directory detected
				return "", false, nil
			}
			rootPath = parent
		} else if err != nil {
			return "", false, fmt.Errorf("error while searching for configuration directory: %w", err)
		} else {
			return rootPath, true, nil
		}
	}
}

// parseConfigFile decodes a configuration file on top of the default configuration.
// Scalars of the file override the defaults. Bullets are merged key by key.
func parseConfigFile(content string) (*ConfigFile, error) {
	var result ConfigFile
	if err := decodeConfig(DefaultConfig, &result); err != nil {
		return nil, err
	}

	// go-toml cannot decode into a map already filled
	defaultBullets := result.Text.Bullets
	result.Text.Bullets = nil
	if err := decodeConfig(content, &result); err != nil {
		return nil, err
	}

	if result.Text.Bullets == nil {
		result.Text.Bullets = make(map[string]string)
	}
	for key, glyph := range defaultBullets {
		if _, ok := result.Text.Bullets[key]; !ok {
			result.Text.Bullets[key] = glyph
		}
	}
	return &result, nil
}

func decodeConfig(content string, configFile *ConfigFile) error {
	d := toml.NewDecoder(strings.NewReader(content))
	d.DisallowUnknownFields()
	return d.Decode(configFile)
}

// InitConfigFromDirectory creates the .nt-export configuration directory with the default file.
func InitConfigFromDirectory(path string) (*Config, error) {
	if _, found, err := searchConfigDir(path); err != nil {
		return nil, err
	} else if found {
		// Do not override current configuration
		return nil, fmt.Errorf("current configuration detected: %w", os.ErrExist)
	}

	configDir := filepath.Join(path, ConfigDir)
	if err := os.Mkdir(configDir, 0755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(configDir, "config"), []byte(DefaultConfig), 0644); err != nil {
		return nil, err
	}

	return ReadConfigFromDirectory(path)
}
