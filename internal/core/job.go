package core

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Format is an output encoding.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatText     Format = "text"
)

// ParseFormat validates a format name (ex: from the command line).
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "txt", "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("unsupported format %q", name)
}

// Extension returns the extension of output files.
func (f Format) Extension() string {
	switch f {
	case FormatHTML:
		return ".html"
	case FormatText:
		return ".txt"
	}
	return ".md"
}

// ExportJob maps a document to its output location.
type ExportJob struct {
	// Vault path of the exported document
	Source string
	Format Format
	// Output root of the job (output path with the optional subdirectory per document)
	Root string
	// Relative output subpath preserving the folder structure (empty at the root)
	SubPath string
	// Output file name without extension (default to the document name)
	FileName string
}

func (j ExportJob) String() string {
	return fmt.Sprintf("export of %q to %q", j.Source, j.OutputPath())
}

// DocumentDir returns the folder receiving the exported document.
func (j ExportJob) DocumentDir() string {
	return joinPath(j.Root, j.SubPath)
}

// OutputPath returns the path of the exported document.
func (j ExportJob) OutputPath() string {
	name := j.FileName
	if name == "" {
		name = stem(j.Source)
	}
	return joinPath(j.DocumentDir(), name+j.Format.Extension())
}

// joinPath joins virtual paths, or OS paths when the first element is absolute.
func joinPath(elem ...string) string {
	if len(elem) > 0 && filepath.IsAbs(elem[0]) {
		return filepath.Join(elem...)
	}
	return CleanPath(path.Join(elem...))
}

// clickSubRoute returns the "../" prefix to go back from the subpath to the output root.
func clickSubRoute(subPath string) string {
	subPath = strings.Trim(filepath.ToSlash(subPath), "/")
	if subPath == "" || subPath == "." {
		return ""
	}
	return strings.Repeat("../", len(strings.Split(subPath, "/")))
}
