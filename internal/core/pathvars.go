package core

import (
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/julien-sobczak/nt-export/pkg/clock"
	"github.com/julien-sobczak/nt-export/pkg/text"
)

// ResolvePathVariables expands the variables present in a path template using the current time.
func ResolvePathVariables(template, fileName, vaultName string) string {
	return ResolvePathVariablesAt(template, fileName, vaultName, clock.Now())
}

// ResolvePathVariablesAt expands the variables present in a path template:
//
//	{{fileName}}   document name without extension
//	{{date}}       YYYY-MM-DD
//	{{time}}       HH-mm-ss
//	{{datetime}}   YYYY-MM-DD-HH-mm-ss
//	{{timestamp}}  epoch in milliseconds
//	{{year}} {{month}} {{day}} {{hour}} {{minute}} {{second}}
//	{{vaultName}}
//
// Unknown variables are kept.
func ResolvePathVariablesAt(template, fileName, vaultName string, at time.Time) string {
	replacer := strings.NewReplacer(
		"{{fileName}}", stem(fileName),
		"{{date}}", at.Format("2006-01-02"),
		"{{time}}", at.Format("15-04-05"),
		"{{datetime}}", at.Format("2006-01-02-15-04-05"),
		"{{timestamp}}", strconv.FormatInt(at.UnixMilli(), 10),
		"{{year}}", at.Format("2006"),
		"{{month}}", at.Format("01"),
		"{{day}}", at.Format("02"),
		"{{hour}}", at.Format("15"),
		"{{minute}}", at.Format("04"),
		"{{second}}", at.Format("05"),
		"{{vaultName}}", vaultName,
	)
	return replacer.Replace(template)
}

// stem returns the file name without directories and extension.
func stem(fileName string) string {
	return text.TrimExtension(path.Base(filepath.ToSlash(fileName)))
}
