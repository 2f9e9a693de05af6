package markdown

import (
	"strings"

	"github.com/julien-sobczak/nt-export/pkg/text"
)

// Document represents a Markdown document (can be a whole file, or just a snippet)
type Document string

// Lines returns the lines present in the Markdown document
func (m Document) Lines() []string {
	return strings.Split(string(m), "\n")
}

func (m Document) IsBlank() bool {
	return text.IsBlank(string(m))
}

func (m Document) String() string {
	return string(m)
}

// ExtractLines extracts a range of lines (1-based, inclusive, -1 for the end of the document).
func (m Document) ExtractLines(start, end int) Document {
	return Document(text.ExtractLines(string(m), start, end))
}

// TrimSpace removes spaces at the start and end of a markdown document.
func (m Document) TrimSpace() Document {
	return Document(strings.TrimSpace(string(m)))
}

/*
 * Helpers
 */

// IsHeading returns if a given line is a Markdown heading and its level.
func IsHeading(line string) (bool, string, int) {
	if !strings.HasPrefix(line, "#") {
		return false, "", 0
	}
	if strings.HasPrefix(line, "###### ") {
		return true, strings.TrimPrefix(line, "###### "), 6
	} else if strings.HasPrefix(line, "##### ") {
		return true, strings.TrimPrefix(line, "##### "), 5
	} else if strings.HasPrefix(line, "#### ") {
		return true, strings.TrimPrefix(line, "#### "), 4
	} else if strings.HasPrefix(line, "### ") {
		return true, strings.TrimPrefix(line, "### "), 3
	} else if strings.HasPrefix(line, "## ") {
		return true, strings.TrimPrefix(line, "## "), 2
	} else if strings.HasPrefix(line, "# ") {
		return true, strings.TrimPrefix(line, "# "), 1
	}

	return false, "", 0
}

// TrimBlankLines removes blank lines at the start and at the end of a document.
// The number of removed lines at the start and at the end are returned.
func (m Document) TrimBlankLines() (Document, int, int) {
	lines := m.Lines()
	start := 0
	for start < len(lines) && text.IsBlank(lines[start]) {
		start++
	}
	end := len(lines)
	for end > start && text.IsBlank(lines[end-1]) {
		end--
	}
	return Document(strings.Join(lines[start:end], "\n")), start, len(lines) - end
}
