package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gosimple/slug"
)

// A block reference is a ^id at the end of a line (or alone on a line)
var regexBlockID = regexp.MustCompile(`(?:^|\s)\^([\w-]+)\s*$`)

// A list item starts with a bullet or a number
var regexListItem = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s`)

type File struct {
	// Relative path inside the vault
	RelativePath string
	Content      []byte
	FrontMatter  FrontMatter
	Body         Document
	BodyLine     int
}

func (m File) String() string {
	return fmt.Sprintf("Markdown file %q", m.RelativePath)
}

type Section struct {
	Parent        *Section
	HeadingText   Document
	HeadingLevel  int
	ContentText   Document
	FileLineStart int // 1-based index based on Markdown file
	FileLineEnd   int
	BodyLineStart int // 1-based index based on body (ignored the Front Matter)
	BodyLineEnd   int
}

func (m Section) String() string {
	return fmt.Sprintf("%s %s", strings.Repeat("#", m.HeadingLevel), m.HeadingText)
}

// Block is a paragraph or a list item identified by a ^id marker.
type Block struct {
	ID            string
	ContentText   Document // Without the marker
	BodyLineStart int
	BodyLineEnd   int
}

// ParseFile parses the content of a Markdown file.
func ParseFile(relativePath string, content []byte) *File {
	frontMatter, body := Document(content).SplitFrontMatter()
	bodyLine := 1
	if frontMatter != "" {
		header := string(content)[:len(content)-len(body)]
		bodyLine = strings.Count(header, "\n") + 1
	}
	return &File{
		RelativePath: relativePath,
		Content:      content,
		FrontMatter:  frontMatter,
		Body:         body,
		BodyLine:     bodyLine,
	}
}

func (m *File) GetSections() []*Section {
	var sections []*Section
	var lastSectionAtLevel [10]*Section

	lines := m.Body.Lines()

	// Current line number during the parsing
	var lineNumber int

	// Beware to ignore '#' in code blocks
	insideCodeBlock := false

	for i, line := range lines {
		lineNumber = i + 1 // lines are 1-based
		if strings.HasPrefix(line, "```") {
			insideCodeBlock = !insideCodeBlock
		}
		if insideCodeBlock {
			// Ignore possible Markdown heading in code blocks
			continue
		}

		if ok, headingText, headingLevel := IsHeading(line); ok {
			// Close previous section(s)
			for _, section := range sections {
				if section.HeadingLevel >= headingLevel && section.BodyLineEnd == 0 {
					section.FileLineEnd = m.BodyLine - 1 + lineNumber - 1
					section.BodyLineEnd = lineNumber - 1
					section.ContentText = m.Body.ExtractLines(section.BodyLineStart, lineNumber-1)
				}
			}

			// Start new section
			newSection := &Section{
				HeadingText:   Document(strings.TrimSpace(headingText)),
				HeadingLevel:  headingLevel,
				FileLineStart: m.BodyLine - 1 + lineNumber,
				BodyLineStart: lineNumber,
			}
			lastSectionAtLevel[headingLevel] = newSection
			for level := headingLevel + 1; level < len(lastSectionAtLevel); level++ {
				lastSectionAtLevel[level] = nil
			}

			// Search the closest parent
			for level := headingLevel - 1; level > 0; level-- {
				if lastSectionAtLevel[level] != nil {
					newSection.Parent = lastSectionAtLevel[level]
					break
				}
			}

			sections = append(sections, newSection)
		}
	}

	if len(sections) == 0 {
		return nil
	}

	// Complete unfinished section(s)
	for _, section := range sections {
		if section.BodyLineEnd == 0 {
			section.FileLineEnd = m.BodyLine - 1 + lineNumber
			section.BodyLineEnd = lineNumber
			section.ContentText = m.Body.ExtractLines(section.BodyLineStart, lineNumber)
		}
	}

	// Trim content
	for _, section := range sections {
		// Remove blank lines at the end of each section
		trimmedContentText, _, nbLinesRemovedAtEnd := section.ContentText.TrimBlankLines()
		// No need to update the "Start" index as it corresponds to the heading line number
		section.ContentText = trimmedContentText
		section.FileLineEnd -= nbLinesRemovedAtEnd
		section.BodyLineEnd -= nbLinesRemovedAtEnd
	}

	return sections
}

// FindSection searches for the first section whose heading matches.
// Headings are compared using their slug (ex: "My Heading" = "my-heading").
func (m *File) FindSection(heading string) (*Section, bool) {
	expected := slug.Make(heading)
	if expected == "" {
		return nil, false
	}
	for _, section := range m.GetSections() {
		if slug.Make(string(section.HeadingText)) == expected {
			return section, true
		}
	}
	return nil, false
}

// GetBlocks searches for blocks identified by a ^id marker.
func (m *File) GetBlocks() []*Block {
	var blocks []*Block

	lines := m.Body.Lines()

	insideCodeBlock := false
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			insideCodeBlock = !insideCodeBlock
			continue
		}
		if insideCodeBlock {
			continue
		}

		match := regexBlockID.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		id := match[1]

		start, end := i, i
		if strings.TrimSpace(line) == "^"+id {
			// Marker alone on its line. The block is the previous non-blank lines
			end = i - 1
			for end >= 0 && isBlankLine(lines[end]) {
				end--
			}
			if end < 0 {
				continue
			}
			start = paragraphStart(lines, end)
		} else if !regexListItem.MatchString(line) {
			start = paragraphStart(lines, i)
		}

		content := Document(strings.Join(lines[start:i+1], "\n")).MustTransform(StripBlockID(id))
		blocks = append(blocks, &Block{
			ID:            id,
			ContentText:   content.TrimSpace(),
			BodyLineStart: start + 1,
			BodyLineEnd:   end + 1,
		})
	}

	return blocks
}

// paragraphStart returns the first line of the paragraph ending at the given line.
func paragraphStart(lines []string, end int) int {
	start := end
	for start > 0 {
		previous := lines[start-1]
		if isBlankLine(previous) {
			break
		}
		if ok, _, _ := IsHeading(previous); ok {
			break
		}
		start--
	}
	return start
}

func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}
