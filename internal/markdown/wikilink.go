package markdown

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/julien-sobczak/nt-export/pkg/text"
)

// Wikilink is an internal link.
// See https://en.wikipedia.org/wiki/Help:Link
type Wikilink struct {
	// Target with the optional fragment (ex: "path/to/note#Section")
	Link string
	// Optional alias (ex: [[link|A text]])
	Text string
}

// ParseWikilink parses the inner text of [[...]] or ![[...]].
func ParseWikilink(inner string) Wikilink {
	link, alias, _ := strings.Cut(inner, "|")
	return Wikilink{
		Link: strings.TrimSpace(link),
		Text: strings.TrimSpace(alias),
	}
}

// Anchored indicates if a link points to a section in the current file. (ex: [[#A section below]])
func (w Wikilink) Anchored() bool {
	return strings.HasPrefix(w.Link, "#")
}

// Path returns the link without the optional fragment.
func (w Wikilink) Path() string {
	p, _, _ := strings.Cut(w.Link, "#")
	return strings.TrimSpace(p)
}

// Section returns the fragment part of the link.
func (w Wikilink) Section() string {
	_, section, _ := strings.Cut(w.Link, "#")
	return section
}

// BlockID returns the block identifier when the link targets a block (ex: [[note#^abc]]).
func (w Wikilink) BlockID() string {
	section := w.Section()
	if !strings.HasPrefix(section, "^") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(section, "^"))
}

// Heading returns the targeted heading when the link targets a section (ex: [[note#Title]]).
// Nested headings (ex: [[note#Title#Subtitle]]) return the last one.
func (w Wikilink) Heading() string {
	section := w.Section()
	if section == "" || strings.HasPrefix(section, "^") {
		return ""
	}
	parts := strings.Split(section, "#")
	return strings.TrimSpace(parts[len(parts)-1])
}

// Piped indicates if a text is present to describe the link. (ex: [[link|A text]])
func (w Wikilink) Piped() bool {
	return w.Text != ""
}

// Label returns the text to display.
func (w Wikilink) Label() string {
	if w.Piped() {
		return w.Text
	}
	return w.Link
}

// ContainsExtension tests if the extension is specified in the link.
func (w Wikilink) ContainsExtension() bool {
	return text.TrimExtension(w.Path()) != w.Path()
}

// Base returns the same link without the directories of the target.
func (w Wikilink) Base() Wikilink {
	p := w.Path()
	if p == "" {
		return w
	}
	result := Wikilink{Link: path.Base(p), Text: w.Text}
	if section := w.Section(); section != "" {
		result.Link += "#" + section
	}
	return result
}

// URL returns the percent-encoded link to use in a Markdown link.
func (w Wikilink) URL() string {
	result := EscapePath(w.Path())
	if section := w.Section(); section != "" {
		result += "#" + EscapePath(section)
	}
	return result
}

func (w Wikilink) String() string {
	if w.Piped() {
		return fmt.Sprintf("[[%s|%s]]", w.Link, w.Text)
	}
	return fmt.Sprintf("[[%s]]", w.Link)
}

// EscapePath percent-encodes a path but keeps the separators.
func EscapePath(p string) string {
	u := url.URL{Path: p}
	return u.EscapedPath()
}
