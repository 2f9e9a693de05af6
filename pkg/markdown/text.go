package markdown

import (
	"strings"

	"golang.org/x/exp/slices"
)

// How many spaces represent one indentation level in lists
const indentList = 4

// DefaultBullets are used for levels without a configured glyph.
var DefaultBullets = []string{"●", "￮", "￭", "►", "•"}

// fallbackBullet is used beyond the last default level when no glyph is configured.
const fallbackBullet = "•"

// TextOptions configures the plain-text encoding.
type TextOptions struct {
	// Glyphs keyed by indentation in spaces (0, 4, 8, 12, 16)
	Bullets map[int]string
	// Replacement for "- [x]"
	Checked string
	// Replacement for "- [ ]"
	Unchecked string
}

// ToText converts a Markdown document to plain text by substituting
// list markers and checkboxes with glyphs. Other lines are left unchanged.
func ToText(md string, options TextOptions) string {
	lines := strings.Split(md, "\n")
	for i, line := range lines {
		line = strings.ReplaceAll(line, "- [ ]", checkbox(options.Unchecked))
		line = strings.ReplaceAll(line, "- [x]", checkbox(options.Checked))
		lines[i] = encodeBullet(line, options.Bullets)
	}
	return strings.Join(lines, "\n")
}

// checkbox returns the replacement for a checkbox marker.
// An unconfigured glyph collapses the checkbox into a plain list item.
func checkbox(glyph string) string {
	if glyph == "" {
		return "-"
	}
	return glyph
}

func encodeBullet(line string, bullets map[int]string) string {
	content := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(content, "- ") {
		return line
	}
	indent := line[:len(line)-len(content)]
	level := IndentationLevel(indent)
	return indent + BulletGlyph(level, bullets) + " " + strings.TrimPrefix(content, "- ")
}

// IndentationLevel returns the list level of a leading whitespace (tabs count as 4 spaces).
func IndentationLevel(indent string) int {
	spaces := 0
	for _, c := range indent {
		if c == '\t' {
			spaces += indentList
		} else {
			spaces++
		}
	}
	return spaces / indentList
}

// BulletGlyph returns the glyph to use for the given list level.
func BulletGlyph(level int, bullets map[int]string) string {
	if glyph, ok := bullets[level*indentList]; ok && glyph != "" {
		return glyph
	}
	if level < len(DefaultBullets) {
		return DefaultBullets[level]
	}

	// Reuse the deepest configured glyph
	var keys []int
	for key := range bullets {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for i := len(keys) - 1; i >= 0; i-- {
		if glyph := bullets[keys[i]]; glyph != "" {
			return glyph
		}
	}
	return fallbackBullet
}
