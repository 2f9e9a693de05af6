package markdown

import (
	"regexp"
	"strings"

	"github.com/julien-sobczak/nt-export/pkg/text"
)

// Transformer applies changes on a Markdown document
type Transformer func(document Document) (Document, error)

// Transform applies transformers successively to create a new Markdown document
func (m Document) Transform(transformers ...Transformer) (Document, error) {
	result := m
	for _, transformer := range transformers {
		resultTransformed, err := transformer(result)
		if err != nil {
			return m, err
		}
		result = resultTransformed
	}
	return result, nil
}

// MustTransform is similar to Transform but does not expect an error
func (m Document) MustTransform(transformers ...Transformer) Document {
	result, err := m.Transform(transformers...)
	if err != nil {
		panic(err)
	}
	return result
}

/*
 * Transformers
 */

// StripCodeBlocks removes code blocks from a Markdown document.
// Lines are blanked (not removed) to preserve line numbers.
// Indented lines are code only after a blank line (nested list items are kept).
func StripCodeBlocks() Transformer {
	return func(document Document) (Document, error) {
		var newLines []string

		insideCodeBlock := false
		insideIndentedBlock := false
		previousBlank := true
		for _, line := range document.Lines() {
			if strings.HasPrefix(strings.TrimSpace(line), "```") { // Syntax 1
				insideCodeBlock = !insideCodeBlock
				newLines = append(newLines, "")
				continue
			}
			if insideCodeBlock {
				newLines = append(newLines, "")
				continue
			}
			indented := strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")
			if indented && (previousBlank || insideIndentedBlock) { // Syntax 2
				insideIndentedBlock = true
				newLines = append(newLines, "")
				continue
			}
			blank := text.IsBlank(line)
			if !blank {
				insideIndentedBlock = false
			}
			previousBlank = blank

			newLines = append(newLines, line)
		}

		return Document(strings.Join(newLines, "\n")), nil
	}
}

// StripFrontMatter removes the leading YAML header.
func StripFrontMatter() Transformer {
	return func(document Document) (Document, error) {
		_, body := document.SplitFrontMatter()
		return body, nil
	}
}

// Blockquote prefixes every line with "> ".
// A heading followed by a blank line is collapsed to avoid a dangling quoted blank line.
func Blockquote() Transformer {
	return func(document Document) (Document, error) {
		md := strings.ReplaceAll(string(document), "# \n\n", "# ")
		return Document("> " + strings.ReplaceAll(md, "\n", "\n> ")), nil
	}
}

// StripBlockID removes the trailing ^id marker of a block.
// A line containing only the marker is removed.
func StripBlockID(id string) Transformer {
	marker := regexp.MustCompile(`\s*\^` + regexp.QuoteMeta(id) + `\s*$`)
	return func(document Document) (Document, error) {
		lines := document.Lines()
		for i := len(lines) - 1; i >= 0; i-- {
			if !marker.MatchString(lines[i]) {
				continue
			}
			if strings.TrimSpace(lines[i]) == "^"+id {
				lines = lines[:i]
			} else {
				lines[i] = marker.ReplaceAllString(lines[i], "")
			}
			break
		}
		return Document(strings.TrimRight(strings.Join(lines, "\n"), "\n")), nil
	}
}

// StripWikilinkBrackets replaces every [[link]] (not embedded) by its label.
func StripWikilinkBrackets() Transformer {
	return func(document Document) (Document, error) {
		var replacements []Replacement
		for _, link := range document.OutgoingLinks() {
			replacements = append(replacements, link.Replace(link.Wikilink().Label()))
		}
		return document.Splice(replacements), nil
	}
}

// WikilinksToMarkdown replaces every [[link]] (not embedded) by [label](percent-encoded link).
func WikilinksToMarkdown() Transformer {
	return func(document Document) (Document, error) {
		var replacements []Replacement
		for _, link := range document.OutgoingLinks() {
			wikilink := link.Wikilink()
			replacements = append(replacements, link.Replace("["+wikilink.Label()+"]("+wikilink.URL()+")"))
		}
		return document.Splice(replacements), nil
	}
}

// FlattenWikilinks removes directories from the targets of [[link]] (not embedded)
// when the predicate accepts the link.
func FlattenWikilinks(accept func(link Wikilink) bool) Transformer {
	return func(document Document) (Document, error) {
		var replacements []Replacement
		for _, link := range document.OutgoingLinks() {
			wikilink := link.Wikilink()
			if !accept(wikilink) {
				continue
			}
			flattened := wikilink.Base()
			if flattened.Link == wikilink.Link {
				continue
			}
			replacements = append(replacements, link.Replace(flattened.String()))
		}
		return document.Splice(replacements), nil
	}
}
