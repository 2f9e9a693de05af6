package markdown

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Regex to match a leading YAML header
var regexYAMLHeader = regexp.MustCompile(`^---\n[\s\S]*?\n---\n?`)

// Regex to match inline tags (must contain at least one non-digit character)
var regexInlineTag = regexp.MustCompile(`(?:^|\s)#([\p{L}\p{N}_/-]*[\p{L}_/-][\p{L}\p{N}_/-]*)`)

// FrontMatter represents the Front Matter
type FrontMatter string

func (f FrontMatter) AsMap() (map[string]any, error) {
	var attributes = make(map[string]any)
	if err := yaml.Unmarshal([]byte(f), attributes); err != nil {
		return nil, err
	}
	return attributes, nil
}

// Tags returns the tags declared using the attributes "tags" or "tag".
// Values can be a YAML list or a comma-separated string. The leading # is removed.
func (f FrontMatter) Tags() ([]string, error) {
	attributes, err := f.AsMap()
	if err != nil {
		return nil, err
	}

	var results []string
	for _, key := range []string{"tags", "tag"} {
		switch value := attributes[key].(type) {
		case []any:
			for _, item := range value {
				if s, ok := item.(string); ok {
					results = appendTag(results, s)
				}
			}
		case string:
			for _, item := range strings.Split(value, ",") {
				results = appendTag(results, item)
			}
		}
	}
	return results, nil
}

func appendTag(tags []string, tag string) []string {
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
	if tag == "" {
		return tags
	}
	return append(tags, tag)
}

// SplitFrontMatter separates the leading YAML header from the rest of the document.
func (m Document) SplitFrontMatter() (FrontMatter, Document) {
	text := string(m)
	loc := regexYAMLHeader.FindStringIndex(text)
	if loc == nil {
		return "", m
	}
	header := strings.TrimPrefix(text[:loc[1]], "---\n")
	header = strings.TrimSuffix(strings.TrimSuffix(header, "\n"), "---")
	return FrontMatter(header), Document(text[loc[1]:])
}

// InlineTags searches for #tags outside code blocks.
func (m Document) InlineTags() []string {
	var results []string
	text := string(m.MustTransform(StripCodeBlocks()))
	for _, match := range regexInlineTag.FindAllStringSubmatch(text, -1) {
		results = append(results, match[1])
	}
	return results
}
