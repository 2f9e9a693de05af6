package markdown_test

import (
	"strings"
	"testing"

	"github.com/julien-sobczak/nt-export/internal/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform(t *testing.T) {
	md := markdown.Document("---\ntags: [a]\n---\n# Title\n\nSee [[dir/Note|the note]]")

	actual, err := md.Transform(
		markdown.StripFrontMatter(),
		markdown.StripWikilinkBrackets(),
	)
	require.NoError(t, err)
	assert.Equal(t, markdown.Document("# Title\n\nSee the note"), actual)

	failing := func(document markdown.Document) (markdown.Document, error) {
		return document, assert.AnError
	}
	actual, err = md.Transform(markdown.StripFrontMatter(), failing)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, md, actual) // Original document is returned on error
	assert.Panics(t, func() {
		md.MustTransform(failing)
	})
}

func TestStripCodeBlocks(t *testing.T) {
	tests := []struct {
		name     string
		md       markdown.Document // input
		expected markdown.Document // output
	}{
		{
			name:     "No code",
			md:       "# Title\n\nText",
			expected: "# Title\n\nText",
		},
		{
			name:     "Fenced",
			md:       "Before\n```go\n# comment\n```\nAfter",
			expected: "Before\n\n\n\nAfter",
		},
		{
			name:     "Indented",
			md:       "Before\n\n    # comment\n    other\nAfter",
			expected: "Before\n\n\n\nAfter",
		},
		{
			name:     "Nested list",
			md:       "- item\n    - #nested",
			expected: "- item\n    - #nested",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := tt.md.MustTransform(markdown.StripCodeBlocks())
			assert.Equal(t, tt.expected, actual)
			// Line numbers are preserved
			assert.Len(t, actual.Lines(), len(tt.md.Lines()))
		})
	}
}

func TestBlockquote(t *testing.T) {
	tests := []struct {
		name     string
		md       markdown.Document // input
		expected markdown.Document // output
	}{
		{
			name:     "Single line",
			md:       "Text",
			expected: "> Text",
		},
		{
			name:     "Multiple lines",
			md:       "Line 1\n\nLine 2",
			expected: "> Line 1\n> \n> Line 2",
		},
		{
			name:     "Empty heading",
			md:       "# \n\nText",
			expected: "> # Text",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := tt.md.MustTransform(markdown.Blockquote())
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestStripBlockID(t *testing.T) {
	tests := []struct {
		name     string
		md       markdown.Document // input
		expected markdown.Document // output
	}{
		{
			name:     "Inline marker",
			md:       "- An item ^abc",
			expected: "- An item",
		},
		{
			name:     "Standalone marker",
			md:       "A paragraph\non two lines\n\n^abc",
			expected: "A paragraph\non two lines",
		},
		{
			name:     "Other marker",
			md:       "A paragraph ^xyz",
			expected: "A paragraph ^xyz",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := tt.md.MustTransform(markdown.StripBlockID("abc"))
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestStripWikilinkBrackets(t *testing.T) {
	md := markdown.Document("[[a|b]] and [[c]] and ![[d]] and [[c]]")
	actual := md.MustTransform(markdown.StripWikilinkBrackets())
	assert.Equal(t, markdown.Document("b and c and ![[d]] and c"), actual)
}

func TestWikilinksToMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		md       markdown.Document // input
		expected markdown.Document // output
	}{
		{
			name:     "Basic",
			md:       "See [[My Note]].",
			expected: "See [My Note](My%20Note).",
		},
		{
			name:     "Alias and section",
			md:       "See [[folder/My Note#Part|label]]",
			expected: "See [label](folder/My%20Note#Part)",
		},
		{
			name:     "Embeds are ignored",
			md:       "![[image.png]] [[a]]",
			expected: "![[image.png]] [a](a)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := tt.md.MustTransform(markdown.WikilinksToMarkdown())
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestFlattenWikilinks(t *testing.T) {
	md := markdown.Document("[[dir/sub/Note#H|x]], [[Note]], [[ext/Other]] and ![[dir/embed]]")

	actual := md.MustTransform(markdown.FlattenWikilinks(func(link markdown.Wikilink) bool {
		return !strings.HasPrefix(link.Path(), "ext/")
	}))
	assert.Equal(t, markdown.Document("[[Note#H|x]], [[Note]], [[ext/Other]] and ![[dir/embed]]"), actual)
}
