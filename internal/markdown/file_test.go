package markdown_test

import (
	"testing"

	"github.com/julien-sobczak/nt-export/internal/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const basicFile = `---
title: Title
---
# Title

## Subtitle

### Section A

Text from section A

#### Section A.1

Text from section A1

` + "```" + `
# Not a heading
` + "```" + `

### Section B

Text from section B
`

func TestParseFile(t *testing.T) {
	md := markdown.ParseFile("notes/basic.md", []byte(basicFile))

	assert.Equal(t, "notes/basic.md", md.RelativePath)
	assert.Equal(t, markdown.FrontMatter("title: Title\n"), md.FrontMatter)
	assert.Equal(t, 4, md.BodyLine)
	assert.Equal(t, `Markdown file "notes/basic.md"`, md.String())

	// Without front matter
	md = markdown.ParseFile("basic.md", []byte("# Title\n"))
	assert.Empty(t, md.FrontMatter)
	assert.Equal(t, 1, md.BodyLine)
	assert.Equal(t, markdown.Document("# Title\n"), md.Body)
}

func TestGetSections(t *testing.T) {
	md := markdown.ParseFile("basic.md", []byte(basicFile))

	sections := md.GetSections()
	require.Len(t, sections, 5)

	sectionTitle := sections[0]
	assert.Nil(t, sectionTitle.Parent)
	assert.Equal(t, markdown.Document("Title"), sectionTitle.HeadingText)
	assert.Equal(t, 1, sectionTitle.HeadingLevel)
	assert.Equal(t, 1, sectionTitle.BodyLineStart)
	assert.Equal(t, 4, sectionTitle.FileLineStart)
	assert.Equal(t, 19, sectionTitle.BodyLineEnd)
	assert.Equal(t, 22, sectionTitle.FileLineEnd)
	assert.Equal(t, "# Title", sectionTitle.String())

	sectionSubtitle := sections[1]
	assert.Equal(t, sectionTitle, sectionSubtitle.Parent)

	sectionA := sections[2]
	assert.Equal(t, sectionSubtitle, sectionA.Parent)
	assert.Equal(t, markdown.Document("### Section A\n\nText from section A\n\n#### Section A.1\n\nText from section A1\n\n```\n# Not a heading\n```"), sectionA.ContentText)
	assert.Equal(t, 5, sectionA.BodyLineStart)
	assert.Equal(t, 15, sectionA.BodyLineEnd)

	sectionA1 := sections[3]
	assert.Equal(t, sectionA, sectionA1.Parent)
	assert.Equal(t, markdown.Document("#### Section A.1\n\nText from section A1\n\n```\n# Not a heading\n```"), sectionA1.ContentText)

	sectionB := sections[4]
	assert.Equal(t, sectionSubtitle, sectionB.Parent)
	assert.Equal(t, markdown.Document("### Section B\n\nText from section B"), sectionB.ContentText)


	// No headings
	assert.Empty(t, markdown.ParseFile("empty.md", []byte("Just text")).GetSections())
}

func TestFindSection(t *testing.T) {
	md := markdown.ParseFile("basic.md", []byte(basicFile))

	section, ok := md.FindSection("Section B")
	require.True(t, ok)
	assert.Equal(t, markdown.Document("### Section B\n\nText from section B"), section.ContentText)

	// Headings are compared using slugs
	section, ok = md.FindSection("section a.1")
	require.True(t, ok)
	assert.Equal(t, markdown.Document("Section A.1"), section.HeadingText)

	_, ok = md.FindSection("Not a heading")
	assert.False(t, ok)
	_, ok = md.FindSection("")
	assert.False(t, ok)
}

func TestGetBlocks(t *testing.T) {
	md := markdown.ParseFile("blocks.md", []byte(`# Blocks

A first paragraph
on two lines ^para

- item 1
- item 2 ^item
- item 3

| A | B |
| - | - |

^table

`+"```"+`
code ^ignored
`+"```"+`
`))

	blocks := md.GetBlocks()
	require.Len(t, blocks, 3)

	assert.Equal(t, "para", blocks[0].ID)
	assert.Equal(t, markdown.Document("A first paragraph\non two lines"), blocks[0].ContentText)
	assert.Equal(t, 3, blocks[0].BodyLineStart)
	assert.Equal(t, 4, blocks[0].BodyLineEnd)

	assert.Equal(t, "item", blocks[1].ID)
	assert.Equal(t, markdown.Document("- item 2"), blocks[1].ContentText)
	assert.Equal(t, 7, blocks[1].BodyLineStart)
	assert.Equal(t, 7, blocks[1].BodyLineEnd)

	assert.Equal(t, "table", blocks[2].ID)
	assert.Equal(t, markdown.Document("| A | B |\n| - | - |"), blocks[2].ContentText)
	assert.Equal(t, 10, blocks[2].BodyLineStart)
	assert.Equal(t, 11, blocks[2].BodyLineEnd)
}
