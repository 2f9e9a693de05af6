package markdown_test

import (
	"testing"

	"github.com/julien-sobczak/nt-export/pkg/markdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLRenderer(t *testing.T) {
	t.Run("Fragment", func(t *testing.T) {
		html, err := markdown.HTMLRenderer{}.Render("# Title\n\nSome text", "notes/doc.md")
		require.NoError(t, err)
		assert.Contains(t, html, `<h1 id="title">Title</h1>`)
		assert.Contains(t, html, "<p>Some text</p>")
		assert.NotContains(t, html, "<html")
	})

	t.Run("CompletePage", func(t *testing.T) {
		html, err := markdown.HTMLRenderer{CompletePage: true}.Render("Some text", "notes/doc.md")
		require.NoError(t, err)
		assert.Contains(t, html, "<title>doc</title>")
		assert.Contains(t, html, "<p>Some text</p>")
	})
}
