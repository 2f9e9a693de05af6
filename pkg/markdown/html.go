package markdown

import (
	"path/filepath"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/julien-sobczak/nt-export/pkg/text"
)

// HTMLRenderer converts Markdown documents to HTML using gomarkdown.
type HTMLRenderer struct {
	// CompletePage wraps the output in a full HTML page titled after the document.
	CompletePage bool
}

// Render converts the Markdown text of the document found at contextPath.
func (r HTMLRenderer) Render(md string, contextPath string) (string, error) {
	flags := html.CommonFlags | html.HrefTargetBlank
	title := ""
	if r.CompletePage {
		flags |= html.CompletePage
		title = text.TrimExtension(filepath.Base(contextPath))
	}
	return render(md, flags, title), nil
}

func render(md string, flags html.Flags, title string) string {
	// Parsers are stateful and cannot be reused between documents
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: flags,
		Title: title,
	})
	return string(markdown.ToHTML([]byte(md), p, renderer))
}
