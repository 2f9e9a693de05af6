// Package embeds reads the embeds rendered by a host application.
package embeds

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"

	"github.com/julien-sobczak/nt-export/pkg/text"
)

// SnapshotSource reads HTML snapshots of documents rendered by the host application.
// The snapshot of "notes/My Note.md" is the file "<dir>/My Note.html".
type SnapshotSource struct {
	dir       string
	converter *md.Converter
}

func NewSnapshotSource(dir string) *SnapshotSource {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &SnapshotSource{
		dir:       dir,
		converter: converter,
	}
}

// SnapshotPath returns the path of the snapshot of a document.
func (s *SnapshotSource) SnapshotPath(path string) string {
	return filepath.Join(s.dir, text.TrimExtension(filepath.Base(path))+".html")
}

// RenderedEmbeds converts the content of every embed present in the snapshot back to Markdown.
// Embeds are keyed by their link text (the src attribute). A missing snapshot returns no embeds.
func (s *SnapshotSource) RenderedEmbeds(path string) (map[string]string, error) {
	f, err := os.Open(s.SnapshotPath(path))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot of %q: %w", path, err)
	}

	results := make(map[string]string)
	doc.Find(".internal-embed[src]").Each(func(i int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if _, ok := results[src]; ok {
			// Same content for the same link
			return
		}
		content := sel.Find(".markdown-embed-content").First()
		if content.Length() == 0 {
			// Ex: images
			return
		}
		results[src] = strings.TrimSpace(s.converter.Convert(content))
	})
	return results, nil
}
