package core

import (
	"path/filepath"
	"testing"

	"github.com/julien-sobczak/nt-export/internal/markdown"
	"github.com/julien-sobczak/nt-export/pkg/clock"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTarget(t *testing.T) {
	assert.Equal(t, "pic.png", NormalizeTarget("pic.png"))
	assert.Equal(t, "images/My Pic.png", NormalizeTarget("../../images/My%20Pic.png|alt"))
	assert.Equal(t, "images/pic.png", NormalizeTarget("./images/pic.png"))
	assert.Equal(t, "100%.png", NormalizeTarget("100%.png")) // Invalid encoding
}

func TestTargetName(t *testing.T) {
	assert.Equal(t, "13cdb71f58255a6ba901942b03c8af3b.png", TargetName("pic.png", true))
	assert.Equal(t, "5c2522076b4afc9eb44f840a8548afe4.png", TargetName("images/My%20Pic.png", true))
	assert.Equal(t, "5c2522076b4afc9eb44f840a8548afe4.png", TargetName("../images/My Pic.png|alias", true))
	assert.Equal(t, "My%20Pic.png", TargetName("images/My%20Pic.png", false))
	assert.Equal(t, "pic.png", TargetName("folder/pic.png", false))
}

func TestImageHTML(t *testing.T) {
	assert.Equal(t, `<img src="a.png"/>`, ImageHTML("a.png", "", ""))
	assert.Equal(t, `<img src="a.png" style='width: 100px;'/>`, ImageHTML("a.png", "100", ""))
	assert.Equal(t, `<img src="a.png" style='width: 100%;'/>`, ImageHTML("a.png", "100%", ""))
	assert.Equal(t, `<img src="a.png" style='height: 50%;'/>`, ImageHTML("a.png", "", "50%"))
	assert.Equal(t, `<img src="a.png" style='width: 100px; height: 50px;'/>`, ImageHTML("a.png", "100", "50"))
}

func newTestResolver(t *testing.T, vault *Vault, settings Settings) *AttachmentResolver {
	index, err := NewVaultIndex(vault, settings)
	require.NoError(t, err)
	return NewAttachmentResolver(vault, index, settings, clock.Snapshot())
}

func TestAttachmentResolver(t *testing.T) {
	vault := SetUpVaultFromFiles(t, map[string]string{
		"notes/projects/a.md": "![[pic.png|100]]",
		"images/pic.png":      "PNG",
	})
	settings := DefaultSettings()
	resolver := newTestResolver(t, vault, settings)
	job := ExportJob{
		Source:  "notes/projects/a.md",
		Format:  FormatMarkdown,
		Root:    "output",
		SubPath: "projects",
	}

	attachment, ok := resolver.Resolve("pic.png", job)
	require.True(t, ok)
	assert.Equal(t, &ResolvedAttachment{
		Source: "images/pic.png",
		Name:   "13cdb71f58255a6ba901942b03c8af3b.png",
		Target: "output/attachment/13cdb71f58255a6ba901942b03c8af3b.png",
		Link:   "../attachment/13cdb71f58255a6ba901942b03c8af3b.png",
	}, attachment)
	assert.Equal(t, "PNG", mustReadFile(t, vault, attachment.Target))
	assert.Equal(t, 1, resolver.Copies())

	// Same link => same name, no second copy
	again, ok := resolver.Resolve("pic.png", job)
	require.True(t, ok)
	assert.Equal(t, attachment, again)
	assert.Equal(t, 1, resolver.Copies())

	// External links are never resolved
	_, ok = resolver.Resolve("https://example.org/pic.png", job)
	assert.False(t, ok)
	_, ok = resolver.Resolve("http://example.org/pic.png", job)
	assert.False(t, ok)

	// Broken links are not resolved
	_, ok = resolver.Resolve("missing.png", job)
	assert.False(t, ok)
	assert.Equal(t, 1, resolver.Copies())
}

func TestAttachmentResolverCustomPath(t *testing.T) {
	vault := SetUpVaultFromFiles(t, map[string]string{
		"notes/a.md":    "![[pic.png]]",
		"notes/pic.png": "PNG",
	})
	job := ExportJob{
		Source:  "notes/a.md",
		Format:  FormatMarkdown,
		Root:    "output",
		SubPath: "notes",
	}

	t.Run("Relative to the vault", func(t *testing.T) {
		settings := DefaultSettings()
		settings.RelativeAttachmentPath = false
		settings.CustomAttachPath = "assets/{{fileName}}"
		settings.FileNameEncode = false
		resolver := newTestResolver(t, vault, settings)

		attachment, ok := resolver.Resolve("pic.png", job)
		require.True(t, ok)
		assert.Equal(t, "assets/a/pic.png", attachment.Target)
		assert.Equal(t, "../../assets/a/pic.png", attachment.Link)
		assert.True(t, vault.Exists("assets/a/pic.png"))
	})

	t.Run("Absolute", func(t *testing.T) {
		dir := t.TempDir()
		settings := DefaultSettings()
		settings.RelativeAttachmentPath = false
		settings.CustomAttachPath = dir
		settings.FileNameEncode = false
		resolver := newTestResolver(t, vault, settings)

		attachment, ok := resolver.Resolve("pic.png", job)
		require.True(t, ok)
		assert.Equal(t, filepath.Join(dir, "pic.png"), attachment.Target)
		assert.Equal(t, filepath.ToSlash(filepath.Join(dir, "pic.png")), attachment.Link)
		assert.FileExists(t, filepath.Join(dir, "pic.png"))
	})
}

func TestAttachmentResolverCopyFailure(t *testing.T) {
	base := SetUpVaultFromFiles(t, map[string]string{
		"a.md":    "![[pic.png]]",
		"pic.png": "PNG",
	})
	vault := NewVaultFs(afero.NewReadOnlyFs(base.fs))
	logs := CaptureLogs(t)

	resolver := newTestResolver(t, vault, DefaultSettings())
	_, ok := resolver.Resolve("pic.png", ExportJob{Source: "a.md", Root: "output"})
	assert.False(t, ok)
	assert.Contains(t, logs.String(), `Failed to copy attachment "pic.png"`)
	assert.Equal(t, 0, resolver.Copies())
}

func TestAttachmentResolverReplace(t *testing.T) {
	ref := markdown.Document("Look: ![[pic.png|100]]").Attachments()[0]
	attachment := &ResolvedAttachment{Link: "attachment/x.png"}

	tests := []struct {
		name     string
		html     bool   // input
		gfm      bool   // input
		expected string // output
	}{
		{"HTML", true, true, "Look: <img src=\"attachment/x.png\" style='width: 100px;'/>"},
		{"GFM", false, true, "Look: ![](attachment/x.png)"},
		{"Bare", false, false, "Look: ![[attachment/x.png|100]]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultSettings()
			settings.DisplayImageAsHTML = tt.html
			settings.GFM = tt.gfm
			resolver := NewAttachmentResolver(nil, nil, settings, clock.Snapshot())
			replacement := resolver.Replace(ref, attachment)
			actual := markdown.Document("Look: ![[pic.png|100]]").Splice([]markdown.Replacement{replacement})
			assert.Equal(t, markdown.Document(tt.expected), actual)
		})
	}
}
