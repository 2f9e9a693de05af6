package core

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T, files map[string]string) (*Vault, *VaultIndex) {
	vault := NewVaultFs(afero.NewMemMapFs())
	for path, content := range files {
		require.NoError(t, vault.Create(path, content))
	}
	index, err := NewVaultIndex(vault, DefaultSettings())
	require.NoError(t, err)
	return vault, index
}

func TestVaultIndex(t *testing.T) {
	_, index := newTestIndex(t, map[string]string{
		"notes/a.md":           "---\ntags: [blog, '#project/alpha']\n---\n# A\n\nSome text #todo #blog\n\n- item ^item1\n",
		"notes/sub/b.md":       "# B",
		"b.md":                 "# Root B",
		"images/pic.png":       "PNG",
		"notes/images/pic.png": "PNG",
		"archives/c.md":        "tag: archive\n",
	})

	assert.Equal(t, []string{"archives/c.md", "b.md", "notes/a.md", "notes/sub/b.md"}, index.Documents())
	assert.Equal(t, []string{"blog", "project/alpha", "todo"}, index.TagsOf("notes/a.md"))
	assert.Empty(t, index.TagsOf("notes/sub/b.md"))

	block, ok := index.Block("notes/a.md", "item1")
	require.True(t, ok)
	assert.Equal(t, BlockRange{StartLine: 8, EndLine: 8}, block)
	_, ok = index.Block("notes/a.md", "unknown")
	assert.False(t, ok)

	tests := []struct {
		name     string
		link     string // input
		context  string // input
		expected string // output
	}{
		{"Exact path", "notes/sub/b.md", "notes/a.md", "notes/sub/b.md"},
		{"Exact path without extension", "notes/sub/b", "notes/a.md", "notes/sub/b.md"},
		{"Root document", "b", "notes/a.md", "b.md"},
		{"Relative path", "sub/b", "notes/a.md", "notes/sub/b.md"},
		{"Relative attachment", "images/pic.png", "notes/a.md", "images/pic.png"},
		{"Parent directory", "../images/pic.png", "notes/sub/b.md", "notes/images/pic.png"},
		{"Name only", "pic.png", "archives/c.md", "images/pic.png"},
		{"Section", "a#Title", "b.md", "notes/a.md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, ok := index.ResolveLink(tt.link, tt.context)
			require.True(t, ok)
			assert.Equal(t, tt.expected, actual)
		})
	}

	_, ok = index.ResolveLink("missing", "notes/a.md")
	assert.False(t, ok)
	_, ok = index.ResolveLink("#Title", "notes/a.md")
	assert.False(t, ok)
}

func TestMatchTag(t *testing.T) {
	assert.True(t, MatchTag("project/alpha", "project"))
	assert.True(t, MatchTag("#Project/Alpha", "#project"))
	assert.True(t, MatchTag("project", "project"))
	assert.False(t, MatchTag("project", "project/alpha"))
	assert.False(t, MatchTag("projects", "project"))
	assert.False(t, MatchTag("project", ""))
}

func TestFindByTag(t *testing.T) {
	_, index := newTestIndex(t, map[string]string{
		"alpha.md":   "---\ntags: project/alpha\n---\n# Alpha",
		"project.md": "# Project #project",
		"other.md":   "# Other #misc",
	})

	assert.Equal(t, []string{"alpha.md", "project.md"}, FindByTag(index, "project"))
	assert.Equal(t, []string{"alpha.md"}, FindByTag(index, "#project/alpha"))
	assert.Empty(t, FindByTag(index, "unknown"))
}

func TestVaultIndexIgnoresOutput(t *testing.T) {
	_, index := newTestIndex(t, map[string]string{
		"a.md":                 "# A #blog",
		"notes/deep/target.md": "# Target",
		"output/a.md":          "# A #blog",
		"output/target.md":     "# Target (previous export)",
		"outputs/b.md":         "# B #blog",
	})

	assert.Equal(t, []string{"a.md", "notes/deep/target.md", "outputs/b.md"}, index.Documents())
	assert.Equal(t, []string{"a.md", "outputs/b.md"}, FindByTag(index, "blog"))

	target, ok := index.ResolveLink("target", "a.md")
	require.True(t, ok)
	assert.Equal(t, "notes/deep/target.md", target)
}
