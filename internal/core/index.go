package core

import (
	"fmt"
	"path"
	"strings"

	"github.com/julien-sobczak/nt-export/internal/markdown"
	"golang.org/x/exp/slices"
)

// BlockRange locates a block inside a file (1-based, inclusive line numbers).
type BlockRange struct {
	StartLine int
	EndLine   int
}

// MetadataCache answers questions about the content of a vault without reading it again.
type MetadataCache interface {
	// ResolveLink searches the file targeted by a link written in the given document.
	ResolveLink(linkText, contextPath string) (string, bool)
	// TagsOf returns the tags of a document (without the leading #).
	TagsOf(path string) []string
	// Block returns the lines of the block ^id inside a document.
	Block(path, id string) (BlockRange, bool)
	// Documents returns all Markdown documents in walk order.
	Documents() []string
}

// VaultIndex is a MetadataCache built by scanning all files of a vault.
type VaultIndex struct {
	files     []string
	documents []string
	tags      map[string][]string
	blocks    map[string]map[string]BlockRange
}

// NewVaultIndex scans the vault. Files previously exported inside the vault are ignored.
func NewVaultIndex(vault *Vault, settings Settings) (*VaultIndex, error) {
	index := &VaultIndex{
		tags:   make(map[string][]string),
		blocks: make(map[string]map[string]BlockRange),
	}

	files, err := vault.List(".")
	if err != nil {
		return nil, fmt.Errorf("failed to list files of %s: %w", vault, err)
	}
	for _, file := range files {
		if settings.IsOutput(file) {
			continue
		}
		index.files = append(index.files, file)
		if !IsDocument(file) {
			continue
		}
		content, err := vault.Read(file)
		if err != nil {
			return nil, err
		}
		index.add(file, content)
	}

	CurrentLogger().Debugf("Indexed %d files including %d documents", len(index.files), len(index.documents))
	return index, nil
}

func (i *VaultIndex) add(file string, content string) {
	i.documents = append(i.documents, file)

	md := markdown.ParseFile(file, []byte(content))

	var tags []string
	frontMatterTags, err := md.FrontMatter.Tags()
	if err != nil {
		CurrentLogger().Warnf("Invalid front matter in %q: %v", file, err)
	}
	for _, tag := range append(frontMatterTags, md.Body.InlineTags()...) {
		if !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}
	i.tags[file] = tags

	blocks := make(map[string]BlockRange)
	for _, block := range md.GetBlocks() {
		if _, ok := blocks[block.ID]; ok {
			// First block wins
			continue
		}
		blocks[block.ID] = BlockRange{
			StartLine: md.BodyLine - 1 + block.BodyLineStart,
			EndLine:   md.BodyLine - 1 + block.BodyLineEnd,
		}
	}
	i.blocks[file] = blocks
}

// IsDocument returns if a file is a Markdown document.
func IsDocument(p string) bool {
	return strings.EqualFold(path.Ext(p), ".md")
}

// ResolveLink searches in order for: the exact vault path, a path relative to the document,
// and a file with the same name anywhere in the vault (shortest path first).
// The extension .md is optional for documents.
func (i *VaultIndex) ResolveLink(linkText, contextPath string) (string, bool) {
	link, _, _ := strings.Cut(linkText, "#")
	link = strings.TrimSpace(link)
	if link == "" {
		return "", false
	}

	candidates := []string{CleanPath(link)}
	if dir := path.Dir(CleanPath(contextPath)); dir != "." && !strings.HasPrefix(link, "/") {
		candidates = append(candidates, CleanPath(path.Join(dir, link)))
	}
	for _, candidate := range candidates {
		if i.has(candidate) {
			return candidate, true
		}
		if i.has(candidate + ".md") {
			return candidate + ".md", true
		}
	}

	// Search by suffix
	suffix := "/" + strings.TrimPrefix(CleanPath(link), "../")
	var matches []string
	for _, file := range i.files {
		if strings.HasSuffix("/"+file, suffix) || strings.HasSuffix("/"+file, suffix+".md") {
			matches = append(matches, file)
		}
	}
	if len(matches) == 0 {
		return "", false
	}
	slices.SortStableFunc(matches, func(a, b string) int {
		return len(a) - len(b)
	})
	return matches[0], true
}

func (i *VaultIndex) has(file string) bool {
	return slices.Contains(i.files, file)
}

func (i *VaultIndex) TagsOf(path string) []string {
	return i.tags[CleanPath(path)]
}

func (i *VaultIndex) Block(path, id string) (BlockRange, bool) {
	block, ok := i.blocks[CleanPath(path)][id]
	return block, ok
}

func (i *VaultIndex) Documents() []string {
	return i.documents
}
