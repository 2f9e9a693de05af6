package core

import (
	"path"
	"strings"

	"github.com/julien-sobczak/nt-export/internal/markdown"
	"github.com/julien-sobczak/nt-export/pkg/text"
)

// EmbedSource provides embeds already rendered by a host application.
type EmbedSource interface {
	// RenderedEmbeds returns the Markdown content of embeds present in a document, keyed by link text.
	RenderedEmbeds(path string) (map[string]string, error)
}

type noEmbeds struct{}

func (noEmbeds) RenderedEmbeds(path string) (map[string]string, error) {
	return nil, nil
}

// NoEmbeds is used when no host application renders the embeds.
var NoEmbeds EmbedSource = noEmbeds{}

// ContentRewriter rewrites the content of a document before its serialization.
type ContentRewriter struct {
	vault       *Vault
	cache       MetadataCache
	settings    Settings
	attachments *AttachmentResolver
	embeds      EmbedSource
}

func NewContentRewriter(vault *Vault, cache MetadataCache, settings Settings, attachments *AttachmentResolver, embeds EmbedSource) *ContentRewriter {
	if embeds == nil {
		embeds = NoEmbeds
	}
	return &ContentRewriter{
		vault:       vault,
		cache:       cache,
		settings:    settings,
		attachments: attachments,
		embeds:      embeds,
	}
}

// Rewrite applies successively the rewriting passes.
func (r *ContentRewriter) Rewrite(job ExportJob, content markdown.Document) (markdown.Document, error) {
	transformers := []markdown.Transformer{
		r.relinkAttachments(job),
		r.substituteEmbeds(job),
	}
	if r.settings.Recursive {
		transformers = append(transformers, markdown.FlattenWikilinks(func(link markdown.Wikilink) bool {
			return r.isDocumentLink(link, job.Source)
		}))
	}
	if r.settings.RemoveOutgoingLinkBrackets {
		transformers = append(transformers, markdown.StripWikilinkBrackets())
	}
	if r.settings.ConvertWikiLinksToMarkdown {
		transformers = append(transformers, markdown.WikilinksToMarkdown())
	}
	return content.Transform(transformers...)
}

func (r *ContentRewriter) relinkAttachments(job ExportJob) markdown.Transformer {
	return func(document markdown.Document) (markdown.Document, error) {
		var replacements []markdown.Replacement
		for _, ref := range document.Attachments() {
			if ref.External() {
				continue
			}
			attachment, ok := r.attachments.Resolve(ref.Target, job)
			if !ok {
				continue
			}
			replacements = append(replacements, r.attachments.Replace(ref, attachment))
		}
		return document.Splice(replacements), nil
	}
}

func (r *ContentRewriter) substituteEmbeds(job ExportJob) markdown.Transformer {
	return func(document markdown.Document) (markdown.Document, error) {
		refs := document.Embeds()
		if len(refs) == 0 {
			return document, nil
		}

		rendered, err := r.embeds.RenderedEmbeds(job.Source)
		if err != nil {
			CurrentLogger().Warnf("Failed to read rendered embeds of %q: %v", job.Source, err)
		}

		var replacements []markdown.Replacement
		for _, ref := range refs {
			wikilink := ref.Wikilink()
			if isAttachmentLink(wikilink) {
				// Handled (or left untouched) by the attachment pass
				continue
			}

			content, ok := rendered[ref.Link]
			if !ok {
				content, ok = rendered[wikilink.Link]
			}
			if !ok && r.settings.InlineBlockEmbeds {
				content, ok = r.extractEmbed(wikilink, job.Source)
			}
			if !ok {
				CurrentLogger().Debugf("Unresolved embed %q in %q (line %d)", ref.Link, job.Source, text.LineNumber(string(document), ref.Start))
				continue
			}

			embedded := markdown.Document(content)
			if r.settings.RemoveYAMLHeader {
				embedded = embedded.MustTransform(markdown.StripFrontMatter())
			}
			embedded = embedded.TrimSpace().MustTransform(markdown.Blockquote())
			replacements = append(replacements, ref.Replace(embedded.String()))
		}
		return document.Splice(replacements), nil
	}
}

// extractEmbed searches the content of a block (note#^id), a section (note#heading), or a whole document (note).
func (r *ContentRewriter) extractEmbed(wikilink markdown.Wikilink, source string) (string, bool) {
	target := source
	if wikilink.Path() != "" {
		resolved, ok := r.cache.ResolveLink(wikilink.Path(), source)
		if !ok || !IsDocument(resolved) {
			return "", false
		}
		target = resolved
	}

	content, err := r.vault.Read(target)
	if err != nil {
		CurrentLogger().Warnf("Failed to read embedded document %q: %v", target, err)
		return "", false
	}

	if id := wikilink.BlockID(); id != "" {
		block, ok := r.cache.Block(target, id)
		if !ok {
			return "", false
		}
		extracted := markdown.Document(content).
			ExtractLines(block.StartLine, block.EndLine).
			MustTransform(markdown.StripBlockID(id))
		return extracted.String(), true
	}

	if heading := wikilink.Heading(); heading != "" {
		section, ok := markdown.ParseFile(target, []byte(content)).FindSection(heading)
		if !ok {
			return "", false
		}
		return section.ContentText.String(), true
	}

	if target == source {
		// Embedding the document inside itself
		return "", false
	}
	return content, true
}

// isDocumentLink returns if a wikilink targets a document of the vault.
func (r *ContentRewriter) isDocumentLink(link markdown.Wikilink, source string) bool {
	if link.Path() == "" {
		return false
	}
	resolved, ok := r.cache.ResolveLink(link.Path(), source)
	return ok && IsDocument(resolved)
}

// isAttachmentLink returns if an embed targets a file that is not a Markdown document.
func isAttachmentLink(link markdown.Wikilink) bool {
	return link.ContainsExtension() && !IsDocument(link.Path()) && !strings.Contains(path.Ext(link.Path()), " ")
}
