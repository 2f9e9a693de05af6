package core

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/julien-sobczak/nt-export/internal/helpers"
	"github.com/julien-sobczak/nt-export/internal/markdown"
	"github.com/julien-sobczak/nt-export/pkg/clock"
)

// ResolvedAttachment is an attachment reference matched to a file of the vault.
type ResolvedAttachment struct {
	// Vault path of the original file
	Source string
	// Name of the copied file (hash or stem, with the original extension)
	Name string
	// Path of the copied file
	Target string
	// Link to write in the exported document
	Link string
}

// AttachmentResolver locates attachments, copies them next to the exported documents,
// and determines the links to use.
type AttachmentResolver struct {
	vault    *Vault
	cache    MetadataCache
	settings Settings
	clock    clock.Clock

	// Number of files copied by this resolver
	copies int
}

func NewAttachmentResolver(vault *Vault, cache MetadataCache, settings Settings, clk clock.Clock) *AttachmentResolver {
	return &AttachmentResolver{
		vault:    vault,
		cache:    cache,
		settings: settings,
		clock:    clk,
	}
}

// Copies returns the number of files copied so far.
func (r *AttachmentResolver) Copies() int {
	return r.copies
}

// NormalizeTarget removes the alias, decodes the percent-encoding, and strips the leading ../
func NormalizeTarget(target string) string {
	target, _, _ = strings.Cut(target, "|")
	target = strings.TrimSpace(target)
	if decoded, err := url.PathUnescape(target); err == nil {
		target = decoded
	}
	for strings.HasPrefix(target, "../") || strings.HasPrefix(target, "./") {
		target = strings.TrimPrefix(strings.TrimPrefix(target, "../"), "./")
	}
	return target
}

// TargetName returns the name of the copied file.
// The same link text always produces the same name.
func TargetName(target string, hashed bool) string {
	normalized := NormalizeTarget(target)
	ext := path.Ext(normalized)
	if hashed {
		return helpers.HashLink(normalized) + ext
	}
	return url.PathEscape(stem(normalized)) + ext
}

// AttachmentDir returns the folder receiving the attachments of a job.
func (r *AttachmentResolver) AttachmentDir(job ExportJob) string {
	if r.settings.RelativeAttachmentPath || r.customAttachPath() == "" {
		return joinPath(job.Root, r.expand(r.settings.AttachmentPath, job))
	}
	return joinPath(r.expand(r.customAttachPath(), job))
}

// attachmentLink returns the link to the attachment as seen from the exported document.
func (r *AttachmentResolver) attachmentLink(job ExportJob, name string) string {
	if r.settings.RelativeAttachmentPath || r.customAttachPath() == "" {
		dir := strings.Trim(filepath.ToSlash(r.expand(r.settings.AttachmentPath, job)), "/")
		if dir == "" || dir == "." {
			return clickSubRoute(job.SubPath) + name
		}
		return clickSubRoute(job.SubPath) + dir + "/" + name
	}

	attachmentDir := r.AttachmentDir(job)
	documentDir := job.DocumentDir()
	if filepath.IsAbs(attachmentDir) == filepath.IsAbs(documentDir) {
		if rel, err := filepath.Rel(documentDir, attachmentDir); err == nil {
			return path.Join(filepath.ToSlash(rel), name)
		}
	}
	// Documents outside of the vault use the absolute path
	return filepath.ToSlash(filepath.Join(r.vault.OsPath(attachmentDir), name))
}

func (r *AttachmentResolver) customAttachPath() string {
	return strings.TrimSpace(r.settings.CustomAttachPath)
}

func (r *AttachmentResolver) expand(template string, job ExportJob) string {
	return ResolvePathVariablesAt(template, job.Source, r.settings.VaultName, r.clock.Now())
}

// Locate searches for the vault file targeted by a reference written in a document.
func (r *AttachmentResolver) Locate(target string, source string) (string, bool) {
	target, _, _ = strings.Cut(target, "|")
	target = strings.TrimSpace(target)
	if decoded, err := url.PathUnescape(target); err == nil {
		target = decoded
	}
	for _, candidate := range []string{target, NormalizeTarget(target)} {
		if resolved, ok := r.cache.ResolveLink(candidate, source); ok {
			return resolved, true
		}
	}
	fallback := CleanPath(path.Join(path.Dir(source), target))
	if r.vault.Exists(fallback) {
		return fallback, true
	}
	return "", false
}

// Resolve locates an attachment and copies it the first time.
// External references and missing files are not resolved.
func (r *AttachmentResolver) Resolve(target string, job ExportJob) (*ResolvedAttachment, bool) {
	if strings.HasPrefix(target, "http") {
		return nil, false
	}

	source, ok := r.Locate(target, job.Source)
	if !ok {
		CurrentLogger().Debugf("Unresolved attachment %q in %q", target, job.Source)
		return nil, false
	}

	name := TargetName(target, r.settings.FileNameEncode)
	dir := r.AttachmentDir(job)
	result := &ResolvedAttachment{
		Source: source,
		Name:   name,
		Target: joinPath(dir, name),
		Link:   r.attachmentLink(job, name),
	}

	if r.vault.Exists(result.Target) {
		CurrentLogger().Tracef("Attachment %q already copied to %q", source, result.Target)
		return result, true
	}
	if err := r.copy(result); err != nil {
		CurrentLogger().Warnf("Failed to copy attachment %q: %v", source, err)
		return nil, false
	}
	return result, true
}

func (r *AttachmentResolver) copy(attachment *ResolvedAttachment) error {
	if err := r.vault.CreateFolder(path.Dir(filepath.ToSlash(attachment.Target))); err != nil && !IsAlreadyExists(err) {
		return err
	}
	if err := r.vault.Copy(attachment.Source, attachment.Target); err != nil {
		if IsAlreadyExists(err) {
			return nil
		}
		return err
	}
	r.copies++
	CurrentLogger().Debugf("Copied attachment %q to %q", attachment.Source, attachment.Target)
	return nil
}

// Replace returns the text replacing the attachment reference in the exported document.
func (r *AttachmentResolver) Replace(ref markdown.AttachmentRef, attachment *ResolvedAttachment) markdown.Replacement {
	if r.settings.DisplayImageAsHTML {
		return ref.Replace(ImageHTML(attachment.Link, ref.Width, ref.Height))
	}
	if r.settings.GFM {
		return ref.Replace(fmt.Sprintf("![](%s)", attachment.Link))
	}
	return markdown.Replacement{
		Start: ref.TargetStart,
		End:   ref.TargetEnd,
		Text:  attachment.Link,
	}
}

// ImageHTML returns an <img> tag. Integer dimensions are in pixels.
func ImageHTML(link, width, height string) string {
	var style strings.Builder
	if width != "" {
		style.WriteString("width: " + cssSize(width) + ";")
	}
	if height != "" {
		if style.Len() > 0 {
			style.WriteString(" ")
		}
		style.WriteString("height: " + cssSize(height) + ";")
	}
	if style.Len() == 0 {
		return fmt.Sprintf(`<img src="%s"/>`, link)
	}
	return fmt.Sprintf(`<img src="%s" style='%s'/>`, link, style.String())
}

func cssSize(size string) string {
	if strings.HasSuffix(size, "%") {
		return size
	}
	return size + "px"
}
