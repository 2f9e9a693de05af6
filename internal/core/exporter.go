package core

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/julien-sobczak/nt-export/internal/markdown"
	"github.com/julien-sobczak/nt-export/pkg/clock"
	pkgmarkdown "github.com/julien-sobczak/nt-export/pkg/markdown"
	"golang.org/x/exp/slices"
)

// Renderer converts Markdown to HTML.
type Renderer interface {
	Render(md string, contextPath string) (string, error)
}

// JobError reports a failed document inside a batch.
type JobError struct {
	Path string
	Err  error
}

func (e JobError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e JobError) Unwrap() error {
	return e.Err
}

// BatchResult aggregates the outcome of an export.
type BatchResult struct {
	Success int
	Failed  int
	Errors  []JobError
	// Paths of the written documents (including the documents pulled by recursive exports)
	Outputs []string
}

func (r *BatchResult) String() string {
	return fmt.Sprintf("%d exported, %d failed", r.Success, r.Failed)
}

// addOutputs appends the outputs not already present.
func (r *BatchResult) addOutputs(outputs []string) {
	for _, output := range outputs {
		if !slices.Contains(r.Outputs, output) {
			r.Outputs = append(r.Outputs, output)
		}
	}
}

// addErrors records the errors of documents not already reported as failed.
func (r *BatchResult) addErrors(errs []JobError) {
	for _, jobErr := range errs {
		if slices.ContainsFunc(r.Errors, func(e JobError) bool { return e.Path == jobErr.Path }) {
			continue
		}
		r.Failed++
		r.Errors = append(r.Errors, jobErr)
	}
}

// Exporter exports documents of a vault.
type Exporter struct {
	vault    *Vault
	cache    MetadataCache
	settings Settings
	renderer Renderer
	embeds   EmbedSource

	// Called after each document of a batch (ex: progress bar)
	onProgress func(done, total int, path string)
}

type ExporterOption func(*Exporter)

// WithRenderer overrides the Markdown to HTML renderer.
func WithRenderer(renderer Renderer) ExporterOption {
	return func(e *Exporter) {
		e.renderer = renderer
	}
}

// WithEmbedSource uses embeds rendered by a host application.
func WithEmbedSource(embeds EmbedSource) ExporterOption {
	return func(e *Exporter) {
		e.embeds = embeds
	}
}

// WithProgress registers a callback notified after each document of a batch.
func WithProgress(fn func(done, total int, path string)) ExporterOption {
	return func(e *Exporter) {
		e.onProgress = fn
	}
}

func NewExporter(vault *Vault, cache MetadataCache, settings Settings, options ...ExporterOption) *Exporter {
	exporter := &Exporter{
		vault:    vault,
		cache:    cache,
		settings: settings,
		renderer: pkgmarkdown.HTMLRenderer{CompletePage: true},
		embeds:   NoEmbeds,
	}
	for _, option := range options {
		option(exporter)
	}
	return exporter
}

// session groups the state of a single export invocation.
type session struct {
	*Exporter
	attachments *AttachmentResolver
	rewriter    *ContentRewriter
}

func (e *Exporter) newSession() *session {
	// Path variables use the same time for all documents
	now := clock.Snapshot()
	attachments := NewAttachmentResolver(e.vault, e.cache, e.settings, now)
	return &session{
		Exporter:    e,
		attachments: attachments,
		rewriter:    NewContentRewriter(e.vault, e.cache, e.settings, attachments, e.embeds),
	}
}

// jobRoot returns the output root of a document.
func (e *Exporter) jobRoot(source string) string {
	if e.settings.IncludeFileName {
		return joinPath(e.settings.Output, stem(source))
	}
	return joinPath(e.settings.Output)
}

// ExportFile exports a single document.
// The returned error concerns the document itself. Failures of linked documents are reported in the result.
func (e *Exporter) ExportFile(source string, format Format) (*BatchResult, error) {
	source = CleanPath(source)
	if !e.vault.Exists(source) {
		return nil, fmt.Errorf("failed to export %q: %w", source, fs.ErrNotExist)
	}
	job := ExportJob{
		Source:   source,
		Format:   format,
		Root:     e.jobRoot(source),
		FileName: strings.TrimSpace(e.settings.CustomFileName),
	}
	result := &BatchResult{}
	outputs, linkedErrors, err := e.newSession().export(job, make(map[string]bool))
	if err != nil {
		return nil, err
	}
	result.Success++
	result.addOutputs(outputs)
	result.addErrors(linkedErrors)
	return result, nil
}

// ExportFolder exports all documents present in a folder and its subfolders.
func (e *Exporter) ExportFolder(dir string, format Format) (*BatchResult, error) {
	dir = CleanPath(dir)
	if !e.vault.IsDir(dir) {
		return nil, fmt.Errorf("failed to export folder %q: %w", dir, fs.ErrNotExist)
	}
	files, err := e.vault.List(dir)
	if err != nil {
		return nil, err
	}

	var jobs []ExportJob
	var attachments []string
	for _, file := range files {
		if e.settings.IsOutput(file) {
			continue
		}
		if e.settings.Excluded(file) {
			CurrentLogger().Debugf("Excluded %q", file)
			continue
		}
		if !IsDocument(file) {
			attachments = append(attachments, file)
			continue
		}
		jobs = append(jobs, ExportJob{
			Source:  file,
			Format:  format,
			Root:    e.jobRoot(file),
			SubPath: subPath(dir, file),
		})
	}

	s := e.newSession()
	result := s.runBatch(jobs)
	if e.settings.ExportAllAttachments {
		for _, file := range attachments {
			s.copyVerbatim(joinPath(e.settings.Output, subPath(dir, file), path.Base(file)), file)
		}
	}
	return result, nil
}

// ExportTag exports all documents having a tag matching the given tag.
func (e *Exporter) ExportTag(tag string, format Format) (*BatchResult, error) {
	var jobs []ExportJob
	for _, document := range FindByTag(e.cache, tag) {
		if e.settings.IsOutput(document) {
			continue
		}
		jobs = append(jobs, ExportJob{
			Source: document,
			Format: format,
			Root:   e.jobRoot(document),
		})
	}
	return e.newSession().runBatch(jobs), nil
}

// runBatch exports the jobs in order without stopping at the first failure.
// Each root job has its own recursion guard: a document reached from several root jobs
// is exported again but reported once.
func (s *session) runBatch(jobs []ExportJob) *BatchResult {
	result := &BatchResult{}
	for i, job := range jobs {
		outputs, linkedErrors, err := s.export(job, make(map[string]bool))
		if err != nil {
			CurrentLogger().Warnf("Failed to export %q: %v", job.Source, err)
			result.addErrors([]JobError{{Path: job.Source, Err: err}})
		} else {
			result.Success++
		}
		result.addOutputs(outputs)
		result.addErrors(linkedErrors)
		if s.onProgress != nil {
			s.onProgress(i+1, len(jobs), job.Source)
		}
	}
	return result
}

// export writes a document, and the documents it links to in recursive mode.
// The error concerns the document itself. Linked documents failing to export are
// returned as job errors and do not stop the traversal.
func (s *session) export(job ExportJob, processed map[string]bool) ([]string, []JobError, error) {
	if processed[job.Source] {
		return nil, nil, nil
	}
	processed[job.Source] = true

	CurrentLogger().Infof("Exporting %q to %q", job.Source, job.OutputPath())

	content, err := s.vault.Read(job.Source)
	if err != nil {
		return nil, nil, err
	}
	original := markdown.Document(content)

	rewritten, err := s.rewriter.Rewrite(job, original)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to rewrite %q: %w", job.Source, err)
	}

	output, err := s.serialize(job, rewritten)
	if err != nil {
		return nil, nil, err
	}
	if err := s.write(job.OutputPath(), output); err != nil {
		return nil, nil, err
	}
	outputs := []string{job.OutputPath()}

	if !s.settings.Recursive {
		return outputs, nil, nil
	}

	// Linked documents are written next to the root document
	var linkedErrors []JobError
	for _, link := range original.OutgoingLinks() {
		wikilink := link.Wikilink()
		if wikilink.Anchored() {
			// Same document
			continue
		}
		target, ok := s.cache.ResolveLink(wikilink.Path(), job.Source)
		if !ok || !IsDocument(target) || processed[target] {
			continue
		}
		CurrentLogger().Debugf("Following link %q from %q", link.Raw, job.Source)
		linkedOutputs, errs, err := s.export(ExportJob{
			Source:  target,
			Format:  job.Format,
			Root:    job.Root,
			SubPath: job.SubPath,
		}, processed)
		if err != nil {
			CurrentLogger().Warnf("Failed to export %q linked from %q: %v", target, job.Source, err)
			linkedErrors = append(linkedErrors, JobError{Path: target, Err: err})
		}
		outputs = append(outputs, linkedOutputs...)
		linkedErrors = append(linkedErrors, errs...)
	}
	return outputs, linkedErrors, nil
}

func (s *session) serialize(job ExportJob, rewritten markdown.Document) (string, error) {
	switch job.Format {
	case FormatHTML:
		html, err := s.renderer.Render(rewritten.String(), job.Source)
		if err != nil {
			return "", fmt.Errorf("failed to render %q: %w", job.Source, err)
		}
		return html, nil
	case FormatText:
		return pkgmarkdown.ToText(rewritten.String(), s.settings.Text), nil
	}
	return rewritten.String(), nil
}

// write creates the output file. Existing files are kept unless overwrite is enabled.
func (s *session) write(output string, content string) error {
	if err := s.vault.CreateFolder(path.Dir(filepath.ToSlash(output))); err != nil && !IsAlreadyExists(err) {
		return err
	}
	if s.settings.Overwrite {
		return s.vault.Write(output, content)
	}
	if err := s.vault.Create(output, content); err != nil {
		if IsAlreadyExists(err) {
			CurrentLogger().Debugf("Kept existing file %q", output)
			return nil
		}
		return err
	}
	return nil
}

// copyVerbatim copies a file of an exported folder to the output.
func (s *session) copyVerbatim(target, source string) {
	if err := s.vault.CreateFolder(path.Dir(filepath.ToSlash(target))); err != nil && !IsAlreadyExists(err) {
		CurrentLogger().Warnf("Failed to copy %q: %v", source, err)
		return
	}
	if err := s.vault.Copy(source, target); err != nil && !IsAlreadyExists(err) {
		CurrentLogger().Warnf("Failed to copy %q: %v", source, err)
	}
}

// subPath returns the folder of a file relative to the exported folder.
func subPath(dir, file string) string {
	rel := strings.TrimPrefix(file, dir+"/")
	if dir == "." {
		rel = file
	}
	sub := path.Dir(rel)
	if sub == "." {
		return ""
	}
	return sub
}
