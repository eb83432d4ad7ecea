// Package bookbinder turns a directory of markdown chapters into a linked
// EPUB 3 container, optionally converted to KF8 through an external tool.
// The build runs in three phases: parse and identify every chapter, render
// and resolve cross references, then package the container.
package bookbinder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-bookbinder/internal/assets"
	"github.com/goliatone/go-bookbinder/internal/book"
	"github.com/goliatone/go-bookbinder/internal/epub"
	"github.com/goliatone/go-bookbinder/internal/identify"
	"github.com/goliatone/go-bookbinder/internal/logging"
	"github.com/goliatone/go-bookbinder/internal/markdown"
	"github.com/goliatone/go-bookbinder/internal/packaging"
	"github.com/goliatone/go-bookbinder/internal/render"
	"github.com/goliatone/go-bookbinder/internal/runtimeconfig"
	"github.com/goliatone/go-bookbinder/internal/xref"
	"github.com/goliatone/go-bookbinder/pkg/interfaces"
)

// BuildReport is the outcome of one full build.
type BuildReport struct {
	Packaging   *packaging.Result
	Diagnostics []book.Diagnostic
	Chapters    int
}

// Binder orchestrates the pipeline.
type Binder struct {
	cfg      Config
	provider interfaces.LoggerProvider
	logger   interfaces.Logger
}

// New validates cfg and returns a ready binder. A nil provider degrades to
// no-op logging throughout the pipeline.
func New(cfg Config, provider interfaces.LoggerProvider) (*Binder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("bookbinder: config: %w", err)
	}
	return &Binder{
		cfg:      cfg,
		provider: provider,
		logger:   logging.RenderLogger(provider),
	}, nil
}

// Build runs the three phases end to end and returns the packaging result
// together with every diagnostic raised along the way.
func (b *Binder) Build(ctx context.Context) (*BuildReport, error) {
	report := &BuildReport{}

	parsed, diags, err := b.parseAndIdentify(ctx)
	report.Diagnostics = append(report.Diagnostics, diags...)
	if err != nil {
		return report, err
	}
	report.Chapters = len(parsed)

	spine := spineOf(parsed)
	tracker := xref.NewTracker()
	registry := assets.NewRegistry()
	resolver := xref.NewResolver(spine, tracker, b.provider)

	renderer := render.NewRenderer(render.Config{
		Workers: b.cfg.Workers,
	}, b.provider)
	rendered, renderDiags, err := renderer.RenderAll(ctx, parsed, resolver, registry)
	report.Diagnostics = append(report.Diagnostics, renderDiags...)
	if err != nil {
		return report, err
	}

	svc := packaging.New(packaging.Config{
		Format:        packaging.Format(b.cfg.Format),
		OutputTarget:  b.cfg.OutputTarget,
		Compression:   compressionOf(b.cfg.Compress),
		Metadata:      metadataOf(b.cfg.Metadata),
		Validate:      b.cfg.CheckArtifact,
		Extract:       b.cfg.Extract,
		ConverterPath: b.cfg.ConverterPath,
		ValidatorPath: b.cfg.ValidatorPath,
	}, b.provider)

	result, err := svc.Package(ctx, rendered, registry.Entries())
	if result != nil {
		report.Packaging = result
		report.Diagnostics = append(report.Diagnostics, result.Diagnostics()...)
	}
	return report, err
}

// parseAndIdentify is Phase 1. Every chapter is parsed and carries its
// final identifier before any rendering starts.
func (b *Binder) parseAndIdentify(ctx context.Context) ([]*markdown.ParsedChapter, []book.Diagnostic, error) {
	// The loader walks a rooted fs.FS, so the source dir becomes the fs
	// root and source paths are rebased afterwards for asset resolution.
	loader := markdown.NewLoader(os.DirFS(b.cfg.SourceDir), interfaces.ParseOptions{}, markdown.LoaderConfig{
		Pattern:   b.cfg.Pattern,
		Recursive: b.cfg.Recursive,
	}, b.provider)

	parsed, err := loader.LoadDirectory(ctx, ".")
	if err != nil {
		return nil, nil, err
	}

	chapters := make([]*book.Chapter, len(parsed))
	for i, pc := range parsed {
		chapters[i] = pc.Chapter
		chapters[i].SourcePath = filepath.ToSlash(filepath.Join(b.cfg.SourceDir, chapters[i].SourcePath))
	}

	assigner := identify.NewAssigner(b.cfg.IDPrefix, b.cfg.IDSeparator, b.provider)
	diags := assigner.AssignAll(chapters)

	// Identifiers are final; derive file names and register each chapter
	// root as a referenceable symbol.
	for _, ch := range chapters {
		ch.FileName = "text/" + ch.ID + ".xhtml"
		if ch.LocalSymbols == nil {
			ch.LocalSymbols = map[string]book.SymbolTarget{}
		}
		if ch.TitleFallbacks == nil {
			ch.TitleFallbacks = map[string]string{}
		}
		ch.LocalSymbols[ch.ID] = book.SymbolTarget{Text: ch.PlainTitle}
		ch.TitleFallbacks[ch.ID] = ch.PlainTitle
	}
	return parsed, diags, nil
}

func spineOf(parsed []*markdown.ParsedChapter) *book.Spine {
	chapters := make([]*book.Chapter, len(parsed))
	for i, pc := range parsed {
		chapters[i] = pc.Chapter
	}
	spine := book.NewSpine(chapters)
	spine.Reindex()
	return spine
}

func compressionOf(name string) epub.Compression {
	switch name {
	case "store":
		return epub.CompressionStore
	case "fastest":
		return epub.CompressionFastest
	case "best":
		return epub.CompressionBest
	default:
		return epub.CompressionDefault
	}
}

func metadataOf(m runtimeconfig.Metadata) epub.Metadata {
	return epub.Metadata{
		Title:      m.Title,
		Author:     m.Author,
		Language:   m.Language,
		Publisher:  m.Publisher,
		Date:       m.Date,
		Identifier: m.Identifier,
	}
}
