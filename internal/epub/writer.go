// Package epub assembles EPUB 3 containers. The archive layout is the
// conventional one: a stored mimetype entry first, META-INF/container.xml,
// then the package document, navigation documents, content documents, and
// assets under OEBPS/.
package epub

import (
	"archive/zip"
	"compress/flate"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-bookbinder/internal/assets"
	"github.com/goliatone/go-bookbinder/internal/book"
	"github.com/goliatone/go-bookbinder/internal/logging"
	"github.com/goliatone/go-bookbinder/internal/render"
	"github.com/goliatone/go-bookbinder/pkg/interfaces"
)

// Compression selects the deflate profile for content entries. The mimetype
// entry is always stored regardless of this setting.
type Compression int

const (
	CompressionDefault Compression = iota
	CompressionStore
	CompressionFastest
	CompressionBest
)

// Metadata is the book-level descriptive metadata embedded in the package
// document. Identifier is filled with a urn:uuid value when left empty.
type Metadata struct {
	Title      string
	Author     string
	Language   string
	Publisher  string
	Date       string
	Identifier string
}

// WriterConfig configures container assembly.
type WriterConfig struct {
	Compression Compression
	Metadata    Metadata
}

// Writer builds EPUB containers on disk.
type Writer struct {
	cfg    WriterConfig
	logger interfaces.Logger
	now    func() time.Time
}

func NewWriter(cfg WriterConfig, provider interfaces.LoggerProvider) *Writer {
	if cfg.Metadata.Language == "" {
		cfg.Metadata.Language = "en"
	}
	if cfg.Metadata.Identifier == "" {
		cfg.Metadata.Identifier = "urn:uuid:" + uuid.NewString()
	}
	return &Writer{
		cfg:    cfg,
		logger: logging.PackagingLogger(provider),
		now:    time.Now,
	}
}

// Write assembles the container at dest. Missing or unreadable assets
// degrade to warnings and the entry is skipped; only failures on the
// archive itself are fatal. An empty chapter list still produces a valid,
// content-empty container.
func (w *Writer) Write(ctx context.Context, dest string, chapters []render.Rendered, entries []assets.Entry) ([]book.Diagnostic, error) {
	f, err := os.Create(dest)
	if err != nil {
		return nil, fmt.Errorf("epub: create %s: %w", dest, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w.registerCompressor(zw)

	// The mimetype entry must be first and stored so reading systems can
	// sniff the container type from the raw bytes.
	mw, err := zw.CreateHeader(&zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	})
	if err != nil {
		return nil, fmt.Errorf("epub: mimetype entry: %w", err)
	}
	if _, err := io.WriteString(mw, mimetypeContent); err != nil {
		return nil, fmt.Errorf("epub: mimetype entry: %w", err)
	}

	if err := w.writeEntry(zw, "META-INF/container.xml", []byte(containerXML)); err != nil {
		return nil, err
	}

	var (
		chapterHrefs []string
		chapterIDs   []string
		navEntries   []navEntry
	)
	for _, ch := range chapters {
		chapterHrefs = append(chapterHrefs, ch.Chapter.FileName)
		chapterIDs = append(chapterIDs, ch.Chapter.ID)
		navEntries = append(navEntries, navEntry{
			Title: ch.Chapter.PlainTitle,
			Href:  ch.Chapter.FileName,
		})
	}

	var diags []book.Diagnostic
	kept, copyDiags := w.dedupeAssets(entries)
	diags = append(diags, copyDiags...)

	var assetHrefs []string
	for _, e := range kept {
		assetHrefs = append(assetHrefs, e.LogicalTarget)
	}

	doc := buildPackageDoc(w.cfg.Metadata, chapterHrefs, chapterIDs, assetHrefs, w.now())
	opf, err := marshalPackageDoc(doc)
	if err != nil {
		return diags, fmt.Errorf("epub: package document: %w", err)
	}
	if err := w.writeEntry(zw, "OEBPS/content.opf", opf); err != nil {
		return diags, err
	}
	if err := w.writeEntry(zw, "OEBPS/nav.xhtml", buildNavDoc(w.cfg.Metadata.Title, navEntries)); err != nil {
		return diags, err
	}
	if err := w.writeEntry(zw, "OEBPS/toc.ncx", buildNCX(w.cfg.Metadata.Identifier, w.cfg.Metadata.Title, navEntries)); err != nil {
		return diags, err
	}

	for _, ch := range chapters {
		if err := ctx.Err(); err != nil {
			return diags, err
		}
		if err := w.writeEntry(zw, path.Join("OEBPS", ch.Chapter.FileName), ch.XHTML); err != nil {
			return diags, err
		}
	}

	for _, e := range kept {
		if err := ctx.Err(); err != nil {
			return diags, err
		}
		d, err := w.copyAsset(zw, e)
		if err != nil {
			return diags, err
		}
		diags = append(diags, d...)
	}

	if err := zw.Close(); err != nil {
		return diags, fmt.Errorf("epub: finalize %s: %w", dest, err)
	}
	if err := f.Close(); err != nil {
		return diags, fmt.Errorf("epub: finalize %s: %w", dest, err)
	}

	w.logger.Info("container assembled",
		"path", dest,
		"chapters", len(chapters),
		"assets", len(kept),
	)
	return diags, nil
}

// dedupeAssets keeps the first entry per logical target. The registry is
// duplicate tolerant so a figure shared by two chapters lands here twice.
func (w *Writer) dedupeAssets(entries []assets.Entry) ([]assets.Entry, []book.Diagnostic) {
	var (
		kept  []assets.Entry
		diags []book.Diagnostic
		seen  = map[string]string{}
	)
	for _, e := range entries {
		prev, dup := seen[e.LogicalTarget]
		if !dup {
			seen[e.LogicalTarget] = e.PhysicalPath
			kept = append(kept, e)
			continue
		}
		if prev != e.PhysicalPath {
			diags = append(diags, book.Warnf("packaging", "", e.LogicalTarget,
				"asset %s claimed by %s and %s, keeping the first", e.LogicalTarget, prev, e.PhysicalPath))
		}
	}
	return kept, diags
}

func (w *Writer) copyAsset(zw *zip.Writer, e assets.Entry) ([]book.Diagnostic, error) {
	src, err := os.Open(e.PhysicalPath)
	if err != nil {
		return []book.Diagnostic{book.Warnf("packaging", "", e.LogicalTarget,
			"asset %s unreadable, skipped: %v", e.PhysicalPath, err)}, nil
	}
	defer src.Close()

	ew, err := zw.Create(path.Join("OEBPS", e.LogicalTarget))
	if err != nil {
		return nil, fmt.Errorf("epub: asset entry %s: %w", e.LogicalTarget, err)
	}
	if _, err := io.Copy(ew, src); err != nil {
		return nil, fmt.Errorf("epub: asset entry %s: %w", e.LogicalTarget, err)
	}
	return nil, nil
}

func (w *Writer) writeEntry(zw *zip.Writer, name string, content []byte) error {
	ew, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("epub: entry %s: %w", name, err)
	}
	if _, err := ew.Write(content); err != nil {
		return fmt.Errorf("epub: entry %s: %w", name, err)
	}
	return nil
}

func (w *Writer) registerCompressor(zw *zip.Writer) {
	level := flate.DefaultCompression
	switch w.cfg.Compression {
	case CompressionStore:
		level = flate.NoCompression
	case CompressionFastest:
		level = flate.BestSpeed
	case CompressionBest:
		level = flate.BestCompression
	default:
		return
	}
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})
}
