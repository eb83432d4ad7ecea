// Package packaging sequences the container build: spine validation,
// EPUB 3 assembly, optional KF8 conversion, optional conformance checking,
// and optional extraction. Only failures touching the primary artifact are
// fatal; tool-stage failures degrade the result and keep the EPUB.
package packaging

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-bookbinder/internal/assets"
	"github.com/goliatone/go-bookbinder/internal/book"
	"github.com/goliatone/go-bookbinder/internal/convert"
	"github.com/goliatone/go-bookbinder/internal/epub"
	"github.com/goliatone/go-bookbinder/internal/logging"
	"github.com/goliatone/go-bookbinder/internal/render"
	"github.com/goliatone/go-bookbinder/internal/validate"
	"github.com/goliatone/go-bookbinder/pkg/interfaces"
)

// Format selects the final artifact. FormatKF8 still assembles the EPUB
// first; the KF8 is produced from it.
type Format string

const (
	FormatEPUB3 Format = "epub3"
	FormatKF8   Format = "kf8"
)

// Config drives one packaging run.
type Config struct {
	Format        Format
	OutputTarget  string
	Compression   epub.Compression
	Metadata      epub.Metadata
	Validate      bool
	Extract       bool
	ConverterPath string
	ValidatorPath string
}

// Service owns the pipeline and its external tool wrappers.
type Service struct {
	cfg       Config
	writer    *epub.Writer
	converter *convert.Converter
	validator *validate.Validator
	logger    interfaces.Logger
}

func New(cfg Config, provider interfaces.LoggerProvider) *Service {
	if cfg.Format == "" {
		cfg.Format = FormatEPUB3
	}
	return &Service{
		cfg: cfg,
		writer: epub.NewWriter(epub.WriterConfig{
			Compression: cfg.Compression,
			Metadata:    cfg.Metadata,
		}, provider),
		converter: convert.NewConverter(cfg.ConverterPath, provider),
		validator: validate.NewValidator(cfg.ValidatorPath, provider),
		logger:    logging.PackagingLogger(provider),
	}
}

// Package runs every configured stage and returns the result. A non-nil
// error means no usable primary artifact exists; a degraded result with a
// nil error means the EPUB is on disk but something downstream failed.
func (s *Service) Package(ctx context.Context, chapters []render.Rendered, entries []assets.Entry) (*Result, error) {
	res := &Result{Valid: true}

	res.record(StageSpineCheck, false, s.checkSpine(chapters), nil)

	dest := s.cfg.OutputTarget
	if dest == "" {
		dest = "book.epub"
	}
	asmDiags, err := s.writer.Write(ctx, dest, chapters, entries)
	res.record(StageAssemble, false, asmDiags, err)
	if err != nil {
		return res, fmt.Errorf("packaging: assemble: %w", err)
	}
	res.EPUBPath = dest

	s.runConvert(ctx, res)
	s.runValidate(ctx, res)
	s.runExtract(res)

	s.logger.Info("packaging finished",
		"epub", res.EPUBPath,
		"kf8", res.KF8Path,
		"degraded", res.Degraded,
	)
	return res, nil
}

// checkSpine flags structural problems that would produce a broken package
// document. A missing spine is reported at error severity but packaging
// continues: a degraded, content-empty container beats no artifact.
func (s *Service) checkSpine(chapters []render.Rendered) []book.Diagnostic {
	if len(chapters) == 0 {
		s.logger.Error("missing spine, packaging an empty book")
		return []book.Diagnostic{
			book.Errorf("packaging", "", "", "missing spine: no chapters to package"),
		}
	}

	var diags []book.Diagnostic
	seen := map[string]bool{}
	for _, ch := range chapters {
		c := ch.Chapter
		if c.ID == "" || c.FileName == "" {
			diags = append(diags, book.Errorf("packaging", c.ID, "",
				"chapter %s missing id or file name", c.SourcePath))
			continue
		}
		if seen[c.ID] {
			diags = append(diags, book.Errorf("packaging", c.ID, "",
				"duplicate chapter id %s in spine", c.ID))
		}
		seen[c.ID] = true
		if !strings.HasSuffix(c.FileName, ".xhtml") {
			diags = append(diags, book.Warnf("packaging", c.ID, "",
				"chapter file %s lacks .xhtml extension", c.FileName))
		}
	}
	return diags
}

// runConvert produces the KF8 artifact when requested. Converter failure
// keeps the EPUB and degrades the result.
func (s *Service) runConvert(ctx context.Context, res *Result) {
	if s.cfg.Format != FormatKF8 {
		res.record(StageConvert, true, nil, nil)
		return
	}
	outPath, diags, err := s.converter.Convert(ctx, res.EPUBPath)
	if err != nil {
		diags = append(diags, book.Errorf("convert", "", res.EPUBPath,
			"conversion failed, epub retained: %v", err))
		res.record(StageConvert, false, diags, err)
		return
	}
	res.KF8Path = outPath
	res.record(StageConvert, false, diags, nil)
}

func (s *Service) runValidate(ctx context.Context, res *Result) {
	if !s.cfg.Validate {
		res.record(StageValidate, true, nil, nil)
		return
	}
	report, err := s.validator.Validate(ctx, res.EPUBPath)
	if err != nil {
		res.record(StageValidate, false, []book.Diagnostic{
			book.Warnf("validate", "", res.EPUBPath, "validator unavailable: %v", err),
		}, err)
		return
	}
	if !report.Valid {
		res.Valid = false
	}
	res.record(StageValidate, false, report.Diagnostics, nil)
}

func (s *Service) runExtract(res *Result) {
	if !s.cfg.Extract {
		res.record(StageExtract, true, nil, nil)
		return
	}
	destDir := strings.TrimSuffix(res.EPUBPath, ".epub") + ".extracted"
	if err := epub.Extract(res.EPUBPath, destDir); err != nil {
		res.record(StageExtract, false, []book.Diagnostic{
			book.Warnf("packaging", "", res.EPUBPath, "extraction failed: %v", err),
		}, err)
		return
	}
	res.ExtractDir = destDir
	res.record(StageExtract, false, nil, nil)
}
