// Package render executes Phase 2 of a build: chapter bodies render
// concurrently into order-indexed intermediates, then a single serialized
// pass resolves references and merges asset buffers in spine order so every
// dedup decision depends only on the spine, never on completion order.
package render

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yuin/goldmark"

	"github.com/goliatone/go-bookbinder/internal/assets"
	"github.com/goliatone/go-bookbinder/internal/book"
	"github.com/goliatone/go-bookbinder/internal/logging"
	"github.com/goliatone/go-bookbinder/internal/markdown"
	"github.com/goliatone/go-bookbinder/internal/xref"
	"github.com/goliatone/go-bookbinder/pkg/interfaces"
)

// Rendered is one chapter's finished content document.
type Rendered struct {
	Chapter *book.Chapter
	XHTML   []byte
}

// Config captures renderer behaviour toggles.
type Config struct {
	// Workers bounds the render worker pool; zero or negative falls back
	// to GOMAXPROCS-style CPU count.
	Workers int
	Parse   interfaces.ParseOptions
}

// Renderer renders chapters and runs the link pass.
type Renderer struct {
	cfg    Config
	engine goldmark.Markdown
	logger interfaces.Logger
}

// NewRenderer builds a renderer. The goldmark engine is shared between
// workers; goldmark instances are safe for concurrent Convert calls.
func NewRenderer(cfg Config, provider interfaces.LoggerProvider) *Renderer {
	return &Renderer{
		cfg:    cfg,
		engine: markdown.NewEngine(cfg.Parse),
		logger: logging.RenderLogger(provider),
	}
}

// intermediate is a chapter's parallel-phase output, indexed by spine
// position so the link pass sees chapters in order.
type intermediate struct {
	html   []byte
	tokens []book.ReferenceToken
	buf    *assets.Buffer
	err    error
}

// RenderAll renders every chapter and resolves references. Chapter bodies
// render in parallel; the tracker-consulting link step runs single-threaded
// in spine order, as does the asset merge.
func (r *Renderer) RenderAll(
	ctx context.Context,
	parsed []*markdown.ParsedChapter,
	resolver *xref.Resolver,
	registry *assets.Registry,
) ([]Rendered, []book.Diagnostic, error) {
	if len(parsed) == 0 {
		return nil, nil, nil
	}

	results := make([]intermediate, len(parsed))

	workers := r.effectiveWorkerCount(len(parsed))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				select {
				case <-ctx.Done():
					results[idx].err = ctx.Err()
				default:
					results[idx] = r.renderOne(parsed[idx])
				}
			}
		}()
	}

	for idx := range parsed {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, nil, ctx.Err()
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	// Serialized link pass in spine order.
	var (
		rendered []Rendered
		diags    []book.Diagnostic
	)
	for idx, pc := range parsed {
		res := results[idx]
		if res.err != nil {
			return nil, diags, fmt.Errorf("render chapter %s: %w", pc.Chapter.SourcePath, res.err)
		}

		linked, linkDiags := linkChapter(res.html, res.tokens, pc.Chapter, resolver)
		diags = append(diags, linkDiags...)

		registry.Merge(res.buf)

		rendered = append(rendered, Rendered{
			Chapter: pc.Chapter,
			XHTML:   chapterShell(pc.Chapter.PlainTitle, linked),
		})
		r.logger.Debug("chapter rendered", "chapter", pc.Chapter.ID, "bytes", len(linked))
	}

	return rendered, diags, nil
}

// renderOne is the parallel half: AST transform plus body rendering. It
// touches no shared state beyond its own intermediate slot.
func (r *Renderer) renderOne(pc *markdown.ParsedChapter) intermediate {
	buf := &assets.Buffer{}
	tokens := transformTree(pc.Doc, pc.Body, pc.Chapter, buf)

	var out bytes.Buffer
	if err := r.engine.Renderer().Render(&out, pc.Body, pc.Doc); err != nil {
		return intermediate{err: err}
	}

	return intermediate{
		html:   out.Bytes(),
		tokens: tokens,
		buf:    buf,
	}
}

func (r *Renderer) effectiveWorkerCount(chapterCount int) int {
	workers := r.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if chapterCount > 0 && workers > chapterCount {
		return chapterCount
	}
	return workers
}
