package render

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-bookbinder/internal/assets"
	"github.com/goliatone/go-bookbinder/internal/book"
	"github.com/goliatone/go-bookbinder/internal/markdown"
	"github.com/goliatone/go-bookbinder/internal/xref"
	"github.com/goliatone/go-bookbinder/pkg/interfaces"
)

func parseTestChapter(t *testing.T, path, src, id string) *markdown.ParsedChapter {
	t.Helper()
	pc, err := markdown.BuildChapter(path, []byte(src), markdown.NewEngine(interfaces.ParseOptions{}))
	if err != nil {
		t.Fatalf("BuildChapter(%s): %v", path, err)
	}
	ch := pc.Chapter
	ch.ID = id
	ch.FileName = "text/" + id + ".xhtml"
	ch.LocalSymbols[id] = book.SymbolTarget{Text: ch.PlainTitle}
	ch.TitleFallbacks[id] = ch.PlainTitle
	return pc
}

func TestRenderAllResolvesAcrossChapters(t *testing.T) {
	alpha := parseTestChapter(t, "ch/alpha.md",
		"# Alpha\n\n## Setup\n\nForward to [the ending](xref:_omega#).\n", "_alpha")
	omega := parseTestChapter(t, "ch/omega.md",
		"# Omega\n\nBack to [setup](xref:_alpha#setup).\n", "_omega")

	parsed := []*markdown.ParsedChapter{alpha, omega}
	spine := book.NewSpine([]*book.Chapter{alpha.Chapter, omega.Chapter})
	resolver := xref.NewResolver(spine, xref.NewTracker(), nil)
	registry := assets.NewRegistry()

	r := NewRenderer(Config{Workers: 2}, nil)
	rendered, diags, err := r.RenderAll(context.Background(), parsed, resolver, registry)
	if err != nil {
		t.Fatalf("RenderAll: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics %v", diags)
	}
	if len(rendered) != 2 {
		t.Fatalf("expected 2 rendered chapters, got %d", len(rendered))
	}

	if rendered[0].Chapter.ID != "_alpha" || rendered[1].Chapter.ID != "_omega" {
		t.Fatalf("spine order lost: %s then %s", rendered[0].Chapter.ID, rendered[1].Chapter.ID)
	}

	first := string(rendered[0].XHTML)
	if !strings.Contains(first, `href="text/_omega.xhtml"`) {
		t.Fatalf("whole-chapter reference not resolved: %s", first)
	}
	second := string(rendered[1].XHTML)
	if !strings.Contains(second, `href="text/_alpha.xhtml#setup"`) {
		t.Fatalf("fragment reference not resolved: %s", second)
	}
	if !strings.Contains(first, "<title>Alpha</title>") {
		t.Fatalf("chapter shell missing title: %s", first)
	}
}

func TestRenderAllKeepsRepeatedHeadingIDsAcrossChapters(t *testing.T) {
	alpha := parseTestChapter(t, "ch/alpha.md",
		"# Alpha\n\n## Setup\n\nSee [beta's setup](xref:_beta#setup).\n", "_alpha")
	beta := parseTestChapter(t, "ch/beta.md",
		"# Beta\n\n## Setup\n", "_beta")

	parsed := []*markdown.ParsedChapter{alpha, beta}
	spine := book.NewSpine([]*book.Chapter{alpha.Chapter, beta.Chapter})
	resolver := xref.NewResolver(spine, xref.NewTracker(), nil)

	r := NewRenderer(Config{}, nil)
	rendered, diags, err := r.RenderAll(context.Background(), parsed, resolver, assets.NewRegistry())
	if err != nil {
		t.Fatalf("RenderAll: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics %v", diags)
	}

	first := string(rendered[0].XHTML)
	if !strings.Contains(first, `href="text/_beta.xhtml#setup"`) {
		t.Fatalf("inter-chapter reference not resolved: %s", first)
	}

	// Both chapters carry a "Setup" heading; each is its own file, so both
	// must keep the anchor the href above relies on.
	second := string(rendered[1].XHTML)
	if !strings.Contains(second, `id="setup"`) {
		t.Fatalf("later chapter's heading lost its id, leaving a dead link: %s", second)
	}
	if !strings.Contains(first, `id="setup"`) {
		t.Fatalf("first chapter's heading must keep its id too: %s", first)
	}
}

func TestRenderAllUnknownChapterDegrades(t *testing.T) {
	alpha := parseTestChapter(t, "ch/alpha.md",
		"# Alpha\n\nSee [missing](xref:_ghost#nowhere).\n", "_alpha")

	parsed := []*markdown.ParsedChapter{alpha}
	spine := book.NewSpine([]*book.Chapter{alpha.Chapter})
	resolver := xref.NewResolver(spine, xref.NewTracker(), nil)

	r := NewRenderer(Config{}, nil)
	rendered, diags, err := r.RenderAll(context.Background(), parsed, resolver, assets.NewRegistry())
	if err != nil {
		t.Fatalf("RenderAll: %v", err)
	}
	if len(diags) != 1 || diags[0].Severity != book.SeverityWarning {
		t.Fatalf("expected one warning, got %v", diags)
	}
	if !strings.Contains(string(rendered[0].XHTML), "[_ghost]") {
		t.Fatalf("fallback literal missing: %s", rendered[0].XHTML)
	}
}

func TestRenderAllMergesAssetsInSpineOrder(t *testing.T) {
	alpha := parseTestChapter(t, "ch/alpha.md", "# Alpha\n\n![a](a.png)\n", "_alpha")
	omega := parseTestChapter(t, "ch/omega.md", "# Omega\n\n![z](z.png)\n", "_omega")

	parsed := []*markdown.ParsedChapter{alpha, omega}
	spine := book.NewSpine([]*book.Chapter{alpha.Chapter, omega.Chapter})
	resolver := xref.NewResolver(spine, xref.NewTracker(), nil)
	registry := assets.NewRegistry()

	r := NewRenderer(Config{Workers: 4}, nil)
	if _, _, err := r.RenderAll(context.Background(), parsed, resolver, registry); err != nil {
		t.Fatalf("RenderAll: %v", err)
	}

	entries := registry.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 assets, got %v", entries)
	}
	if entries[0].LogicalTarget != "images/a.png" || entries[1].LogicalTarget != "images/z.png" {
		t.Fatalf("asset merge order must follow the spine: %v", entries)
	}
}

func TestRenderAllCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	alpha := parseTestChapter(t, "ch/alpha.md", "# Alpha\n", "_alpha")
	spine := book.NewSpine([]*book.Chapter{alpha.Chapter})
	r := NewRenderer(Config{}, nil)

	_, _, err := r.RenderAll(ctx, []*markdown.ParsedChapter{alpha},
		xref.NewResolver(spine, xref.NewTracker(), nil), assets.NewRegistry())
	if err == nil {
		t.Fatal("expected context error")
	}
}
