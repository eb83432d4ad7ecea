package markdown

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-bookbinder/pkg/interfaces"
)

func testEngineChapter(t *testing.T, source string) *ParsedChapter {
	t.Helper()
	pc, err := BuildChapter("chapters/test.md", []byte(source), NewEngine(interfaces.ParseOptions{}))
	if err != nil {
		t.Fatalf("BuildChapter: %v", err)
	}
	return pc
}

func TestBuildChapterReadsFrontMatter(t *testing.T) {
	src := `---
id: custom-id
title: Declared Title
order: 3
---
# Heading Title

Body text.
`
	pc := testEngineChapter(t, src)

	if pc.Chapter.ExplicitID != "custom-id" {
		t.Fatalf("explicit id = %q", pc.Chapter.ExplicitID)
	}
	if pc.Chapter.Title != "Declared Title" {
		t.Fatalf("front-matter title must win, got %q", pc.Chapter.Title)
	}
	if pc.Order != 3 {
		t.Fatalf("order = %d", pc.Order)
	}
}

func TestBuildChapterDerivesTitleFromFirstHeading(t *testing.T) {
	pc := testEngineChapter(t, "# The Opening\n\nSome prose.\n")

	if !pc.Chapter.HasExplicitHeader {
		t.Fatal("expected explicit header detection")
	}
	if pc.Chapter.Title != "The Opening" {
		t.Fatalf("title = %q", pc.Chapter.Title)
	}
	if pc.Chapter.PlainTitle != "The Opening" {
		t.Fatalf("plain title = %q", pc.Chapter.PlainTitle)
	}
}

func TestBuildChapterCollectsHeadingSymbols(t *testing.T) {
	pc := testEngineChapter(t, "# Top\n\n## Setting Up\n\n## Going Deeper\n")

	sym, ok := pc.Chapter.Symbol("setting-up")
	if !ok {
		t.Fatalf("expected symbol for second heading, have %v", pc.Chapter.LocalSymbols)
	}
	if sym.Text != "Setting Up" || sym.Anchor != "setting-up" {
		t.Fatalf("unexpected symbol %+v", sym)
	}
	if _, ok := pc.Chapter.Symbol("going-deeper"); !ok {
		t.Fatal("expected symbol for third heading")
	}
	if pc.Chapter.TitleFallbacks["setting-up"] != "Setting Up" {
		t.Fatalf("title fallback missing, have %v", pc.Chapter.TitleFallbacks)
	}
}

func TestBuildChapterHeaderlessFirstSection(t *testing.T) {
	pc := testEngineChapter(t, "## Part One\n\nProse without a top-level heading.\n")

	if pc.Chapter.HasExplicitHeader {
		t.Fatal("level-2 heading must not count as an explicit header")
	}
	if pc.Chapter.FirstSectionID != "part-one" {
		t.Fatalf("first section id = %q", pc.Chapter.FirstSectionID)
	}
}

func TestBuildChapterCollectsFootnotes(t *testing.T) {
	src := "# Notes\n\nA claim.[^1]\n\n[^1]: The supporting note.\n"
	pc := testEngineChapter(t, src)

	if len(pc.Chapter.Footnotes) != 1 {
		t.Fatalf("expected one footnote, got %d", len(pc.Chapter.Footnotes))
	}
	if pc.Chapter.Footnotes[0].Index != 1 {
		t.Fatalf("footnote index = %d", pc.Chapter.Footnotes[0].Index)
	}
}

func TestParseFrontMatterWithoutBlock(t *testing.T) {
	meta, body, err := ParseFrontMatter([]byte("# Plain\n\nNo front matter.\n"))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if meta.ID != "" || meta.Title != "" {
		t.Fatalf("expected zero meta, got %+v", meta)
	}
	if len(body) == 0 {
		t.Fatal("body must be preserved")
	}
}

func TestLoadDirectoryOrdersByFrontMatterThenName(t *testing.T) {
	fsys := fstest.MapFS{
		"b.md": {Data: []byte("---\norder: 1\n---\n# Second File First\n")},
		"a.md": {Data: []byte("---\norder: 2\n---\n# First File Second\n")},
		"d.md": {Data: []byte("# No Order Either\n")},
		"c.md": {Data: []byte("# No Order\n")},
	}

	loader := NewLoader(fsys, interfaces.ParseOptions{}, LoaderConfig{}, nil)
	parsed, err := loader.LoadDirectory(context.Background(), ".")
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(parsed) != 4 {
		t.Fatalf("expected 4 chapters, got %d", len(parsed))
	}

	var got []string
	for _, pc := range parsed {
		got = append(got, pc.Chapter.SourcePath)
	}
	// Ordered chapters lead in order value; unordered chapters follow in
	// file-name order.
	want := []string{"b.md", "a.md", "c.md", "d.md"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("spine order = %v, want %v", got, want)
		}
	}
}

func TestBuildChapterExplicitZeroOrderLeadsUnordered(t *testing.T) {
	zero := testEngineChapter(t, "---\norder: 0\n---\n# Zero\n")
	none := testEngineChapter(t, "# None\n")

	if zero.Order >= none.Order {
		t.Fatalf("explicit order 0 (%d) must rank before no order (%d)", zero.Order, none.Order)
	}
}

func TestLoadDirectoryHonoursPattern(t *testing.T) {
	fsys := fstest.MapFS{
		"one.md":       {Data: []byte("# One\n")},
		"notes.txt":    {Data: []byte("ignored")},
		"sub/two.md":   {Data: []byte("# Two\n")},
		"sub/deep.txt": {Data: []byte("ignored")},
	}

	flat := NewLoader(fsys, interfaces.ParseOptions{}, LoaderConfig{}, nil)
	parsed, err := flat.LoadDirectory(context.Background(), ".")
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(parsed) != 1 {
		t.Fatalf("non-recursive load should find 1 chapter, got %d", len(parsed))
	}

	recursive := NewLoader(fsys, interfaces.ParseOptions{}, LoaderConfig{Recursive: true}, nil)
	parsed, err = recursive.LoadDirectory(context.Background(), ".")
	if err != nil {
		t.Fatalf("LoadDirectory recursive: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("recursive load should find 2 chapters, got %d", len(parsed))
	}
}
