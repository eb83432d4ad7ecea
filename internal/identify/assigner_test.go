package identify

import (
	"strings"
	"testing"

	"github.com/goliatone/go-bookbinder/internal/book"
)

func newTestAssigner() *Assigner {
	return NewAssigner(DefaultPrefix, DefaultSeparator, nil)
}

func TestAssignDerivesFromTitle(t *testing.T) {
	cases := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Introduction", "_introduction"},
		{"spaces collapse", "Getting   Started", "_getting_started"},
		{"ampersand reads as and", "Chapter &amp; Verse", "_chapter_and_verse"},
		{"literal ampersand", "Odds & Ends", "_odds_and_ends"},
		{"apostrophe entity dropped", "Reader&#8217;s Guide", "_readers_guide"},
		{"literal curly apostrophe dropped", "Reader’s Guide", "_readers_guide"},
		{"inline markup stripped", "The <em>Real</em> Story", "_the_real_story"},
		{"punctuation collapses", "What? Me, Worry!", "_what_me_worry"},
		{"unicode letters survive", "Mañana y después", "_mañana_y_después"},
		{"leading separator trimmed", "--- Interlude ---", "_interlude"},
	}

	a := newTestAssigner()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ch := &book.Chapter{Title: tc.title, HasExplicitHeader: true}
			got, diags := a.Assign(ch)
			if got != tc.want {
				t.Fatalf("Assign(%q) = %q, want %q", tc.title, got, tc.want)
			}
			if len(diags) != 0 {
				t.Fatalf("Assign(%q) raised diagnostics %v", tc.title, diags)
			}
		})
	}
}

func TestAssignIsDeterministic(t *testing.T) {
	a := newTestAssigner()
	first, _ := a.Assign(&book.Chapter{Title: "Stable Output", HasExplicitHeader: true})
	second, _ := a.Assign(&book.Chapter{Title: "Stable Output", HasExplicitHeader: true})
	if first != second {
		t.Fatalf("same title produced %q and %q", first, second)
	}
}

func TestAssignExplicitIDWinsVerbatim(t *testing.T) {
	a := newTestAssigner()
	ch := &book.Chapter{ExplicitID: "my-chapter", Title: "Ignored", HasExplicitHeader: true}
	got, _ := a.Assign(ch)
	if got != "my-chapter" {
		t.Fatalf("explicit id not honoured, got %q", got)
	}
}

func TestAssignExplicitNonSlugWarns(t *testing.T) {
	a := newTestAssigner()
	ch := &book.Chapter{ExplicitID: "My Chapter!", HasExplicitHeader: true}
	got, diags := a.Assign(ch)
	if got != "My Chapter!" {
		t.Fatalf("explicit id must pass through verbatim, got %q", got)
	}
	if len(diags) != 1 || diags[0].Severity != book.SeverityWarning {
		t.Fatalf("expected one warning, got %v", diags)
	}
}

func TestAssignHeaderlessChapterUsesFirstSection(t *testing.T) {
	a := newTestAssigner()
	ch := &book.Chapter{FirstSectionID: "part-one"}
	got, _ := a.Assign(ch)
	if got != "part-one" {
		t.Fatalf("expected first section id, got %q", got)
	}
}

func TestAssignSynthesizesForAnonymousChapters(t *testing.T) {
	a := newTestAssigner()
	ch := &book.Chapter{}
	got, _ := a.Assign(ch)
	if !strings.HasPrefix(got, "_anon_") {
		t.Fatalf("expected synthesized anonymous id, got %q", got)
	}
	if len(got) != len("_anon_")+12 {
		t.Fatalf("expected 12-char token, got %q", got)
	}

	other, _ := a.Assign(&book.Chapter{})
	if got == other {
		t.Fatalf("two anonymous chapters share id %q", got)
	}
}

func TestAssignDegenerateTitleSynthesizes(t *testing.T) {
	a := newTestAssigner()
	ch := &book.Chapter{Title: "!!!", HasExplicitHeader: true}
	got, _ := a.Assign(ch)
	if !strings.HasPrefix(got, "_anon_") {
		t.Fatalf("degenerate title should synthesize, got %q", got)
	}
}

func TestAssignReservedIdentifierWarns(t *testing.T) {
	a := newTestAssigner()
	ch := &book.Chapter{ExplicitID: "nav"}
	got, diags := a.Assign(ch)
	if got != "nav" {
		t.Fatalf("reserved id must be kept, got %q", got)
	}
	found := false
	for _, d := range diags {
		if d.Severity == book.SeverityWarning && strings.Contains(d.Message, "reserved") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected reserved-identifier warning, got %v", diags)
	}
}

func TestAssignDigitLeadingTitleWithoutPrefix(t *testing.T) {
	a := NewAssigner("", "_", nil)
	ch := &book.Chapter{Title: "1984 Revisited", HasExplicitHeader: true}
	got, _ := a.Assign(ch)
	if got != "_1984_revisited" {
		t.Fatalf("digit-leading id must gain underscore, got %q", got)
	}
}

func TestAssignAllSuffixesCollisionsInSpineOrder(t *testing.T) {
	a := newTestAssigner()
	chapters := []*book.Chapter{
		{Title: "Recap", HasExplicitHeader: true, SourcePath: "a.md"},
		{Title: "Recap", HasExplicitHeader: true, SourcePath: "b.md"},
		{Title: "Recap", HasExplicitHeader: true, SourcePath: "c.md"},
	}

	diags := a.AssignAll(chapters)

	if chapters[0].ID != "_recap" {
		t.Fatalf("first chapter should keep derived id, got %q", chapters[0].ID)
	}
	if chapters[1].ID != "_recap_2" {
		t.Fatalf("second chapter should get first suffix, got %q", chapters[1].ID)
	}
	if chapters[2].ID != "_recap_3" {
		t.Fatalf("third chapter should get next suffix, got %q", chapters[2].ID)
	}

	warnings := 0
	for _, d := range diags {
		if d.Severity == book.SeverityWarning {
			warnings++
		}
	}
	if warnings != 2 {
		t.Fatalf("expected 2 collision warnings, got %d: %v", warnings, diags)
	}
}

func TestAssignCustomPrefixAndSeparator(t *testing.T) {
	a := NewAssigner("ch-", "-", nil)
	ch := &book.Chapter{Title: "Final Thoughts", HasExplicitHeader: true}
	got, _ := a.Assign(ch)
	if got != "ch-final-thoughts" {
		t.Fatalf("custom prefix/separator not applied, got %q", got)
	}
}
