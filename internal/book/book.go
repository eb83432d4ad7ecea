// Package book holds the in-memory data model shared by every build phase:
// chapters, the spine, reference tokens, and build diagnostics. Values in
// this package live for exactly one build invocation.
package book

import "strings"

// SymbolTarget is a resolvable target inside a chapter's local symbol table.
// Text is the display text used when the author supplies none; Anchor is the
// stable anchor name the target carries inside the rendered chapter file.
type SymbolTarget struct {
	Text   string
	Anchor string
}

// Footnote is one footnote definition collected while parsing a chapter.
type Footnote struct {
	Index int
	Text  string
}

// Chapter is one independently parsed document unit. ID and LocalSymbols are
// fixed before rendering begins and must not change afterwards.
type Chapter struct {
	// ID is the globally unique chapter identifier. Assigned once during
	// the identify phase, immutable thereafter.
	ID string

	// ExplicitID carries an author-declared identifier from front matter,
	// empty when the chapter declares none.
	ExplicitID string

	// Title is the raw chapter title, possibly containing inline markup
	// and character references. PlainTitle is the markup-stripped form used
	// for navigation labels.
	Title      string
	PlainTitle string

	// HasExplicitHeader reports whether the source declared a top-level
	// heading. FirstSectionID is the identifier of the first structural
	// section, used as an id fallback for header-less chapters.
	HasExplicitHeader bool
	FirstSectionID    string

	// LocalSymbols maps local reference names to resolvable targets.
	LocalSymbols map[string]SymbolTarget

	// TitleFallbacks is the plain identifier-to-text fallback map consulted
	// when an inter-chapter reference names a fragment absent from
	// LocalSymbols.
	TitleFallbacks map[string]string

	// Footnotes holds the chapter's footnote definitions in source order.
	Footnotes []Footnote

	// Source is the chapter's Markdown body (front matter removed).
	Source []byte

	// SourcePath is the originating file path, kept for diagnostics.
	SourcePath string

	// FileName is the content document name the chapter receives inside
	// the container (e.g. "text/intro.xhtml").
	FileName string
}

// Symbol returns the named local symbol and whether it exists.
func (c *Chapter) Symbol(name string) (SymbolTarget, bool) {
	if c == nil || c.LocalSymbols == nil {
		return SymbolTarget{}, false
	}
	target, ok := c.LocalSymbols[name]
	return target, ok
}

// Spine is the ordered sequence of chapters defining book order. It is also
// the canonical iteration order for every dedup decision; it must not be
// mutated once identifiers are assigned.
type Spine struct {
	chapters []*Chapter
	byID     map[string]*Chapter
}

// NewSpine builds a spine from chapters in reading order. Nil entries are
// skipped.
func NewSpine(chapters []*Chapter) *Spine {
	s := &Spine{
		chapters: make([]*Chapter, 0, len(chapters)),
		byID:     make(map[string]*Chapter, len(chapters)),
	}
	for _, ch := range chapters {
		if ch == nil {
			continue
		}
		s.chapters = append(s.chapters, ch)
	}
	s.Reindex()
	return s
}

// Reindex rebuilds the id lookup. Call after identifier assignment; the
// first chapter claiming an id wins the lookup slot.
func (s *Spine) Reindex() {
	s.byID = make(map[string]*Chapter, len(s.chapters))
	for _, ch := range s.chapters {
		if ch.ID == "" {
			continue
		}
		if _, exists := s.byID[ch.ID]; !exists {
			s.byID[ch.ID] = ch
		}
	}
}

// Chapters returns the chapters in spine order. The returned slice must be
// treated as read-only.
func (s *Spine) Chapters() []*Chapter {
	if s == nil {
		return nil
	}
	return s.chapters
}

// Len reports the number of spine items.
func (s *Spine) Len() int {
	if s == nil {
		return 0
	}
	return len(s.chapters)
}

// ByID returns the chapter holding the given identifier, or nil.
func (s *Spine) ByID(id string) *Chapter {
	if s == nil || id == "" {
		return nil
	}
	return s.byID[strings.TrimSpace(id)]
}

// ReferenceToken is a resolution request produced while rendering a chapter.
// Tokens are consumed immediately by the resolver and never persisted.
type ReferenceToken struct {
	// RawTarget is the reference exactly as the author wrote it.
	RawTarget string

	// ChapterID names the target chapter for inter-chapter references;
	// empty for chapter-local references.
	ChapterID string

	// FragmentID addresses a fragment within the target chapter; empty for
	// whole-chapter references.
	FragmentID string

	// AuthorText is optional author-supplied display text. When present it
	// always wins over looked-up text.
	AuthorText string

	// Bib marks a bibliographic citation ("bib:key"). Bibliography anchors
	// are book-global rather than chapter-scoped.
	Bib bool
}

// ParseReferenceToken splits a raw reference target into its addressing
// parts. Supported shapes: "target" (local), "chapter#fragment", and the
// whole-chapter shorthand "chapter#", which expands to the chapter's root
// symbol.
func ParseReferenceToken(raw, authorText string, interChapter bool) ReferenceToken {
	tok := ReferenceToken{RawTarget: raw, AuthorText: authorText}
	if !interChapter {
		return tok
	}
	chapter, fragment, found := strings.Cut(raw, "#")
	tok.ChapterID = chapter
	if found && fragment != "" {
		tok.FragmentID = fragment
	} else {
		// Whole-chapter shorthand expands to the chapter's root symbol.
		tok.FragmentID = chapter
	}
	return tok
}
