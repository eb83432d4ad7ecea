// Package xref resolves reference tokens against chapter symbol tables,
// assigning at most one real anchor id per distinct target across the whole
// book. Chapters are parsed independently, so anchor uniqueness in the
// merged output depends entirely on the tracker's first-occurrence rule.
package xref

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-bookbinder/internal/book"
	"github.com/goliatone/go-bookbinder/internal/logging"
	"github.com/goliatone/go-bookbinder/pkg/interfaces"
)

const stageName = "xref"

// Resolution is the outcome of resolving one reference token.
type Resolution struct {
	// Text is the display text for the reference.
	Text string
	// Href is the link target; empty when the reference could not resolve.
	Href string
	// AnchorID is the real anchor id to declare on the element. Empty on
	// every occurrence of a key after the first: later elements keep the
	// working href but must not re-declare the id.
	AnchorID string
	// Resolved reports whether the target was found. Unresolved references
	// carry bracketed fallback text and a warning diagnostic.
	Resolved    bool
	Diagnostics []book.Diagnostic
}

// Resolver resolves reference tokens for one build. It holds the spine
// (lookup + canonical order) and the shared anchor tracker.
type Resolver struct {
	spine   *book.Spine
	tracker *Tracker
	logger  interfaces.Logger
}

// NewResolver builds a resolver over the given spine and tracker.
func NewResolver(spine *book.Spine, tracker *Tracker, provider interfaces.LoggerProvider) *Resolver {
	if tracker == nil {
		tracker = NewTracker()
	}
	return &Resolver{
		spine:   spine,
		tracker: tracker,
		logger:  logging.XRefLogger(provider),
	}
}

// Tracker exposes the resolver's anchor tracker.
func (r *Resolver) Tracker() *Tracker { return r.tracker }

// Resolve dispatches on the token shape: chapter-local when no explicit
// chapter id is present, inter-chapter otherwise.
func (r *Resolver) Resolve(tok book.ReferenceToken, current *book.Chapter) Resolution {
	if tok.ChapterID == "" {
		return r.resolveLocal(tok, current)
	}
	return r.resolveInterChapter(tok, current)
}

func (r *Resolver) resolveLocal(tok book.ReferenceToken, current *book.Chapter) Resolution {
	target := strings.TrimSpace(tok.RawTarget)
	sym, ok := current.Symbol(target)
	if !ok {
		r.logger.Warn("unknown anchor", "chapter", current.ID, "target", target)
		return fallback(current.ID, target)
	}

	text := sym.Text
	if tok.AuthorText != "" {
		// Author-supplied text always wins for local references.
		text = tok.AuthorText
	}

	res := Resolution{
		Text:     text,
		Href:     "#" + sym.Anchor,
		Resolved: true,
	}
	if r.tracker.Claim(current.ID + "#" + target) {
		res.AnchorID = "xref-" + target
	}
	return res
}

func (r *Resolver) resolveInterChapter(tok book.ReferenceToken, current *book.Chapter) Resolution {
	chapterID := strings.TrimSpace(tok.ChapterID)
	fragment := strings.TrimSpace(tok.FragmentID)
	if fragment == "" {
		// Whole-chapter shorthand expands to the chapter's root symbol.
		fragment = chapterID
	}

	target := r.spine.ByID(chapterID)
	if target == nil {
		r.logger.Warn("unknown chapter", "chapter", current.ID, "target", chapterID)
		return fallback(current.ID, chapterID)
	}

	if fragment == chapterID {
		// Reference to the chapter's root: collapse the visible link
		// target to just the chapter and drop the fragment suffix.
		res := Resolution{
			Text:     r.displayText(target, fragment, tok.AuthorText),
			Href:     target.FileName,
			Resolved: true,
		}
		if r.tracker.Claim(chapterID) {
			res.AnchorID = "xref--" + chapterID
		}
		return res
	}

	sym, known := target.Symbol(fragment)
	if !known {
		if _, hasFallback := target.TitleFallbacks[fragment]; !hasFallback {
			r.logger.Warn("unknown fragment", "chapter", current.ID, "target", chapterID+"#"+fragment)
			return fallback(current.ID, fragment)
		}
		sym = book.SymbolTarget{Anchor: fragment}
	}

	res := Resolution{
		Text:     r.displayText(target, fragment, tok.AuthorText),
		Href:     target.FileName + "#" + sym.Anchor,
		Resolved: true,
	}
	if r.tracker.Claim(chapterID + "#" + fragment) {
		res.AnchorID = "xref--" + chapterID + "--" + fragment
	}
	return res
}

// displayText applies the inter-chapter lookup order: the target chapter's
// local symbol table, then its plain identifier fallback map, then
// author-supplied text, then the raw fragment literal.
func (r *Resolver) displayText(target *book.Chapter, fragment, authorText string) string {
	if sym, ok := target.Symbol(fragment); ok && sym.Text != "" {
		return sym.Text
	}
	if text, ok := target.TitleFallbacks[fragment]; ok && text != "" {
		return text
	}
	if authorText != "" {
		return authorText
	}
	return fragment
}

// ResolveFootnoteRef resolves a footnote back-reference inside a chapter.
// Anchor names are chapter-qualified because every chapter numbers its
// footnotes from one.
func (r *Resolver) ResolveFootnoteRef(current *book.Chapter, index int) Resolution {
	n := strconv.Itoa(index)
	res := Resolution{
		Text:     n,
		Href:     "#fn--" + current.ID + "--" + n,
		Resolved: true,
	}
	if r.tracker.Claim(current.ID + "#fnref-" + n) {
		res.AnchorID = "fnref--" + current.ID + "--" + n
	}
	return res
}

// ResolveBibRef resolves a bibliographic reference. Bibliography anchors are
// book-global, so the key is not chapter-qualified.
func (r *Resolver) ResolveBibRef(current *book.Chapter, key string) Resolution {
	key = strings.TrimSpace(key)
	res := Resolution{
		Text:     "[" + key + "]",
		Href:     "#bib-" + key,
		Resolved: true,
	}
	if r.tracker.Claim("bib#" + key + "#" + current.ID) {
		res.AnchorID = "bibref--" + current.ID + "--" + key
	}
	return res
}

// fallback renders the bracketed literal used for unresolved references and
// attaches the warning diagnostic. The raw identifier is used even when the
// author supplied text, so broken references stay visible in the output.
func fallback(chapterID, target string) Resolution {
	return Resolution{
		Text: "[" + target + "]",
		Diagnostics: []book.Diagnostic{
			book.Warnf(stageName, chapterID, target, "unresolved reference %q", target),
		},
	}
}
