package render

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-bookbinder/internal/book"
	"github.com/goliatone/go-bookbinder/internal/xref"
)

var (
	placeholderPattern = regexp.MustCompile(`<a href="bbxref://(\d+)">((?s).*?)</a>`)
	anchorIDPattern    = regexp.MustCompile(` id="([^"]+)"`)
	footnoteIDPattern  = regexp.MustCompile(`(id|href)="(#?)(fn|fnref):`)
)

// linkChapter is the serialized half of the render phase. It substitutes
// resolved references for placeholders, routes footnote anchors through the
// resolver, and enforces anchor-id uniqueness within the chapter document.
// It must be called in spine order because every dedup decision consults the
// shared tracker.
func linkChapter(
	rendered []byte,
	tokens []book.ReferenceToken,
	ch *book.Chapter,
	resolver *xref.Resolver,
) ([]byte, []book.Diagnostic) {
	var diags []book.Diagnostic

	out := placeholderPattern.ReplaceAllFunc(rendered, func(match []byte) []byte {
		groups := placeholderPattern.FindSubmatch(match)
		idx, err := strconv.Atoi(string(groups[1]))
		if err != nil || idx < 0 || idx >= len(tokens) {
			return match
		}
		tok := tokens[idx]

		var res xref.Resolution
		if tok.Bib {
			res = resolver.ResolveBibRef(ch, tok.RawTarget)
		} else {
			res = resolver.Resolve(tok, ch)
		}
		diags = append(diags, res.Diagnostics...)

		if !res.Resolved {
			return []byte(html.EscapeString(res.Text))
		}

		inner := string(groups[2])
		if tok.ChapterID != "" || inner == "" {
			// Inter-chapter display text follows the symbol-table lookup
			// chain; empty local link text takes the looked-up text too.
			inner = html.EscapeString(res.Text)
		}

		if res.AnchorID != "" {
			return []byte(fmt.Sprintf(`<a id="%s" href="%s">%s</a>`, res.AnchorID, res.Href, inner))
		}
		return []byte(fmt.Sprintf(`<a href="%s">%s</a>`, res.Href, inner))
	})

	out = linkFootnotes(out, ch, resolver)
	out = dedupeAnchorIDs(out)

	return out, diags
}

// linkFootnotes rewrites the footnote anchors the Markdown renderer emits
// ("fn:1", "fnref:1") into the chapter-qualified names the resolver issues.
// Every chapter numbers footnotes from one, so unqualified ids would collide
// in the merged book.
func linkFootnotes(rendered []byte, ch *book.Chapter, resolver *xref.Resolver) []byte {
	if ch.ID == "" {
		return rendered
	}

	for _, fn := range ch.Footnotes {
		res := resolver.ResolveFootnoteRef(ch, fn.Index)
		n := strconv.Itoa(fn.Index)
		backref := res.AnchorID
		if backref == "" {
			backref = "fnref--" + ch.ID + "--" + n
		}
		rendered = bytes.ReplaceAll(rendered,
			[]byte(`id="fnref:`+n+`"`), []byte(`id="`+backref+`"`))
		rendered = bytes.ReplaceAll(rendered,
			[]byte(`href="#fn:`+n+`"`), []byte(`href="`+res.Href+`"`))
		rendered = bytes.ReplaceAll(rendered,
			[]byte(`id="fn:`+n+`"`), []byte(`id="fn--`+ch.ID+`--`+n+`"`))
		rendered = bytes.ReplaceAll(rendered,
			[]byte(`href="#fnref:`+n+`"`), []byte(`href="#`+backref+`"`))
	}

	// Repeated references to one footnote carry suffixed names ("fnref:1:2");
	// qualify whatever the per-footnote pass did not touch.
	return footnoteIDPattern.ReplaceAll(rendered, []byte(`$1="$2$3--`+ch.ID+`--`))
}

// dedupeAnchorIDs enforces id uniqueness within one content document: the
// first element claiming an anchor id keeps it, later elements in the same
// file lose the attribute but keep their place. Chapters land in separate
// XHTML files, so an id repeated across chapters stays intact; resolver-issued
// anchors are already unique book-wide through the tracker.
func dedupeAnchorIDs(rendered []byte) []byte {
	seen := map[string]struct{}{}
	return anchorIDPattern.ReplaceAllFunc(rendered, func(match []byte) []byte {
		groups := anchorIDPattern.FindSubmatch(match)
		id := string(groups[1])
		if _, dup := seen[id]; dup {
			return nil
		}
		seen[id] = struct{}{}
		return match
	})
}

// chapterShell wraps a rendered body in the XHTML document the container
// format requires. The title is the chapter's markup-stripped display title.
func chapterShell(title string, body []byte) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	b.WriteString(`<!DOCTYPE html>` + "\n")
	b.WriteString(`<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">` + "\n")
	b.WriteString("<head><title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title></head>\n<body>\n")
	b.Write(body)
	b.WriteString("</body>\n</html>\n")
	return []byte(b.String())
}
