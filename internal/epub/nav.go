package epub

import (
	"html"
	"strconv"
	"strings"
)

// navEntry is one table-of-contents row, in spine order.
type navEntry struct {
	Title string
	Href  string
}

// buildNavDoc renders the EPUB 3 navigation document.
func buildNavDoc(bookTitle string, entries []navEntry) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<!DOCTYPE html>` + "\n")
	b.WriteString(`<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">` + "\n")
	b.WriteString("<head>\n  <title>")
	b.WriteString(html.EscapeString(bookTitle))
	b.WriteString("</title>\n</head>\n<body>\n")
	b.WriteString(`  <nav epub:type="toc" id="toc">` + "\n")
	b.WriteString("    <h1>")
	b.WriteString(html.EscapeString(bookTitle))
	b.WriteString("</h1>\n    <ol>\n")
	for _, e := range entries {
		b.WriteString(`      <li><a href="`)
		b.WriteString(html.EscapeString(e.Href))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(e.Title))
		b.WriteString("</a></li>\n")
	}
	b.WriteString("    </ol>\n  </nav>\n</body>\n</html>\n")
	return []byte(b.String())
}

// buildNCX renders the legacy NCX table of contents carried for older
// reading systems and for the conversion tool.
func buildNCX(identifier, bookTitle string, entries []navEntry) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">` + "\n")
	b.WriteString("  <head>\n")
	b.WriteString(`    <meta name="dtb:uid" content="`)
	b.WriteString(html.EscapeString(identifier))
	b.WriteString("\"/>\n")
	b.WriteString(`    <meta name="dtb:depth" content="1"/>` + "\n")
	b.WriteString("  </head>\n  <docTitle><text>")
	b.WriteString(html.EscapeString(bookTitle))
	b.WriteString("</text></docTitle>\n  <navMap>\n")
	for i, e := range entries {
		order := strconv.Itoa(i + 1)
		b.WriteString(`    <navPoint id="navpoint-` + order + `" playOrder="` + order + `">` + "\n")
		b.WriteString("      <navLabel><text>")
		b.WriteString(html.EscapeString(e.Title))
		b.WriteString("</text></navLabel>\n")
		b.WriteString(`      <content src="`)
		b.WriteString(html.EscapeString(e.Href))
		b.WriteString("\"/>\n    </navPoint>\n")
	}
	b.WriteString("  </navMap>\n</ncx>\n")
	return []byte(b.String())
}
