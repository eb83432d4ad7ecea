package render

import (
	"path"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"

	"github.com/goliatone/go-bookbinder/internal/assets"
	"github.com/goliatone/go-bookbinder/internal/book"
)

// xrefScheme marks link destinations that are reference tokens rather than
// ordinary URLs: "xref:target" for chapter-local references and
// "xref:chapter#fragment" (or "xref:chapter#" for the whole-chapter
// shorthand) for inter-chapter references.
const xrefScheme = "xref:"

// bibScheme marks bibliographic citations: "bib:key" links to the book-global
// bibliography anchor for the key.
const bibScheme = "bib:"

// placeholderScheme replaces reference destinations during rendering so the
// serialized link pass can substitute resolved anchors afterwards. The
// numeric suffix indexes into the chapter's token list.
const placeholderScheme = "bbxref://"

// imageDirName is the directory collected assets live under inside the
// container, relative to the content root.
const imageDirName = "images"

// transformTree rewrites reference links to placeholders and image
// destinations to container-relative paths, collecting reference tokens and
// asset registrations as it goes. It runs per chapter inside a render
// worker; nothing here touches shared state.
func transformTree(doc ast.Node, source []byte, ch *book.Chapter, buf *assets.Buffer) []book.ReferenceToken {
	var tokens []book.ReferenceToken

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Link:
			dest := string(node.Destination)
			authorText := strings.TrimSpace(string(node.Text(source)))

			var tok book.ReferenceToken
			switch {
			case strings.HasPrefix(dest, xrefScheme):
				raw := strings.TrimPrefix(dest, xrefScheme)
				tok = book.ParseReferenceToken(raw, authorText, strings.Contains(raw, "#"))
			case strings.HasPrefix(dest, bibScheme):
				tok = book.ReferenceToken{
					RawTarget:  strings.TrimPrefix(dest, bibScheme),
					AuthorText: authorText,
					Bib:        true,
				}
			default:
				return ast.WalkContinue, nil
			}

			node.Destination = []byte(placeholderScheme + strconv.Itoa(len(tokens)))
			tokens = append(tokens, tok)

		case *ast.Image:
			dest := string(node.Destination)
			if dest == "" || isRemote(dest) {
				return ast.WalkContinue, nil
			}
			logical := path.Join(imageDirName, path.Base(dest))
			physical := resolvePhysical(ch.SourcePath, dest)
			buf.Register(logical, physical)
			// Chapter documents live one level below the content root.
			node.Destination = []byte("../" + logical)
		}

		return ast.WalkContinue, nil
	})

	return tokens
}

func isRemote(dest string) bool {
	return strings.HasPrefix(dest, "http://") ||
		strings.HasPrefix(dest, "https://") ||
		strings.HasPrefix(dest, "data:")
}

// resolvePhysical resolves an image reference against the chapter's source
// directory. Absolute paths pass through untouched.
func resolvePhysical(sourcePath, dest string) string {
	if path.IsAbs(dest) {
		return dest
	}
	return path.Join(path.Dir(sourcePath), dest)
}
