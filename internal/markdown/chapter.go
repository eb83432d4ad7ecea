package markdown

import (
	"fmt"
	"math"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-bookbinder/internal/book"
	"github.com/goliatone/go-bookbinder/internal/htmltext"
)

// ParsedChapter couples the chapter data model with its parsed document
// tree. Parsing happens once; the render phase reuses the tree so heading
// ids stay identical between symbol extraction and output.
type ParsedChapter struct {
	Chapter *book.Chapter
	Doc     ast.Node
	// Body is the Markdown source the document tree was parsed from.
	Body []byte
	// Order is the explicit front-matter ordering hint. Chapters without one
	// carry unorderedRank so they sort after every ordered chapter, keeping
	// file-name order among themselves.
	Order int
}

// unorderedRank is the sort rank of chapters that declare no explicit order.
const unorderedRank = math.MaxInt

// BuildChapter parses one chapter source: front matter, document tree, local
// symbol table, and footnotes. The chapter's identifier is left empty; the
// identify phase assigns it.
func BuildChapter(path string, source []byte, engine goldmark.Markdown) (*ParsedChapter, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, fmt.Errorf("markdown chapter %s: %w", path, err)
	}

	doc := engine.Parser().Parse(text.NewReader(body))

	ch := &book.Chapter{
		ExplicitID:     meta.ID,
		Title:          meta.Title,
		SourcePath:     path,
		Source:         body,
		LocalSymbols:   map[string]book.SymbolTarget{},
		TitleFallbacks: map[string]string{},
	}

	collectStructure(ch, doc, body)
	ch.PlainTitle = htmltext.Strip(ch.Title)

	order := unorderedRank
	if meta.Order != nil {
		order = *meta.Order
	}

	return &ParsedChapter{
		Chapter: ch,
		Doc:     doc,
		Body:    body,
		Order:   order,
	}, nil
}

// collectStructure walks the document tree gathering the title, the local
// symbol table (one entry per identified heading), and footnote definitions.
func collectStructure(ch *book.Chapter, doc ast.Node, source []byte) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			id := headingID(node)
			label := string(node.Text(source))

			if node.Level == 1 && !ch.HasExplicitHeader {
				ch.HasExplicitHeader = true
				if ch.Title == "" {
					ch.Title = label
				}
			} else if ch.FirstSectionID == "" {
				ch.FirstSectionID = id
			}

			if id != "" {
				ch.LocalSymbols[id] = book.SymbolTarget{Text: label, Anchor: id}
				ch.TitleFallbacks[id] = label
			}
			return ast.WalkSkipChildren, nil

		case *east.Footnote:
			ch.Footnotes = append(ch.Footnotes, book.Footnote{
				Index: node.Index,
				Text:  string(node.Text(source)),
			})
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})
}

func headingID(node *ast.Heading) string {
	value, ok := node.AttributeString("id")
	if !ok {
		return ""
	}
	switch v := value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	}
	return ""
}
