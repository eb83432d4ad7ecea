package markdown

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
)

// ChapterMeta models the metadata a chapter source may declare ahead of its
// body. Id wins over any derived identifier; Order overrides the file-name
// spine ordering when present. Order is a pointer so an absent key can be
// told apart from an explicit zero.
type ChapterMeta struct {
	ID     string         `yaml:"id"`
	Title  string         `yaml:"title"`
	Order  *int           `yaml:"order"`
	Author string         `yaml:"author"`
	Custom map[string]any `yaml:",inline"`
}

// ParseFrontMatter extracts metadata and the Markdown body from the provided
// source bytes. Sources without front matter return a zero ChapterMeta and
// the body unchanged.
func ParseFrontMatter(source []byte) (ChapterMeta, []byte, error) {
	var meta ChapterMeta

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return ChapterMeta{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return meta, body, nil
}
