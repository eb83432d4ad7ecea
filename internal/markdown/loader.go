package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/goliatone/go-bookbinder/internal/logging"
	"github.com/goliatone/go-bookbinder/pkg/interfaces"
)

// LoaderConfig configures how chapter sources are discovered within a base
// directory.
type LoaderConfig struct {
	// Pattern limits discovered files to those matching the supplied glob
	// (defaults to "*.md").
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// Loader turns filesystem paths into parsed chapters.
type Loader struct {
	fs        fs.FS
	engine    goldmark.Markdown
	pattern   string
	recursive bool
	logger    interfaces.Logger
}

// NewLoader constructs a Loader using the provided filesystem, parse
// options, and configuration.
func NewLoader(filesystem fs.FS, opts interfaces.ParseOptions, cfg LoaderConfig, provider interfaces.LoggerProvider) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = "*.md"
	}

	return &Loader{
		fs:        filesystem,
		engine:    NewEngine(opts),
		pattern:   pattern,
		recursive: cfg.Recursive,
		logger:    logging.MarkdownLogger(provider),
	}
}

// LoadFile reads and parses a single chapter source.
func (l *Loader) LoadFile(ctx context.Context, path string) (*ParsedChapter, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	path = filepath.ToSlash(filepath.Clean(path))
	data, err := fs.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("chapter loader read %s: %w", path, err)
	}

	return BuildChapter(path, data, l.engine)
}

// LoadDirectory discovers chapter sources under dir and returns parsed
// chapters in spine order: explicitly ordered chapters first by their
// front-matter order, then unordered chapters in file-name order.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) ([]*ParsedChapter, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	root := filepath.ToSlash(filepath.Clean(dir))
	var paths []string

	walkErr := fs.WalkDir(l.fs, root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != root && !l.recursive {
				return fs.SkipDir
			}
			return nil
		}
		matched, err := filepath.Match(l.pattern, d.Name())
		if err != nil {
			return err
		}
		if matched {
			paths = append(paths, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("chapter loader walk %s: %w", root, walkErr)
	}

	sort.Strings(paths)

	chapters := make([]*ParsedChapter, 0, len(paths))
	for _, path := range paths {
		parsed, err := l.LoadFile(ctx, path)
		if err != nil {
			return nil, err
		}
		chapters = append(chapters, parsed)
		l.logger.Debug("chapter loaded", "path", path, "title", parsed.Chapter.Title)
	}

	// Explicit ordering hints win; unordered chapters rank last, and ties
	// keep file-name order. The sort must be stable so spine order is
	// reproducible across runs.
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].Order < chapters[j].Order
	})

	return chapters, nil
}
