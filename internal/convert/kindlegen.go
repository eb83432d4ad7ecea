// Package convert shells out to kindlegen to produce a KF8 artifact from a
// finished EPUB. The tool is orchestrated, never reimplemented.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-bookbinder/internal/book"
	"github.com/goliatone/go-bookbinder/internal/logging"
	"github.com/goliatone/go-bookbinder/pkg/interfaces"
)

const defaultTool = "kindlegen"

var (
	ErrConverterNotFound = errors.New("convert: converter executable not found")
	ErrConverterFailed   = errors.New("convert: converter reported failure")
)

// Converter runs the external EPUB to KF8 conversion tool.
type Converter struct {
	// Path overrides executable discovery; empty means look up the
	// default tool on PATH.
	Path   string
	logger interfaces.Logger
}

func NewConverter(path string, provider interfaces.LoggerProvider) *Converter {
	return &Converter{
		Path:   path,
		logger: logging.PackagingLogger(provider),
	}
}

// Convert produces the KF8 artifact beside epubPath and returns the output
// path kindlegen writes. Exit status 1 signals a warning-level completion
// and is treated as success with a diagnostic.
func (c *Converter) Convert(ctx context.Context, epubPath string) (string, []book.Diagnostic, error) {
	tool := c.Path
	if tool == "" {
		found, err := exec.LookPath(defaultTool)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %s", ErrConverterNotFound, defaultTool)
		}
		tool = found
	}

	outName := strings.TrimSuffix(filepath.Base(epubPath), filepath.Ext(epubPath)) + ".mobi"

	cmd := exec.CommandContext(ctx, tool, epubPath, "-o", outName)
	cmd.Dir = filepath.Dir(epubPath)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	c.logger.Debug("running converter", "tool", tool, "input", epubPath)
	err := cmd.Run()
	outPath := filepath.Join(filepath.Dir(epubPath), outName)

	if err == nil {
		return outPath, nil, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		// kindlegen exits 1 when it built the book with warnings.
		d := book.Warnf("convert", "", "", "converter finished with warnings: %s", condense(output.String()))
		return outPath, []book.Diagnostic{d}, nil
	}

	return "", nil, fmt.Errorf("%w: %v: %s", ErrConverterFailed, err, condense(output.String()))
}

// condense collapses tool output to a single line so it fits a log field.
func condense(s string) string {
	fields := strings.Fields(s)
	const limit = 60
	if len(fields) > limit {
		fields = append(fields[:limit], "...")
	}
	return strings.Join(fields, " ")
}
