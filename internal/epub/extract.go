package epub

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxExtractedFileSize caps a single decompressed entry so a hostile or
// corrupted archive cannot exhaust the disk during inspection.
const maxExtractedFileSize = 256 << 20

var ErrUnsafeEntryPath = errors.New("epub: archive entry escapes destination")

// Extract unpacks a finished container next to the artifact for manual
// inspection. Entry paths are confined to destDir.
func Extract(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("epub: open %s: %w", archivePath, err)
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("epub: extract dir %s: %w", destDir, err)
	}

	for _, f := range r.File {
		target, err := safeJoin(destDir, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("epub: extract %s: %w", f.Name, err)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if f.UncompressedSize64 > maxExtractedFileSize {
		return fmt.Errorf("epub: entry %s exceeds extraction size limit", f.Name)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("epub: extract %s: %w", f.Name, err)
	}

	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("epub: extract %s: %w", f.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("epub: extract %s: %w", f.Name, err)
	}
	defer dst.Close()

	// LimitReader guards against entries whose header lies about size.
	if _, err := io.Copy(dst, io.LimitReader(src, maxExtractedFileSize+1)); err != nil {
		return fmt.Errorf("epub: extract %s: %w", f.Name, err)
	}
	return dst.Close()
}

func safeJoin(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(name))
	rel, err := filepath.Rel(destDir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafeEntryPath, name)
	}
	return target, nil
}
