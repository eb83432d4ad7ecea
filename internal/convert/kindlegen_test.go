package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestConvertMissingToolFails(t *testing.T) {
	c := NewConverter(filepath.Join(t.TempDir(), "no-such-binary"), nil)

	_, _, err := c.Convert(context.Background(), filepath.Join(t.TempDir(), "book.epub"))
	if err == nil {
		t.Fatal("expected error for unreachable converter")
	}
	if !errors.Is(err, ErrConverterFailed) {
		t.Fatalf("expected ErrConverterFailed, got %v", err)
	}
}

func writeFakeTool(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tool fixture requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-kindlegen")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write fake tool: %v", err)
	}
	return path
}

func TestConvertSuccessReportsOutputPath(t *testing.T) {
	tool := writeFakeTool(t, "exit 0\n")
	c := NewConverter(tool, nil)

	dir := t.TempDir()
	epub := filepath.Join(dir, "book.epub")
	if err := os.WriteFile(epub, []byte("stub"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	out, diags, err := c.Convert(context.Background(), epub)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics %v", diags)
	}
	if out != filepath.Join(dir, "book.mobi") {
		t.Fatalf("output path = %q", out)
	}
}

func TestConvertExitOneIsWarningSuccess(t *testing.T) {
	tool := writeFakeTool(t, "echo 'Warning: something minor'\nexit 1\n")
	c := NewConverter(tool, nil)

	dir := t.TempDir()
	epub := filepath.Join(dir, "book.epub")
	if err := os.WriteFile(epub, []byte("stub"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	out, diags, err := c.Convert(context.Background(), epub)
	if err != nil {
		t.Fatalf("exit status 1 must be warning-success: %v", err)
	}
	if out == "" {
		t.Fatal("output path must be reported")
	}
	if len(diags) != 1 || !strings.Contains(diags[0].Message, "warnings") {
		t.Fatalf("expected warning diagnostic, got %v", diags)
	}
}

func TestConvertHardFailure(t *testing.T) {
	tool := writeFakeTool(t, "echo 'Error: broken input' >&2\nexit 2\n")
	c := NewConverter(tool, nil)

	epub := filepath.Join(t.TempDir(), "book.epub")
	if err := os.WriteFile(epub, []byte("stub"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, _, err := c.Convert(context.Background(), epub)
	if !errors.Is(err, ErrConverterFailed) {
		t.Fatalf("expected ErrConverterFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "broken input") {
		t.Fatalf("tool output must be captured: %v", err)
	}
}

func TestCondenseCollapsesWhitespace(t *testing.T) {
	got := condense("line one\nline   two\n")
	if got != "line one line two" {
		t.Fatalf("condense = %q", got)
	}
}
