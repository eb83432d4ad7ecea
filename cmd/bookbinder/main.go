package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-bookbinder/cmd/bookbinder/internal/bootstrap"
	"github.com/goliatone/go-bookbinder/internal/commands"
	bookbuildcmd "github.com/goliatone/go-bookbinder/internal/commands/bookbuild"
)

func main() {
	if err := runBuild(os.Args[1:]); err != nil {
		log.Fatalf("bookbinder: %v", err)
	}
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("bookbinder", flag.ExitOnError)
	sourceDir := fs.String("source-dir", "chapters", "Path to the markdown chapter root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering chapter files")
	recursive := fs.Bool("recursive", false, "Descend into subdirectories when discovering chapters")
	output := fs.String("output", "book.epub", "Path of the primary artifact")
	format := fs.String("format", "epub3", "Final artifact format: epub3 or kf8")
	compress := fs.String("compress", "default", "Archive compression: default, store, fastest or best")
	validate := fs.Bool("validate", false, "Run the external conformance checker over the artifact")
	extract := fs.Bool("extract", false, "Unpack the finished container beside the artifact")
	idPrefix := fs.String("id-prefix", "", "Prefix applied to derived chapter identifiers")
	idSeparator := fs.String("id-separator", "", "Separator used inside derived chapter identifiers")
	workers := fs.Int("workers", 0, "Render worker count (0 uses the CPU count)")
	converterPath := fs.String("converter", "", "Path to the KF8 conversion tool (defaults to kindlegen on PATH)")
	validatorPath := fs.String("validator", "", "Path to the conformance checker (defaults to epubcheck on PATH)")
	title := fs.String("title", "", "Book title recorded in the package metadata")
	author := fs.String("author", "", "Book author recorded in the package metadata")
	language := fs.String("language", "", "Book language recorded in the package metadata")
	logLevel := fs.String("log-level", "info", "Log level: trace, debug, info, warn or error")
	logFormat := fs.String("log-format", "console", "Log format: console, json or pretty")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := bootstrap.BuildConfig(bootstrap.Options{
		SourceDir:     *sourceDir,
		Pattern:       *pattern,
		Recursive:     *recursive,
		Output:        *output,
		Format:        *format,
		Compress:      *compress,
		Validate:      *validate,
		Extract:       *extract,
		IDPrefix:      *idPrefix,
		IDSeparator:   *idSeparator,
		Workers:       *workers,
		ConverterPath: *converterPath,
		ValidatorPath: *validatorPath,
		Title:         *title,
		Author:        *author,
		Language:      *language,
		LogLevel:      *logLevel,
		LogFormat:     *logFormat,
	})

	provider, err := bootstrap.BuildProvider(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := bookbuildcmd.NewBuildBookHandler(provider, cfg,
		commands.WithTimeout[bookbuildcmd.BuildBookCommand](0),
	)
	cmd := bookbuildcmd.BuildBookCommand{
		SourceDir:     cfg.SourceDir,
		Output:        cfg.OutputTarget,
		Format:        cfg.Format,
		Compress:      cfg.Compress,
		CheckArtifact: cfg.CheckArtifact,
		Extract:       cfg.Extract,
		Title:         cfg.Metadata.Title,
		Author:        cfg.Metadata.Author,
	}
	if err := handler.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("execute build command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "book build command executed successfully")

	return nil
}
