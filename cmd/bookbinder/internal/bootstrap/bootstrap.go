package bootstrap

import (
	"fmt"
	"strings"

	bookbinder "github.com/goliatone/go-bookbinder"
	"github.com/goliatone/go-bookbinder/internal/logging/gologger"
	"github.com/goliatone/go-bookbinder/pkg/interfaces"
)

// Options captures configuration for the bookbinder CLI bootstrap.
type Options struct {
	SourceDir     string
	Pattern       string
	Recursive     bool
	Output        string
	Format        string
	Compress      string
	Validate      bool
	Extract       bool
	IDPrefix      string
	IDSeparator   string
	Workers       int
	ConverterPath string
	ValidatorPath string
	Title         string
	Author        string
	Language      string
	LogLevel      string
	LogFormat     string
}

// BuildConfig folds CLI options over the stock configuration.
func BuildConfig(opts Options) bookbinder.Config {
	cfg := bookbinder.DefaultConfig()

	if dir := strings.TrimSpace(opts.SourceDir); dir != "" {
		cfg.SourceDir = dir
	}
	if pattern := strings.TrimSpace(opts.Pattern); pattern != "" {
		cfg.Pattern = pattern
	}
	cfg.Recursive = opts.Recursive
	if out := strings.TrimSpace(opts.Output); out != "" {
		cfg.OutputTarget = out
	}
	if format := strings.TrimSpace(opts.Format); format != "" {
		cfg.Format = format
	}
	if compress := strings.TrimSpace(opts.Compress); compress != "" {
		cfg.Compress = compress
	}
	cfg.CheckArtifact = opts.Validate
	cfg.Extract = opts.Extract
	if opts.IDPrefix != "" {
		cfg.IDPrefix = opts.IDPrefix
	}
	if opts.IDSeparator != "" {
		cfg.IDSeparator = opts.IDSeparator
	}
	if opts.Workers > 0 {
		cfg.Workers = opts.Workers
	}
	cfg.ConverterPath = strings.TrimSpace(opts.ConverterPath)
	cfg.ValidatorPath = strings.TrimSpace(opts.ValidatorPath)

	if title := strings.TrimSpace(opts.Title); title != "" {
		cfg.Metadata.Title = title
	}
	if author := strings.TrimSpace(opts.Author); author != "" {
		cfg.Metadata.Author = author
	}
	if lang := strings.TrimSpace(opts.Language); lang != "" {
		cfg.Metadata.Language = lang
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if format := strings.TrimSpace(opts.LogFormat); format != "" {
		cfg.Logging.Format = format
	}
	return cfg
}

// BuildProvider constructs the logger provider the CLI hands to the binder.
func BuildProvider(cfg bookbinder.Config) (interfaces.LoggerProvider, error) {
	provider, err := gologger.NewProvider(gologger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Focus:  splitFocus(cfg.Logging.Focus),
	})
	if err != nil {
		return nil, fmt.Errorf("initialise logger provider: %w", err)
	}
	return provider, nil
}

// splitFocus parses a comma separated module list into a trimmed slice.
func splitFocus(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	focus := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			focus = append(focus, trimmed)
		}
	}
	return focus
}
