package bookbuildcmd

import (
	"context"

	command "github.com/goliatone/go-command"

	bookbinder "github.com/goliatone/go-bookbinder"
	"github.com/goliatone/go-bookbinder/internal/commands"
	"github.com/goliatone/go-bookbinder/internal/logging"
	"github.com/goliatone/go-bookbinder/pkg/interfaces"
)

const buildOperation = "bookbuild.build_book"

var _ command.Commander[BuildBookCommand] = (*BuildBookHandler)(nil)

// BuildBookHandler orchestrates full builds via the shared command handler
// foundation.
type BuildBookHandler struct {
	inner *commands.Handler[BuildBookCommand]
}

// NewBuildBookHandler creates a handler that runs builds with the supplied
// logger provider. The base config supplies every knob the message does not
// carry; handler options allow callers to tune timeout and telemetry.
func NewBuildBookHandler(provider interfaces.LoggerProvider, base bookbinder.Config, opts ...commands.HandlerOption[BuildBookCommand]) *BuildBookHandler {
	baseLogger := commands.CommandLogger(provider, "bookbuild")

	exec := func(ctx context.Context, msg BuildBookCommand) error {
		cfg := configFrom(base, msg)
		binder, err := bookbinder.New(cfg, provider)
		if err != nil {
			return err
		}

		report, err := binder.Build(ctx)
		if err != nil {
			return err
		}

		fields := map[string]any{
			"chapters":    report.Chapters,
			"diagnostics": len(report.Diagnostics),
		}
		if report.Packaging != nil {
			fields["epub"] = report.Packaging.EPUBPath
			fields["degraded"] = report.Packaging.Degraded
			if report.Packaging.KF8Path != "" {
				fields["kf8"] = report.Packaging.KF8Path
			}
		}
		logging.WithFields(baseLogger, fields).Info("bookbuild.command.build_book.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildBookCommand]{
		commands.WithLogger[BuildBookCommand](baseLogger),
		commands.WithOperation[BuildBookCommand](buildOperation),
		commands.WithMessageFields(func(msg BuildBookCommand) map[string]any {
			fields := map[string]any{
				"source_dir": msg.SourceDir,
			}
			if msg.Output != "" {
				fields["output"] = msg.Output
			}
			if msg.Format != "" {
				fields["format"] = msg.Format
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildBookHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute implements command.Commander.
func (h *BuildBookHandler) Execute(ctx context.Context, msg BuildBookCommand) error {
	return h.inner.Execute(ctx, msg)
}

func configFrom(base bookbinder.Config, msg BuildBookCommand) bookbinder.Config {
	cfg := base
	if cfg.Pattern == "" {
		cfg = bookbinder.DefaultConfig()
	}
	cfg.SourceDir = msg.SourceDir
	if msg.Output != "" {
		cfg.OutputTarget = msg.Output
	}
	if msg.Format != "" {
		cfg.Format = msg.Format
	}
	if msg.Compress != "" {
		cfg.Compress = msg.Compress
	}
	cfg.CheckArtifact = msg.CheckArtifact
	cfg.Extract = msg.Extract
	if msg.Title != "" {
		cfg.Metadata.Title = msg.Title
	}
	if msg.Author != "" {
		cfg.Metadata.Author = msg.Author
	}
	return cfg
}
