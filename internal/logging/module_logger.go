package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-bookbinder/pkg/interfaces"
)

const (
	rootModule      = "bookbinder"
	identifyModule  = "bookbinder.identify"
	xrefModule      = "bookbinder.xref"
	assetsModule    = "bookbinder.assets"
	markdownModule  = "bookbinder.markdown"
	renderModule    = "bookbinder.render"
	packagingModule = "bookbinder.packaging"
)

const (
	fieldChapter  = "chapter"
	fieldTarget   = "target"
	fieldArtifact = "artifact"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// IdentifyLogger returns the logger namespace reserved for identifier assignment.
func IdentifyLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, identifyModule)
}

// XRefLogger returns the logger namespace reserved for cross-reference resolution.
func XRefLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, xrefModule)
}

// AssetsLogger returns the logger namespace reserved for the asset registry.
func AssetsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, assetsModule)
}

// MarkdownLogger returns the logger namespace reserved for chapter loading.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// RenderLogger returns the logger namespace reserved for chapter rendering.
func RenderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, renderModule)
}

// PackagingLogger returns the logger namespace reserved for the packaging pipeline.
func PackagingLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, packagingModule)
}

// WithChapterContext enriches the provided logger with common build fields
// such as the chapter identifier and the reference target. Empty values are
// ignored.
func WithChapterContext(logger interfaces.Logger, chapter, target, artifact string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(chapter); trimmed != "" {
		fields[fieldChapter] = trimmed
	}
	if trimmed := strings.TrimSpace(target); trimmed != "" {
		fields[fieldTarget] = trimmed
	}
	if trimmed := strings.TrimSpace(artifact); trimmed != "" {
		fields[fieldArtifact] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so components can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (l noopLogger) WithContext(context.Context) interfaces.Logger { return l }
