// Package validate runs an external conformance checker over a finished
// container and folds its findings into build diagnostics.
package validate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/goliatone/go-bookbinder/internal/book"
	"github.com/goliatone/go-bookbinder/internal/logging"
	"github.com/goliatone/go-bookbinder/pkg/interfaces"
)

const defaultTool = "epubcheck"

var ErrValidatorNotFound = errors.New("validate: validator executable not found")

// Report is the outcome of one validator run.
type Report struct {
	Valid       bool
	Diagnostics []book.Diagnostic
}

// Validator wraps the external checker.
type Validator struct {
	Path   string
	logger interfaces.Logger
}

func NewValidator(path string, provider interfaces.LoggerProvider) *Validator {
	return &Validator{
		Path:   path,
		logger: logging.PackagingLogger(provider),
	}
}

// Validate checks the artifact. A nonzero exit from the tool marks the
// report invalid but is not an error; only failing to run the tool is.
func (v *Validator) Validate(ctx context.Context, artifactPath string) (Report, error) {
	tool := v.Path
	if tool == "" {
		found, err := exec.LookPath(defaultTool)
		if err != nil {
			return Report{}, fmt.Errorf("%w: %s", ErrValidatorNotFound, defaultTool)
		}
		tool = found
	}

	cmd := exec.CommandContext(ctx, tool, artifactPath)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	v.logger.Debug("running validator", "tool", tool, "artifact", artifactPath)
	runErr := cmd.Run()

	report := Report{
		Valid:       runErr == nil,
		Diagnostics: parseFindings(output.String(), artifactPath),
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return Report{}, fmt.Errorf("validate: run %s: %w", tool, runErr)
		}
		if len(report.Diagnostics) == 0 {
			report.Diagnostics = append(report.Diagnostics, book.Errorf("validate", "", artifactPath,
				"validator exited %d with no parsable findings", exitErr.ExitCode()))
		}
	}
	return report, nil
}

// parseFindings extracts ERROR(...) and WARNING(...) lines from epubcheck
// style output. Anything else is tool chatter and is dropped.
func parseFindings(out, artifact string) []book.Diagnostic {
	var diags []book.Diagnostic
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "ERROR("):
			diags = append(diags, book.Errorf("validate", "", artifact, "%s", line))
		case strings.HasPrefix(line, "WARNING("):
			diags = append(diags, book.Warnf("validate", "", artifact, "%s", line))
		}
	}
	return diags
}
